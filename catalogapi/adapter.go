// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalogapi is the external collaborator spec.md §6 calls the "API
// adapter": an HTTP client against one catalog instance's JSON API. It is
// explicitly out of the engine's core (spec.md §1), but the core (C5,
// specifically) depends on its interface for lazy bulk and single-record
// loads, so the contract lives here and the engine's other packages import
// only the Adapter interface.
package catalogapi

import (
	"context"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
)

// Adapter is the read surface the ID remap cache needs (spec.md §6): a list
// operation and a single-record get operation per kind. Implementations
// fetch complete JSON objects matching the catalog's published schema.
type Adapter interface {
	List(ctx context.Context, kind catalog.Kind) ([]map[string]any, error)
	Get(ctx context.Context, kind catalog.Kind, identifier string) (map[string]any, error)
}
