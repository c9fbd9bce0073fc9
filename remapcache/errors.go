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

package remapcache

import "errors"

// ErrRefIntegrity: an ID remap query could not find its target on either
// side of the cache (spec.md §7). Fatal for the delta being materialized,
// but does not invalidate any previously computed kind's delta.
var ErrRefIntegrity = errors.New("remapcache: referential integrity violation")
