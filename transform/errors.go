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

package transform

import "errors"

// ErrMalformedSchema is a ConfigInvalid-class error: the transform config
// could not be decoded, either because it is not valid JSON or because a
// schema node did not match the tagged-variant shape.
var ErrMalformedSchema = errors.New("transform: malformed schema node")

// ErrUnknownKind is a ConfigInvalid-class error: a query was made for a kind
// absent from the loaded config.
var ErrUnknownKind = errors.New("transform: unknown kind in config")

// ErrMissingUniqueKeyField is a ConfigInvalid-class error: a kind's config
// did not name a unique_id_field.
var ErrMissingUniqueKeyField = errors.New("transform: kind config missing unique_id_field")
