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

package record

import "errors"

// ErrSchemaMismatch: a record is missing a field its kind's config requires
// to function as a record (spec.md §7). Callers that can auto-heal (treat
// as null) should do so; UniqueKey cannot auto-heal since identity itself
// is missing.
var ErrSchemaMismatch = errors.New("record: schema mismatch")

// ErrCompareTypeMismatch: diffing or equating records of different kinds.
// Fatal programmer error (spec.md §7).
var ErrCompareTypeMismatch = errors.New("record: compare type mismatch between kinds")
