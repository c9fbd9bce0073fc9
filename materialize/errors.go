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

package materialize

import "errors"

// ErrProjectionNotObject: a kind's projection produced something other than
// a JSON object at the top level, which cannot be materialized into a
// payload item. SchemaMismatch-class; Materialize returns it and produces no
// payload for that kind (spec.md §7).
var ErrProjectionNotObject = errors.New("materialize: projection is not an object")
