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

package catalogevent

import "errors"

// ErrInvalidEnvelope indicates the message structure is malformed.
var ErrInvalidEnvelope = errors.New("catalogevent: invalid envelope")

// ErrNoHandler indicates no registered handler matched the message.
var ErrNoHandler = errors.New("catalogevent: no handler registered")

// ErrSchemaValidation indicates the payload did not match the expected struct.
var ErrSchemaValidation = errors.New("catalogevent: schema validation failed")

// ErrUnprocessableEntity indicates the entity could not be processed.
var ErrUnprocessableEntity = errors.New("catalogevent: unprocessable entity")
