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

// Package catalogevent is the optional delta-computed notification channel
// SPEC_FULL.md adds to C6: publishing an envelope per kind once its delta
// has been materialized, for callers that want to observe sync progress
// without threading return values through engine.Run. Adapted from
// lib/event's envelope/router pattern.
package catalogevent

import (
	"encoding/json"
	"fmt"
)

// Event is the interface every publishable message implements, so the
// router can infer Kind and APIVersion from the type itself.
type Event interface {
	Kind() string
	APIVersion() string
}

// envelope is the wire wrapper around a marshaled Event payload.
type envelope struct {
	APIVersion string          `json:"apiVersion"`
	Kind       string          `json:"kind"`
	Data       json.RawMessage `json:"data"`
}

// New wraps payload in its envelope and marshals the whole thing.
func New[T Event](payload T) ([]byte, error) {
	dataBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("catalogevent: failed to marshal payload: %w", err)
	}

	return json.Marshal(envelope{
		Kind:       payload.Kind(),
		APIVersion: payload.APIVersion(),
		Data:       dataBytes,
	})
}
