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

import (
	"context"
	"encoding/json"
	"fmt"
)

// TypedHandler processes one strongly-typed event.
type TypedHandler[T Event] func(ctx context.Context, eventID string, event T) error

// Router dispatches envelopes to the handler registered for their
// (Kind, APIVersion) pair.
type Router struct {
	routes []route
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{routes: make([]route, 0)}
}

type route interface {
	Matches(kind, version string) bool
	Dispatch(ctx context.Context, eventID string, data json.RawMessage) error
}

// Register adds handler for T's (Kind, APIVersion). Panics on a duplicate
// registration, the same fail-fast posture as transformers.Registry.Register.
func Register[T Event](r *Router, handler TypedHandler[T]) {
	var zero T
	kind, version := zero.Kind(), zero.APIVersion()
	for _, existing := range r.routes {
		if existing.Matches(kind, version) {
			panic(fmt.Sprintf("catalogevent: duplicate handler registered for kind=%q version=%q", kind, version))
		}
	}
	r.routes = append(r.routes, &typedRoute[T]{kind: kind, version: version, handler: handler})
}

// HandleMessage parses data's envelope and dispatches to the matching
// registered handler.
func (r *Router) HandleMessage(ctx context.Context, eventID string, data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrUnprocessableEntity, ErrInvalidEnvelope, err)
	}

	for _, rt := range r.routes {
		if rt.Matches(env.Kind, env.APIVersion) {
			return rt.Dispatch(ctx, eventID, env.Data)
		}
	}

	return fmt.Errorf("%w: %w: kind=%q version=%q", ErrUnprocessableEntity, ErrNoHandler, env.Kind, env.APIVersion)
}

type typedRoute[T Event] struct {
	kind    string
	version string
	handler TypedHandler[T]
}

func (tr *typedRoute[T]) Matches(kind, version string) bool {
	return tr.kind == kind && tr.version == version
}

func (tr *typedRoute[T]) Dispatch(ctx context.Context, eventID string, data json.RawMessage) error {
	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %w: parsing %T failed: %w", ErrUnprocessableEntity, ErrSchemaValidation, payload, err)
	}

	return tr.handler(ctx, eventID, payload)
}
