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
	"log/slog"
	"time"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
)

// DeltaComputed reports the size of one kind's materialized delta. It is
// the concrete event SPEC_FULL.md's C6 "event emission" addition publishes;
// nothing downstream depends on it, it exists purely for observability.
type DeltaComputed struct {
	EntityKind string    `json:"entity_kind"`
	Adds       int       `json:"adds"`
	Updates    int       `json:"updates"`
	Deletes    int       `json:"deletes"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Kind implements Event.
func (DeltaComputed) Kind() string { return "catalogsync.DeltaComputed" }

// APIVersion implements Event.
func (DeltaComputed) APIVersion() string { return "v1" }

// Publisher sends an already-enveloped event payload somewhere: a pub/sub
// topic, a log sink, a test spy. Unlike the router side, publishing has no
// registered-type constraint, so the interface is a single method.
type Publisher interface {
	Publish(ctx context.Context, data []byte) error
}

// NoopPublisher discards every event. It is the default when no event sink
// is configured, matching spec.md's "event emission is optional" posture.
type NoopPublisher struct{}

// Publish implements Publisher by doing nothing.
func (NoopPublisher) Publish(context.Context, []byte) error { return nil }

// DeltaObserver adapts a Publisher into the materialize.Observer interface,
// so the materializer never needs to import this package directly.
type DeltaObserver struct {
	Publisher Publisher
}

// DeltaMaterialized implements materialize.Observer.
func (o DeltaObserver) DeltaMaterialized(kind catalog.Kind, adds, updates, deletes int) {
	publisher := o.Publisher
	if publisher == nil {
		publisher = NoopPublisher{}
	}

	data, err := New(DeltaComputed{
		EntityKind: kind.String(),
		Adds:       adds,
		Updates:    updates,
		Deletes:    deletes,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("catalogevent: failed to build delta event", "kind", kind, "error", err)

		return
	}

	if err := publisher.Publish(context.Background(), data); err != nil {
		slog.Error("catalogevent: failed to publish delta event", "kind", kind, "error", err)
	}
}
