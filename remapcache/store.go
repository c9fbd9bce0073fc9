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

// Package remapcache implements C5: a four-way lookup
// (auto-field, kind, origin, key) -> value with forward and reverse
// tables, lazily populated via the catalog API adapter.
//
// spec.md §9's Design Notes prefer a flat (field, kind, origin, key) map
// over the literal five-level nested structure; this package takes that
// advice and backs the flat map with a pluggable Store, shaped exactly
// like the teacher's cache family (lib/localcache, lib/rediscache,
// lib/valkeycache all expose the same Cache(ctx, key, value) /
// Get(ctx, key) contract). A distributed Store keeps its entries across a
// driver restart; the bulk load still runs again, since every
// dataset.ComputeDelta call registers both sides.
package remapcache

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when key has never been cached.
// Analogous to the teacher's cachetypes.ErrCachedDataNotFound.
var ErrNotFound = errors.New("remapcache: key not found")

// Store is the backing tier for the flat remap table. Implementations
// need not be concurrency-safe across processes; MemStore guards its map
// with a mutex the same way lib/localcache.LocalDataCache does, and the
// Redis/Valkey implementations rely on single-key atomicity exactly the
// way the teacher's own cache wrappers do.
type Store interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
}
