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

import (
	"context"
	"fmt"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
	"github.com/franTarkenton/bcdc-2-bcdc/catalogapi"
	"github.com/franTarkenton/bcdc-2-bcdc/record"
	"github.com/franTarkenton/bcdc-2-bcdc/transform"
)

// Cache is C5's query surface: bulk and single-record population, plus the
// src-to-dest remap query every ID reference rule in C6 goes through.
type Cache struct {
	store   Store
	adapter catalogapi.Adapter
	cfg     *transform.Config
}

// New creates a Cache over store. adapter may be nil if the caller never
// needs single-record lazy loads (e.g. in tests that pre-populate both
// datasets fully); a nil adapter simply means RefIntegrity fires instead
// of triggering a fetch.
func New(store Store, adapter catalogapi.Adapter, cfg *transform.Config) *Cache {
	return &Cache{store: store, adapter: adapter, cfg: cfg}
}

// cellKey composes the four-level logical address into the flat key this
// package's Store implementations actually store, per the Design Notes
// §9 "Cache as explicit state" recommendation.
func cellKey(direction string, field string, kind catalog.Kind, origin catalog.Origin, key string) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", direction, field, kind, origin, key)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// RegisterDataset bulk-populates the cache from every record of kind on one
// origin, for every configured field mapping (spec.md §4.5, addData). A
// record missing either side of a field mapping is skipped rather than
// erroring: that is a SchemaMismatch (spec.md §7), auto-healed by simply
// not contributing a cache entry for that record's mapping.
func (c *Cache) RegisterDataset(kind catalog.Kind, origin catalog.Origin, records []record.Record, kc transform.KindConfig) error {
	ctx := context.Background()
	for _, fm := range kc.FieldMappings() {
		for _, r := range records {
			if err := c.registerOne(ctx, kind, origin, r.Raw, fm); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *Cache) registerOne(ctx context.Context, kind catalog.Kind, origin catalog.Origin, raw map[string]any, fm transform.FieldMapping) error {
	autoVal := stringify(raw[fm.AutoPopulatedField])
	userVal := stringify(raw[fm.UserPopulatedField])
	if autoVal == "" || userVal == "" {
		return nil
	}

	var err error
	switch origin {
	case catalog.Src:
		err = c.store.Put(ctx, cellKey("fwd", fm.AutoPopulatedField, kind, catalog.Src, autoVal), userVal)
		if err == nil {
			err = c.store.Put(ctx, cellKey("rev", fm.AutoPopulatedField, kind, catalog.Src, userVal), autoVal)
		}
	case catalog.Dest:
		err = c.store.Put(ctx, cellKey("fwd", fm.AutoPopulatedField, kind, catalog.Dest, userVal), autoVal)
		if err == nil {
			err = c.store.Put(ctx, cellKey("rev", fm.AutoPopulatedField, kind, catalog.Dest, autoVal), userVal)
		}
	}

	return err
}

// IsAutoValueInDest answers membership in the reverse dest table without
// triggering any load (spec.md §4.5).
func (c *Cache) IsAutoValueInDest(ctx context.Context, field string, kind catalog.Kind, autoValue string) bool {
	_, err := c.store.Get(ctx, cellKey("rev", field, kind, catalog.Dest, autoValue))

	return err == nil
}

// IsAutoValueInSrc answers membership in the forward src table.
func (c *Cache) IsAutoValueInSrc(ctx context.Context, field string, kind catalog.Kind, autoValue string) bool {
	_, err := c.store.Get(ctx, cellKey("fwd", field, kind, catalog.Src, autoValue))

	return err == nil
}

// SrcToDest translates a source-side auto-ID into its destination-side
// equivalent (spec.md §4.5). Step 1 resolves the auto value to its
// user-key on the source side, falling back to the source reverse table
// the way the original DataCache.src2DestRemap does; step 2 resolves the
// user-key to a destination auto value, triggering a single-record load if
// the destination bulk load never saw that record.
func (c *Cache) SrcToDest(ctx context.Context, field string, kind catalog.Kind, srcAutoValue string) (string, error) {
	userKey, err := c.resolveSrcUserKey(ctx, field, kind, srcAutoValue)
	if err != nil {
		return "", err
	}

	destAuto, err := c.store.Get(ctx, cellKey("fwd", field, kind, catalog.Dest, userKey))
	if err != nil {
		if loadErr := c.loadSingleRecord(ctx, kind, catalog.Dest, userKey); loadErr != nil {
			return "", fmt.Errorf("%w: field %q kind %q key %q: %w", ErrRefIntegrity, field, kind, userKey, loadErr)
		}
		destAuto, err = c.store.Get(ctx, cellKey("fwd", field, kind, catalog.Dest, userKey))
	}
	if err != nil {
		return "", fmt.Errorf("%w: field %q kind %q auto value %q has no destination counterpart",
			ErrRefIntegrity, field, kind, srcAutoValue)
	}

	return destAuto, nil
}

func (c *Cache) resolveSrcUserKey(ctx context.Context, field string, kind catalog.Kind, srcAutoValue string) (string, error) {
	userKey, err := c.store.Get(ctx, cellKey("fwd", field, kind, catalog.Src, srcAutoValue))
	if err == nil {
		return userKey, nil
	}

	userKey, err = c.store.Get(ctx, cellKey("rev", field, kind, catalog.Src, srcAutoValue))
	if err == nil {
		return userKey, nil
	}

	return "", fmt.Errorf("%w: field %q kind %q auto value %q not found on source",
		ErrRefIntegrity, field, kind, srcAutoValue)
}

// loadSingleRecord fetches one record through the API adapter and inserts
// it into the cache, used when materializing a reference whose target was
// not present in the bulk load (spec.md §4.5).
func (c *Cache) loadSingleRecord(ctx context.Context, kind catalog.Kind, origin catalog.Origin, userKey string) error {
	if c.adapter == nil {
		return fmt.Errorf("remapcache: no API adapter configured, cannot lazily load %q %q", kind, userKey)
	}

	kc, err := c.cfg.Kind(kind)
	if err != nil {
		return err
	}

	raw, err := c.adapter.Get(ctx, kind, userKey)
	if err != nil {
		return err
	}

	for _, fm := range kc.FieldMappings() {
		if err := c.registerOne(ctx, kind, origin, raw, fm); err != nil {
			return err
		}
	}

	return nil
}
