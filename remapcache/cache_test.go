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
	"errors"
	"strings"
	"testing"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
	"github.com/franTarkenton/bcdc-2-bcdc/record"
	"github.com/franTarkenton/bcdc-2-bcdc/transform"
)

const cacheTestConfig = `{
  "organizations": {
    "user_populated_fields": {"title": true},
    "unique_id_field": "name",
    "ignore_list": [],
    "field_mapping": [{"auto_populated_field": "id", "user_populated_field": "name"}],
    "required_default_values": {},
    "type_enforcement": {},
    "id_fields": [],
    "fields_to_include_on_add": [],
    "fields_to_include_on_update": [],
    "custom_transformation_method": [],
    "stringified_fields": []
  }
}`

// stubAdapter serves a single canned organization record for lazy loads.
type stubAdapter struct {
	record map[string]any
}

func (s stubAdapter) List(context.Context, catalog.Kind) ([]map[string]any, error) {
	return []map[string]any{s.record}, nil
}

func (s stubAdapter) Get(_ context.Context, _ catalog.Kind, _ string) (map[string]any, error) {
	return s.record, nil
}

func loadCacheTestConfig(t *testing.T) *transform.Config {
	t.Helper()
	cfg, err := transform.Load(strings.NewReader(cacheTestConfig))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	return cfg
}

func TestSrcToDestResolvesAfterBulkRegister(t *testing.T) {
	cfg := loadCacheTestConfig(t)
	kc, err := cfg.Kind(catalog.Organizations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache := New(NewMemStore(), nil, cfg)
	ctx := context.Background()

	srcRecs := []record.Record{record.New(catalog.Organizations, map[string]any{"id": "src-1", "name": "parks"})}
	destRecs := []record.Record{record.New(catalog.Organizations, map[string]any{"id": "dest-1", "name": "parks"})}

	if err := cache.RegisterDataset(catalog.Organizations, catalog.Src, srcRecs, kc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cache.RegisterDataset(catalog.Organizations, catalog.Dest, destRecs, kc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := cache.SrcToDest(ctx, "id", catalog.Organizations, "src-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "dest-1" {
		t.Errorf("got %q, want dest-1", got)
	}
}

func TestSrcToDestRefIntegrityWithoutAdapter(t *testing.T) {
	cfg := loadCacheTestConfig(t)
	cache := New(NewMemStore(), nil, cfg)

	_, err := cache.SrcToDest(context.Background(), "id", catalog.Organizations, "unknown-src-id")
	if !errors.Is(err, ErrRefIntegrity) {
		t.Errorf("got error %v, want ErrRefIntegrity", err)
	}
}

func TestSrcToDestLazyLoadsMissingDestRecord(t *testing.T) {
	cfg := loadCacheTestConfig(t)
	kc, err := cfg.Kind(catalog.Organizations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	adapter := stubAdapter{record: map[string]any{"id": "dest-99", "name": "health"}}
	cache := New(NewMemStore(), adapter, cfg)
	ctx := context.Background()

	srcRecs := []record.Record{record.New(catalog.Organizations, map[string]any{"id": "src-99", "name": "health"})}
	if err := cache.RegisterDataset(catalog.Organizations, catalog.Src, srcRecs, kc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// destination side never bulk-registered: SrcToDest must fall back to a
	// single-record load through the adapter.

	got, err := cache.SrcToDest(ctx, "id", catalog.Organizations, "src-99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "dest-99" {
		t.Errorf("got %q, want dest-99 via lazy load", got)
	}
}

func TestIsAutoValueInDest(t *testing.T) {
	cfg := loadCacheTestConfig(t)
	kc, err := cfg.Kind(catalog.Organizations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache := New(NewMemStore(), nil, cfg)
	ctx := context.Background()

	destRecs := []record.Record{record.New(catalog.Organizations, map[string]any{"id": "dest-5", "name": "parks"})}
	if err := cache.RegisterDataset(catalog.Organizations, catalog.Dest, destRecs, kc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cache.IsAutoValueInDest(ctx, "id", catalog.Organizations, "dest-5") {
		t.Error("expected dest-5 to be registered")
	}
	if cache.IsAutoValueInDest(ctx, "id", catalog.Organizations, "dest-unknown") {
		t.Error("did not expect dest-unknown to be registered")
	}
}
