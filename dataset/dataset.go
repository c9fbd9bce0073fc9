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

// Package dataset implements C4: a collection of records of one kind,
// indexed by unique key, computing per-kind (adds, deletes, updates)
// against a peer dataset.
package dataset

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
	"github.com/franTarkenton/bcdc-2-bcdc/record"
	"github.com/franTarkenton/bcdc-2-bcdc/remapcache"
	"github.com/franTarkenton/bcdc-2-bcdc/transform"
)

// Dataset holds a list of records of one kind plus a lazily built
// unique_key -> record index (spec.md §4.4).
type Dataset struct {
	Kind    catalog.Kind
	Origin  catalog.Origin
	records []record.Record
	cfg     *transform.Config
	index   map[string]record.Record
}

// New builds a Dataset over records, all of which must be of kind.
func New(kind catalog.Kind, origin catalog.Origin, records []record.Record, cfg *transform.Config) *Dataset {
	return &Dataset{Kind: kind, Origin: origin, records: records, cfg: cfg}
}

func (d *Dataset) ensureIndex() error {
	if d.index != nil {
		return nil
	}
	index := make(map[string]record.Record, len(d.records))
	for _, r := range d.records {
		key, err := r.UniqueKey(d.cfg)
		if err != nil {
			return err
		}
		index[key] = r
	}
	d.index = index

	return nil
}

// UniqueKeys returns the set of unique-key values in this dataset.
func (d *Dataset) UniqueKeys() (mapset.Set, error) {
	if err := d.ensureIndex(); err != nil {
		return nil, err
	}
	keys := mapset.NewSet()
	for k := range d.index {
		keys.Add(k)
	}

	return keys, nil
}

// Record returns the record for key, or false if it is not present in this
// dataset. Subsequent lookups are O(1) after the first call builds the
// index.
func (d *Dataset) Record(key string) (record.Record, bool, error) {
	if err := d.ensureIndex(); err != nil {
		return record.Record{}, false, err
	}
	r, ok := d.index[key]

	return r, ok, nil
}

// AddItem pairs an add's comparable projection (what C6 filters to user
// fields, re-projecting is then a no-op) with the full source-side raw
// JSON the materializer needs to pull add-auto-fields from (spec.md
// §4.6 step 2): the projection alone has no auto-fields left in it.
type AddItem struct {
	Key        string
	Projection any
	SourceRaw  map[string]any
}

// UpdateItem carries both sides' raw JSON for a changed record: the source
// side is what gets re-projected and decorated (spec.md §4.4's "updates
// carry raw source JSON" asymmetry), the destination side is where
// update-auto-fields (IDs, revisions) are pulled from so they survive the
// rewrite.
type UpdateItem struct {
	SourceRaw map[string]any
	DestRaw   map[string]any
}

// Delta is a per-kind (adds, deletes, updates) triple (spec.md §3/§4.4).
type Delta struct {
	Kind    catalog.Kind
	Adds    []AddItem
	Deletes []string
	Updates map[string]UpdateItem
}

// ComputeDelta implements C4's compute_delta operation: registers both
// sides with the ID remap cache, then computes set differences respecting
// the kind's ignore list.
func ComputeDelta(src, dest *Dataset, cache *remapcache.Cache, cfg *transform.Config) (Delta, error) {
	if src.Kind != dest.Kind {
		return Delta{}, fmt.Errorf("%w: src kind %q vs dest kind %q", record.ErrCompareTypeMismatch, src.Kind, dest.Kind)
	}
	kind := src.Kind

	kc, err := cfg.Kind(kind)
	if err != nil {
		return Delta{}, err
	}

	if err := cache.RegisterDataset(kind, catalog.Src, src.records, kc); err != nil {
		return Delta{}, err
	}
	if err := cache.RegisterDataset(kind, catalog.Dest, dest.records, kc); err != nil {
		return Delta{}, err
	}

	srcKeys, err := src.UniqueKeys()
	if err != nil {
		return Delta{}, err
	}
	destKeys, err := dest.UniqueKeys()
	if err != nil {
		return Delta{}, err
	}

	ignore := mapset.NewSet()
	for k := range kc.IgnoreSet() {
		ignore.Add(k)
	}

	deleteSet := destKeys.Difference(srcKeys).Difference(ignore)
	addSet := srcKeys.Difference(destKeys).Difference(ignore)
	commonSet := srcKeys.Intersect(destKeys).Difference(ignore)

	delta := Delta{
		Kind:    kind,
		Deletes: toSortedStrings(deleteSet),
		Updates: make(map[string]UpdateItem),
	}

	for _, key := range toSortedStrings(addSet) {
		r, ok, err := src.Record(key)
		if err != nil {
			return Delta{}, err
		}
		if !ok {
			continue
		}
		proj, err := r.Project(cfg)
		if err != nil {
			return Delta{}, err
		}
		delta.Adds = append(delta.Adds, AddItem{Key: key, Projection: proj, SourceRaw: r.Raw})
	}

	for _, key := range toSortedStrings(commonSet) {
		srcRec, ok, err := src.Record(key)
		if err != nil || !ok {
			continue
		}
		destRec, ok, err := dest.Record(key)
		if err != nil || !ok {
			continue
		}
		equal, err := srcRec.Equals(destRec, cfg)
		if err != nil {
			return Delta{}, err
		}
		if !equal {
			delta.Updates[key] = UpdateItem{SourceRaw: srcRec.Raw, DestRaw: destRec.Raw}
		}
	}

	return delta, nil
}

func toSortedStrings(s mapset.Set) []string {
	out := make([]string, 0, s.Cardinality())
	for _, v := range s.ToSlice() {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	sort.Strings(out)

	return out
}
