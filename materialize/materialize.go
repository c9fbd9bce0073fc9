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

// Package materialize implements C6: turns a dataset.Delta into the
// wire-ready payload spec.md §6 describes, by running each item through a
// mutable payload builder pipeline (spec.md §4.6, §9 Design Notes):
//
//  1. project to user fields
//  2. inject auto-fields (source side for adds, destination side for updates)
//  3. fill required defaults
//  4. enforce types
//  5. remap ID references through the C5 cache
//  6. stringify configured fields
//  7. run C7 custom transformers
//
// Grounded on CKANData.py's getAddData/getUpdateData/enforceTypes/
// remapIdFields/addRequiredDefaultValues/doStringify methods, adapted from a
// class of accreting side effects into a sequence of pure functions over a
// plain map[string]any payload item.
package materialize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
	"github.com/franTarkenton/bcdc-2-bcdc/dataset"
	"github.com/franTarkenton/bcdc-2-bcdc/record"
	"github.com/franTarkenton/bcdc-2-bcdc/remapcache"
	"github.com/franTarkenton/bcdc-2-bcdc/transform"
	"github.com/franTarkenton/bcdc-2-bcdc/transformers"
)

// Payload is the wire-ready shape spec.md §6 names for one kind: a list of
// new records, the unique keys to delete, and a unique-key-indexed map of
// update bodies.
type Payload struct {
	Kind    catalog.Kind
	Adds    []map[string]any
	Deletes []string
	Updates map[string]map[string]any
}

// Observer is notified once a kind's delta has been fully materialized. A
// nil Observer is a valid no-op; catalogevent provides a concrete
// implementation that publishes a DeltaComputed event.
type Observer interface {
	DeltaMaterialized(kind catalog.Kind, adds, updates, deletes int)
}

// Materialize runs delta's adds and updates through the C6 pipeline,
// producing the payload the destination-side write operations consume.
// Deletes pass through unchanged: they are already destination unique keys
// and carry no body to build.
func Materialize(
	ctx context.Context,
	delta dataset.Delta,
	cfg *transform.Config,
	cache *remapcache.Cache,
	registry *transformers.Registry,
	obs Observer,
) (Payload, error) {
	kc, err := cfg.Kind(delta.Kind)
	if err != nil {
		return Payload{}, err
	}

	adds, err := materializeAdds(ctx, delta, kc, cache)
	if err != nil {
		return Payload{}, err
	}
	updates, updateKeys, err := materializeUpdates(ctx, delta, cfg, kc, cache)
	if err != nil {
		return Payload{}, err
	}

	if registry != nil {
		names := kc.CustomTransformerNames()
		if len(names) > 0 {
			adds, err = registry.Run(delta.Kind, names, adds)
			if err != nil {
				return Payload{}, err
			}
			updateList, err := registry.Run(delta.Kind, names, updates)
			if err != nil {
				return Payload{}, err
			}
			updates = updateList
		}
	}

	payload := Payload{
		Kind:    delta.Kind,
		Adds:    adds,
		Deletes: delta.Deletes,
		Updates: make(map[string]map[string]any, len(updates)),
	}
	for i, key := range updateKeys {
		payload.Updates[key] = updates[i]
	}

	if obs != nil {
		obs.DeltaMaterialized(delta.Kind, len(payload.Adds), len(payload.Updates), len(payload.Deletes))
	}

	return payload, nil
}

func materializeAdds(ctx context.Context, delta dataset.Delta, kc transform.KindConfig, cache *remapcache.Cache) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(delta.Adds))
	for _, item := range delta.Adds {
		rec, ok := item.Projection.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: kind %q key %q", ErrProjectionNotObject, delta.Kind, item.Key)
		}
		rec = deepCopyMap(rec)

		injectAutoFields(rec, item.SourceRaw, kc.AddAutoFields())
		fillDefaults(rec, kc.DefaultValues())
		enforceTypes(rec, kc.TypeEnforcement(), delta.Kind)
		if err := remapIDFields(ctx, rec, kc.IDFields(), cache); err != nil {
			return nil, err
		}
		stringifyFields(rec, kc.StringifiedFields())

		out = append(out, rec)
	}

	return out, nil
}

func materializeUpdates(
	ctx context.Context,
	delta dataset.Delta,
	cfg *transform.Config,
	kc transform.KindConfig,
	cache *remapcache.Cache,
) ([]map[string]any, []string, error) {
	keys := make([]string, 0, len(delta.Updates))
	for key := range delta.Updates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		item := delta.Updates[key]

		projected, err := record.New(delta.Kind, item.SourceRaw).Project(cfg)
		if err != nil {
			return nil, nil, err
		}
		rec, ok := projected.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: kind %q key %q", ErrProjectionNotObject, delta.Kind, key)
		}

		injectAutoFields(rec, item.DestRaw, kc.UpdateAutoFields())
		fillDefaults(rec, kc.DefaultValues())
		enforceTypes(rec, kc.TypeEnforcement(), delta.Kind)
		if err := remapIDFields(ctx, rec, kc.IDFields(), cache); err != nil {
			return nil, nil, err
		}
		stringifyFields(rec, kc.StringifiedFields())

		out = append(out, rec)
	}

	return out, keys, nil
}

// injectAutoFields copies fields the kind config names as auto-generated
// but still wanted on the wire (IDs, revisions) from origin (the source
// record for adds, the destination record for updates), which the
// projection already stripped out since they are not user-populated
// (spec.md §4.6 step 2).
func injectAutoFields(rec map[string]any, origin map[string]any, fields []string) {
	for _, f := range fields {
		if v, ok := origin[f]; ok {
			rec[f] = v
		}
	}
}

// fillDefaults ensures every configured default field is present, following
// the shape of the default value: a primitive sets a primitive; a nested
// object default recurses key by key into an existing object, or is deep
// copied wholesale if the field is entirely absent (spec.md §4.6 step 3,
// CKANData.py's addRequiredDefaultValues/__populateField).
func fillDefaults(rec map[string]any, defaults map[string]any) {
	for field, def := range defaults {
		populateField(rec, field, def)
	}
}

func populateField(data map[string]any, key string, def any) {
	nested, isObject := def.(map[string]any)
	if !isObject {
		if _, present := data[key]; !present {
			data[key] = deepCopy(def)
		}

		return
	}

	existing, present := data[key]
	if !present {
		data[key] = deepCopy(nested)

		return
	}

	existingMap, ok := existing.(map[string]any)
	if !ok {
		// field present but of the wrong shape: leave it for enforceTypes
		// to flag rather than overwrite non-empty data.
		return
	}
	for nestedKey, nestedDef := range nested {
		populateField(existingMap, nestedKey, nestedDef)
	}
}

// enforceTypes checks every configured field against its expected runtime
// type (the type of the canonical empty value in config). A present field
// whose type disagrees is coerced to the canonical empty value if it is
// itself empty-equivalent; otherwise the mismatch is logged and the value
// passes through unchanged (spec.md §4.6 step 4, §7 TypeMismatch).
func enforceTypes(rec map[string]any, enforce map[string]any, kind catalog.Kind) {
	for field, want := range enforce {
		got, present := rec[field]
		if !present {
			continue
		}
		if sameGoType(got, want) {
			continue
		}
		if isEmptyEquivalent(got) {
			rec[field] = want

			continue
		}
		slog.Warn("materialize: type enforcement mismatch",
			"kind", kind, "field", field, "value", got)
	}
}

func sameGoType(a, b any) bool {
	return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}

func isEmptyEquivalent(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

// remapIDFields translates every configured ID reference from its
// source-side auto value to its destination-side equivalent (spec.md §4.6
// step 5, CKANData.py's remapIdFields).
func remapIDFields(ctx context.Context, rec map[string]any, rules []transform.IDFieldRule, cache *remapcache.Cache) error {
	if cache == nil {
		return nil
	}
	for _, rule := range rules {
		val, present := rec[rule.Property]
		if !present || val == nil {
			continue
		}
		srcAuto := fmt.Sprintf("%v", val)
		destAuto, err := cache.SrcToDest(ctx, rule.ChildField, rule.ChildKind, srcAuto)
		if err != nil {
			return err
		}
		rec[rule.Property] = destAuto
	}

	return nil
}

// stringifyFields JSON-encodes each configured field's value into a string,
// mirroring CKANData.py's doStringify: some destination APIs want a
// sub-structure transmitted as an opaque JSON string rather than a nested
// object.
func stringifyFields(rec map[string]any, fields []string) {
	for _, f := range fields {
		v, present := rec[f]
		if !present {
			continue
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			continue
		}
		rec[f] = string(encoded)
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}

	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopy(item)
		}

		return out
	default:
		return v
	}
}
