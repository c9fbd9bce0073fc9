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

// Package record implements C2: wrapping one JSON object of a given kind,
// producing its comparable projection, evaluating ignore membership, and
// testing structural equality via package structdiff.
//
// Open question resolved (see spec.md §9): custom transformers never run
// here. Equality is a pure function of two projections. Nothing in this
// package imports the transformers package, which is how that separation
// is enforced rather than merely documented.
package record

import (
	"fmt"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
	"github.com/franTarkenton/bcdc-2-bcdc/structdiff"
	"github.com/franTarkenton/bcdc-2-bcdc/transform"
)

// Record wraps one JSON object of a given kind. It is immutable: every
// operation returns a new value rather than mutating Raw.
type Record struct {
	Kind catalog.Kind
	Raw  map[string]any
}

// New wraps a decoded JSON object as a Record of the given kind.
func New(kind catalog.Kind, raw map[string]any) Record {
	return Record{Kind: kind, Raw: raw}
}

// UniqueKey returns this record's unique-key field value, per the kind's
// configured unique_id_field.
func (r Record) UniqueKey(cfg *transform.Config) (string, error) {
	kc, err := cfg.Kind(r.Kind)
	if err != nil {
		return "", err
	}
	v, ok := r.Raw[kc.UniqueKeyField()]
	if !ok {
		return "", fmt.Errorf("%w: record of kind %q missing unique key field %q",
			ErrSchemaMismatch, r.Kind, kc.UniqueKeyField())
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: unique key field %q of kind %q is not a string",
			ErrSchemaMismatch, kc.UniqueKeyField(), r.Kind)
	}

	return s, nil
}

// IsIgnored reports whether this record's unique key is in its kind's
// ignore list (spec.md §7, IgnoreHit: silent exclude from delta).
func (r Record) IsIgnored(cfg *transform.Config) bool {
	key, err := r.UniqueKey(cfg)
	if err != nil {
		return false
	}
	kc, err := cfg.Kind(r.Kind)
	if err != nil {
		return false
	}

	return kc.IsIgnored(key)
}

// Project computes the comparable projection: the schema-guided recursive
// walk, followed by stripping embedded ignores. Invariant 1 (idempotency):
// projecting an already-projected value is a no-op, which holds here
// because projection only ever removes or nulls fields, never adds
// structure beyond what the schema names.
func (r Record) Project(cfg *transform.Config) (any, error) {
	kc, err := cfg.Kind(r.Kind)
	if err != nil {
		return nil, err
	}

	projected := applySchema(kc.Schema(), r.Raw)

	return stripEmbeddedIgnores(projected, cfg, kc.UniqueKeyField(), kc.IgnoreSet()), nil
}

// applySchema recursively walks raw guided by schema, the C2 `project()`
// operation from spec.md §4.2. A leaf of `true` passes its value through
// unmodified; an object descends key by key, materializing missing keys as
// null; a list applies its single element schema to every item, or
// collapses to null if the field itself is absent (structural alignment
// for records on either side of a diff that may have never seen the
// field).
func applySchema(schema *transform.Schema, raw any) any {
	if schema == nil {
		return nil
	}

	switch schema.Kind {
	case transform.SchemaLeaf:
		if !schema.Leaf {
			return nil
		}

		return raw
	case transform.SchemaObject:
		rawMap, _ := raw.(map[string]any)
		out := make(map[string]any, len(schema.Object))
		for key, childSchema := range schema.Object {
			var childRaw any
			if rawMap != nil {
				childRaw = rawMap[key]
			}
			out[key] = applySchema(childSchema, childRaw)
		}

		return out
	case transform.SchemaList:
		if raw == nil {
			return nil
		}
		rawList, ok := raw.([]any)
		if !ok {
			return nil
		}
		out := make([]any, len(rawList))
		for i, item := range rawList {
			out[i] = applySchema(schema.Elem, item)
		}

		return out
	default:
		return nil
	}
}

// stripEmbeddedIgnores walks a projected value looking for sub-objects
// whose key names another kind (spec.md §4.2, §3 "Comparable projection").
// Entering such a key swaps in that kind's unique-key field and ignore set
// for everything beneath it; list elements whose unique-key value is in
// the active ignore set are dropped. Removal is deferred until an entire
// list has been scanned so index positions stay stable while scanning,
// mirroring the original's DataCell-based deferred-delete approach.
func stripEmbeddedIgnores(
	node any,
	cfg *transform.Config,
	ignoreField string,
	ignoreSet map[string]struct{},
) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			childIgnoreField, childIgnoreSet := ignoreField, ignoreSet
			if kind, err := catalog.ParseKind(key); err == nil {
				if kc, err := cfg.Kind(kind); err == nil {
					childIgnoreField, childIgnoreSet = kc.UniqueKeyField(), kc.IgnoreSet()
				}
			}
			out[key] = stripEmbeddedIgnores(child, cfg, childIgnoreField, childIgnoreSet)
		}

		return out
	case []any:
		kept := make([]any, 0, len(v))
		for _, item := range v {
			processed := stripEmbeddedIgnores(item, cfg, ignoreField, ignoreSet)
			if shouldDropListElement(processed, ignoreField, ignoreSet) {
				continue
			}
			kept = append(kept, processed)
		}

		return kept
	default:
		return node
	}
}

// shouldDropListElement reports whether an object list element's
// ignore-field value is present in the active ignore set.
func shouldDropListElement(item any, ignoreField string, ignoreSet map[string]struct{}) bool {
	obj, ok := item.(map[string]any)
	if !ok || ignoreField == "" {
		return false
	}
	val, ok := obj[ignoreField].(string)
	if !ok {
		return false
	}
	_, ignored := ignoreSet[val]

	return ignored
}

// Equals reports whether r and other are equal under the empty-equivalence
// diff rule (spec.md §4.2/§4.3, Invariant 2). Both records must be of the
// same kind, otherwise CompareTypeMismatch (a fatal programmer error) is
// returned.
func (r Record) Equals(other Record, cfg *transform.Config) (bool, error) {
	if r.Kind != other.Kind {
		return false, fmt.Errorf("%w: comparing kind %q with kind %q", ErrCompareTypeMismatch, r.Kind, other.Kind)
	}

	selfProj, err := r.Project(cfg)
	if err != nil {
		return false, err
	}
	otherProj, err := other.Project(cfg)
	if err != nil {
		return false, err
	}

	return structdiff.Diff(selfProj, otherProj).Empty(), nil
}
