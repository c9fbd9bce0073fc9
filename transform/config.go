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

// Package transform implements C1: a pure, side-effect free configuration
// object answering per-kind questions about schema, ignore lists, default
// values, type enforcement, ID-reference rules, and custom transformer
// names. It is loaded once and never mutated.
package transform

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
)

// FieldMapping is a per-kind (auto_field, user_field) pair enabling
// cross-instance ID translation through the remap cache.
type FieldMapping struct {
	AutoPopulatedField string `json:"auto_populated_field"`
	UserPopulatedField string `json:"user_populated_field"`
}

// IDFieldRule says the value under Property is an auto-ID of ChildKind's
// ChildField and must be remapped during materialization.
type IDFieldRule struct {
	Property  string      `json:"property"`
	ChildKind catalog.Kind `json:"obj_type"`
	ChildField string     `json:"obj_field"`
}

// kindConfig is the JSON shape of one kind's entry in the transform config
// file. Field names are wire contracts, not suggestions (spec.md §6).
type kindConfig struct {
	UserPopulatedFields      *Schema                `json:"user_populated_fields"`
	UniqueIDField            string                 `json:"unique_id_field"`
	IgnoreList               []string               `json:"ignore_list"`
	FieldMapping             []FieldMapping         `json:"field_mapping"`
	RequiredDefaultValues    map[string]any         `json:"required_default_values"`
	TypeEnforcement          map[string]any         `json:"type_enforcement"`
	IDFields                 []IDFieldRule          `json:"id_fields"`
	FieldsToIncludeOnAdd     []string               `json:"fields_to_include_on_add"`
	FieldsToIncludeOnUpdate  []string               `json:"fields_to_include_on_update"`
	CustomTransformationMethod []string             `json:"custom_transformation_method"`
	StringifiedFields        []string               `json:"stringified_fields"`
}

// KindConfig is the queryable view of one kind's configuration. All methods
// are pure and total: absent config collapses to zero values, never a
// lookup panic, so callers downstream (record, dataset, materialize) never
// need to nil-check before reading common fields.
type KindConfig struct {
	kind Kind
	raw  kindConfig
}

// Kind re-exports catalog.Kind so callers only need to import transform for
// the config-query surface.
type Kind = catalog.Kind

// Schema returns the user-field schema tree for this kind.
func (kc KindConfig) Schema() *Schema {
	return kc.raw.UserPopulatedFields
}

// UniqueKeyField is the user-populated field identifying a record within
// its kind.
func (kc KindConfig) UniqueKeyField() string {
	return kc.raw.UniqueIDField
}

// IgnoreSet is the set of unique-key values excluded from synchronization.
func (kc KindConfig) IgnoreSet() map[string]struct{} {
	set := make(map[string]struct{}, len(kc.raw.IgnoreList))
	for _, v := range kc.raw.IgnoreList {
		set[v] = struct{}{}
	}

	return set
}

// IsIgnored reports whether key is in this kind's ignore list.
func (kc KindConfig) IsIgnored(key string) bool {
	for _, v := range kc.raw.IgnoreList {
		if v == key {
			return true
		}
	}

	return false
}

// FieldMappings returns the (auto_field, user_field) pairs used to populate
// the ID remap cache for this kind.
func (kc KindConfig) FieldMappings() []FieldMapping {
	return kc.raw.FieldMapping
}

// DefaultValues is the field → default JSON value map.
func (kc KindConfig) DefaultValues() map[string]any {
	return kc.raw.RequiredDefaultValues
}

// TypeEnforcement is the field → canonical empty value map; the value's
// runtime type is the expected type for that field.
func (kc KindConfig) TypeEnforcement() map[string]any {
	return kc.raw.TypeEnforcement
}

// IDFields are the ID-reference rules to remap during materialization.
func (kc KindConfig) IDFields() []IDFieldRule {
	return kc.raw.IDFields
}

// AddAutoFields are the auto-fields copied from the source record on add.
func (kc KindConfig) AddAutoFields() []string {
	return kc.raw.FieldsToIncludeOnAdd
}

// UpdateAutoFields are the auto-fields copied from the destination record
// on update.
func (kc KindConfig) UpdateAutoFields() []string {
	return kc.raw.FieldsToIncludeOnUpdate
}

// CustomTransformerNames are the ordered names of the custom transformers
// to run against this kind's materialized payloads.
func (kc KindConfig) CustomTransformerNames() []string {
	return kc.raw.CustomTransformationMethod
}

// StringifiedFields are the fields whose value must be JSON-encoded into a
// string before transmission, mirroring CKANData.py's doStringify step
// (a supplemental feature the distilled spec omitted; see SPEC_FULL.md).
func (kc KindConfig) StringifiedFields() []string {
	return kc.raw.StringifiedFields
}

// Config is the complete, immutable transform configuration: one
// KindConfig per entity kind, keyed by kind.
type Config struct {
	kinds map[Kind]kindConfig
}

// Load decodes a transform config file (spec.md §6) and validates it
// against the closed kind set and the presence of a unique key field per
// kind. A malformed or incomplete config is a ConfigInvalid error, fatal at
// startup (spec.md §7).
func Load(r io.Reader) (*Config, error) {
	var raw map[string]kindConfig
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSchema, err)
	}

	kinds := make(map[Kind]kindConfig, len(raw))
	for name, kc := range raw {
		k, err := catalog.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", catalog.ErrUnknownKind, err)
		}
		if kc.UniqueIDField == "" {
			return nil, fmt.Errorf("%w: kind %q", ErrMissingUniqueKeyField, name)
		}
		kinds[k] = kc
	}

	return &Config{kinds: kinds}, nil
}

// Kind returns the queryable config for k, or an error if k was not present
// in the loaded document.
func (c *Config) Kind(k Kind) (KindConfig, error) {
	raw, ok := c.kinds[k]
	if !ok {
		return KindConfig{}, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}

	return KindConfig{kind: k, raw: raw}, nil
}

// Kinds returns the set of kinds present in this config, in the fixed
// topological processing order (catalog.AllKinds), skipping any kind the
// config document did not mention.
func (c *Config) Kinds() []Kind {
	ordered := make([]Kind, 0, len(c.kinds))
	for _, k := range catalog.AllKinds {
		if _, ok := c.kinds[k]; ok {
			ordered = append(ordered, k)
		}
	}

	return ordered
}
