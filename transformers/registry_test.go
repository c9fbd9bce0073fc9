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

package transformers

import (
	"errors"
	"strings"
	"testing"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
	"github.com/franTarkenton/bcdc-2-bcdc/transform"
)

func TestRegisterAndRun(t *testing.T) {
	r := NewRegistry()
	r.Register(catalog.Packages, "uppercaseTitle", func(rec map[string]any) (map[string]any, error) {
		rec["title"] = strings.ToUpper(rec["title"].(string))

		return rec, nil
	})

	payload := []map[string]any{{"title": "hello"}}
	out, err := r.Run(catalog.Packages, []string{"uppercaseTitle"}, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0]["title"] != "HELLO" {
		t.Errorf("got %v, want HELLO", out[0]["title"])
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic on duplicate registration")
		}
	}()

	r := NewRegistry()
	noop := func(rec map[string]any) (map[string]any, error) { return rec, nil }
	r.Register(catalog.Packages, "dup", noop)
	r.Register(catalog.Packages, "dup", noop)
}

func TestRunUnknownTransformer(t *testing.T) {
	r := NewRegistry()
	_, err := r.Run(catalog.Packages, []string{"nope"}, []map[string]any{{}})
	if !errors.Is(err, ErrUnknownTransformer) {
		t.Errorf("got error %v, want ErrUnknownTransformer", err)
	}
}

const validateTestConfig = `{
  "packages": {
    "user_populated_fields": {"title": true},
    "unique_id_field": "name",
    "ignore_list": [],
    "field_mapping": [],
    "required_default_values": {},
    "type_enforcement": {},
    "id_fields": [],
    "fields_to_include_on_add": [],
    "fields_to_include_on_update": [],
    "custom_transformation_method": ["fixSecurityClass"],
    "stringified_fields": []
  }
}`

func TestValidateSucceedsWhenRegistered(t *testing.T) {
	cfg, err := transform.Load(strings.NewReader(validateTestConfig))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	r := NewRegistry()
	RegisterPackageTransformers(r)

	if err := r.Validate(cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateFailsWhenUnregistered(t *testing.T) {
	cfg, err := transform.Load(strings.NewReader(validateTestConfig))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	r := NewRegistry()

	err = r.Validate(cfg)
	if !errors.Is(err, ErrUnknownTransformer) {
		t.Errorf("got error %v, want ErrUnknownTransformer", err)
	}
}
