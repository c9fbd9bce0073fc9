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

package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
)

const sampleConfig = `{
  "users": {
    "user_populated_fields": {"name": true, "email": true},
    "unique_id_field": "name",
    "ignore_list": ["system_account"],
    "field_mapping": [{"auto_populated_field": "id", "user_populated_field": "name"}],
    "required_default_values": {"state": "active"},
    "type_enforcement": {"sysadmin": false},
    "id_fields": [],
    "fields_to_include_on_add": ["id"],
    "fields_to_include_on_update": ["id"],
    "custom_transformation_method": [],
    "stringified_fields": []
  },
  "packages": {
    "user_populated_fields": {"title": true, "owner_org": true},
    "unique_id_field": "name",
    "ignore_list": [],
    "field_mapping": [{"auto_populated_field": "id", "user_populated_field": "name"}],
    "required_default_values": {},
    "type_enforcement": {},
    "id_fields": [{"property": "owner_org", "obj_type": "organizations", "obj_field": "id"}],
    "fields_to_include_on_add": ["id"],
    "fields_to_include_on_update": ["id", "revision_id"],
    "custom_transformation_method": ["fixSecurityClass"],
    "stringified_fields": ["extras"]
  }
}`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kinds := cfg.Kinds()
	if len(kinds) != 2 || kinds[0] != catalog.Users || kinds[1] != catalog.Packages {
		t.Fatalf("got kinds %v, want [users packages] in AllKinds order", kinds)
	}

	users, err := cfg.Kind(catalog.Users)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.UniqueKeyField() != "name" {
		t.Errorf("got unique key field %q, want name", users.UniqueKeyField())
	}
	if !users.IsIgnored("system_account") {
		t.Error("expected system_account to be ignored")
	}
	if users.IsIgnored("alice") {
		t.Error("did not expect alice to be ignored")
	}

	pkgs, err := cfg.Kind(catalog.Packages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pkgs.IDFields()) != 1 || pkgs.IDFields()[0].ChildKind != catalog.Organizations {
		t.Errorf("unexpected id fields: %+v", pkgs.IDFields())
	}
	if len(pkgs.StringifiedFields()) != 1 || pkgs.StringifiedFields()[0] != "extras" {
		t.Errorf("unexpected stringified fields: %v", pkgs.StringifiedFields())
	}
	if len(pkgs.CustomTransformerNames()) != 1 || pkgs.CustomTransformerNames()[0] != "fixSecurityClass" {
		t.Errorf("unexpected transformer names: %v", pkgs.CustomTransformerNames())
	}
}

func TestLoadUnknownKind(t *testing.T) {
	_, err := Load(strings.NewReader(`{"widgets": {"unique_id_field": "id"}}`))
	if !errors.Is(err, catalog.ErrUnknownKind) {
		t.Errorf("got error %v, want ErrUnknownKind", err)
	}
}

func TestLoadMissingUniqueKeyField(t *testing.T) {
	_, err := Load(strings.NewReader(`{"users": {}}`))
	if !errors.Is(err, ErrMissingUniqueKeyField) {
		t.Errorf("got error %v, want ErrMissingUniqueKeyField", err)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	_, err := Load(strings.NewReader(`not json`))
	if !errors.Is(err, ErrMalformedSchema) {
		t.Errorf("got error %v, want ErrMalformedSchema", err)
	}
}

func TestKindUnknown(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = cfg.Kind(catalog.Resources)
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("got error %v, want ErrUnknownKind", err)
	}
}
