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

package structdiff

import "testing"

func TestDiffEmptyEquivalence(t *testing.T) {
	tests := []struct {
		name string
		old  any
		new  any
	}{
		{name: "nil vs empty string", old: nil, new: ""},
		{name: "empty string vs nil", old: "", new: nil},
		{name: "nil vs empty list", old: nil, new: []any{}},
		{name: "empty list vs empty map", old: []any{}, new: map[string]any{}},
		{name: "both nil", old: nil, new: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Diff(tt.old, tt.new).Empty() {
				t.Errorf("Diff(%#v, %#v) should be empty under empty-equivalence", tt.old, tt.new)
			}
		})
	}
}

func TestDiffDetectsValueChange(t *testing.T) {
	result := Diff(map[string]any{"title": "Before"}, map[string]any{"title": "After"})
	if result.Empty() {
		t.Fatal("expected a diff for a changed scalar field")
	}
	if result.Changes[0].Kind != ValuesChanged {
		t.Errorf("got kind %v, want ValuesChanged", result.Changes[0].Kind)
	}
}

func TestDiffAddedAndRemoved(t *testing.T) {
	added := Diff(nil, "new value")
	if added.Empty() || added.Changes[0].Kind != Added {
		t.Errorf("got %+v, want a single Added change", added.Changes)
	}

	removed := Diff("old value", nil)
	if removed.Empty() || removed.Changes[0].Kind != Removed {
		t.Errorf("got %+v, want a single Removed change", removed.Changes)
	}
}

func TestDiffTypeChanged(t *testing.T) {
	result := Diff("a string", 42)
	if result.Empty() || result.Changes[0].Kind != TypeChanged {
		t.Errorf("got %+v, want a single TypeChanged change", result.Changes)
	}
}

func TestDiffListOrderInsensitive(t *testing.T) {
	old := []any{"a", "b", "c"}
	new := []any{"c", "a", "b"}
	if !Diff(old, new).Empty() {
		t.Error("permuting a list should not produce a diff (Invariant 8)")
	}
}

func TestDiffListDetectsAddAndRemove(t *testing.T) {
	old := []any{"a", "b"}
	new := []any{"a", "c"}
	result := Diff(old, new)
	if result.Empty() {
		t.Fatal("expected changes when a list element is swapped")
	}

	var kinds []ChangeKind
	for _, c := range result.Changes {
		kinds = append(kinds, c.Kind)
	}
	if len(kinds) != 1 {
		t.Fatalf("got %d changes, want 1 (the b->c transition), got kinds %v", len(kinds), kinds)
	}
}

func TestDiffNestedObjects(t *testing.T) {
	old := map[string]any{"owner": map[string]any{"name": "alice", "email": "a@example.com"}}
	new := map[string]any{"owner": map[string]any{"name": "alice", "email": "alice@example.com"}}
	result := Diff(old, new)
	if result.Empty() {
		t.Fatal("expected a nested change")
	}
	if result.Changes[0].Path != "owner.email" {
		t.Errorf("got path %q, want owner.email", result.Changes[0].Path)
	}
}

func TestDiffNestedListOfObjects(t *testing.T) {
	old := map[string]any{"resources": []any{
		map[string]any{"name": "a.csv", "format": "csv"},
		map[string]any{"name": "b.csv", "format": "csv"},
	}}
	new := map[string]any{"resources": []any{
		map[string]any{"name": "b.csv", "format": "csv"},
		map[string]any{"name": "a.csv", "format": "csv"},
	}}
	if !Diff(old, new).Empty() {
		t.Error("reordering a list of objects should not produce a diff")
	}
}
