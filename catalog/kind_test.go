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

package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr error
	}{
		{name: "users", input: "users", want: Users},
		{name: "resources", input: "resources", want: Resources},
		{name: "unknown", input: "widgets", wantErr: ErrUnknownKind},
		{name: "empty", input: "", wantErr: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseKind(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr == nil && got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllKindsOrder(t *testing.T) {
	want := []Kind{Users, Groups, Organizations, Packages, Resources}
	if len(AllKinds) != len(want) {
		t.Fatalf("AllKinds has %d entries, want %d", len(AllKinds), len(want))
	}
	for i, k := range want {
		if AllKinds[i] != k {
			t.Errorf("AllKinds[%d] = %v, want %v", i, AllKinds[i], k)
		}
	}
}

func TestAllKindsCoversEveryKnownKind(t *testing.T) {
	want := []Kind{Resources, Packages, Organizations, Groups, Users}
	if !assert.ElementsMatch(t, want, AllKinds) {
		t.Errorf("AllKinds = %v, want the same five kinds as %v (order checked separately)", AllKinds, want)
	}
}

func TestKindValid(t *testing.T) {
	if !Packages.Valid() {
		t.Error("Packages should be valid")
	}
	if Kind("bogus").Valid() {
		t.Error("bogus kind should not be valid")
	}
}
