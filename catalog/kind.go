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

// Package catalog holds the small set of types shared by every component of
// the synchronization engine: the closed set of entity kinds and the fixed
// order in which they are processed.
package catalog

import "fmt"

// Kind is one of the five entity kinds a catalog instance exposes.
type Kind string

const (
	Users         Kind = "users"
	Groups        Kind = "groups"
	Organizations Kind = "organizations"
	Packages      Kind = "packages"
	Resources     Kind = "resources"
)

// Origin identifies which catalog instance a value came from.
type Origin string

const (
	Src  Origin = "src"
	Dest Origin = "dest"
)

// AllKinds is the closed set K, in the fixed topological order kinds must be
// processed in: a kind's ID-reference targets must already be registered in
// the remap cache by the time its delta is materialized.
var AllKinds = []Kind{Users, Groups, Organizations, Packages, Resources}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	for _, candidate := range AllKinds {
		if candidate == k {
			return true
		}
	}

	return false
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind validates a kind name against the closed set.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}

	return k, nil
}
