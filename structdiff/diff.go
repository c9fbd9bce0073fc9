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

// Package structdiff implements C3: an order-insensitive deep diff between
// two JSON-like trees (post-projection), distinguishing value changes,
// additions, removals, and type-only changes where both sides are
// empty-equivalent.
//
// The shape of this diff follows the same contract as the teacher's
// feature-list comparator (lib/blobtypes/featurelistdiff/v1/comparator.go):
// every comparison explicitly handles the four transition cases of
// presence/absence before ever comparing values, so schema evolution
// (a field that didn't used to exist) is never confused with a real change.
// Here the "four transitions" collapse onto a single empty-equivalence
// rule, since the inputs are untyped JSON rather than a typed
// generic.OptionallySet[T] struct: null, "", [], and {} are all members of
// one equivalence class, and a transition into or out of that class alone
// is never reported as a difference (spec.md §4.3, Invariant 9).
package structdiff

import (
	"fmt"
	"sort"
)

// ChangeKind categorizes one diff entry.
type ChangeKind string

const (
	ValuesChanged ChangeKind = "values_changed"
	Added         ChangeKind = "added"
	Removed       ChangeKind = "removed"
	TypeChanged   ChangeKind = "type_changed"
)

// Change is one diff entry at a dotted path into the compared trees.
type Change struct {
	Path string
	Kind ChangeKind
	Old  any
	New  any
}

// Result is the full diff report. An empty Result means the two trees are
// equal under the empty-equivalence rule.
type Result struct {
	Changes []Change
}

// Empty reports whether the diff found no differences (Invariant 2).
func (r Result) Empty() bool {
	return len(r.Changes) == 0
}

// Diff computes the structural diff between two projected JSON-like trees.
func Diff(oldVal, newVal any) Result {
	var changes []Change
	diffAt("", oldVal, newVal, &changes)

	return Result{Changes: changes}
}

func diffAt(path string, oldVal, newVal any, changes *[]Change) {
	oldEmpty := isEmptyEquivalent(oldVal)
	newEmpty := isEmptyEquivalent(newVal)

	// The four transition cases, in the same order the teacher's comparator
	// documents them: both absent/empty, cold-start into a value, drop to
	// empty, and both present.
	switch {
	case oldEmpty && newEmpty:
		return
	case oldEmpty && !newEmpty:
		*changes = append(*changes, Change{Path: path, Kind: Added, Old: oldVal, New: newVal})

		return
	case !oldEmpty && newEmpty:
		*changes = append(*changes, Change{Path: path, Kind: Removed, Old: oldVal, New: newVal})

		return
	}

	oldMap, oldIsMap := oldVal.(map[string]any)
	newMap, newIsMap := newVal.(map[string]any)
	if oldIsMap || newIsMap {
		if !oldIsMap || !newIsMap {
			*changes = append(*changes, Change{Path: path, Kind: TypeChanged, Old: oldVal, New: newVal})

			return
		}
		diffObjects(path, oldMap, newMap, changes)

		return
	}

	oldList, oldIsList := oldVal.([]any)
	newList, newIsList := newVal.([]any)
	if oldIsList || newIsList {
		if !oldIsList || !newIsList {
			*changes = append(*changes, Change{Path: path, Kind: TypeChanged, Old: oldVal, New: newVal})

			return
		}
		diffLists(path, oldList, newList, changes)

		return
	}

	diffScalars(path, oldVal, newVal, changes)
}

func diffObjects(path string, oldMap, newMap map[string]any, changes *[]Change) {
	keys := make(map[string]struct{}, len(oldMap)+len(newMap))
	for k := range oldMap {
		keys[k] = struct{}{}
	}
	for k := range newMap {
		keys[k] = struct{}{}
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		diffAt(childPath(path, k), oldMap[k], newMap[k], changes)
	}
}

// diffLists treats both sides as multisets (spec.md §4.3, §9 Design Notes):
// identical elements cancel first; remaining elements are paired
// position-wise against each other (the "nearest match by structural
// similarity" heuristic, simplified to index order once exact duplicates
// are removed) and diffed recursively; anything left over on the longer
// side is reported as added or removed. List order itself never produces a
// diff (Invariant 8).
func diffLists(path string, oldList, newList []any, changes *[]Change) {
	oldRemaining := canonicalizeAll(oldList)
	newRemaining := canonicalizeAll(newList)

	for i := range oldRemaining {
		oc := &oldRemaining[i]
		if oc.matched {
			continue
		}
		for j := range newRemaining {
			if newRemaining[j].matched {
				continue
			}
			if oc.key == newRemaining[j].key {
				oc.matched = true
				newRemaining[j].matched = true

				break
			}
		}
	}

	var leftoverOld, leftoverNew []canonicalItem
	for _, oc := range oldRemaining {
		if !oc.matched {
			leftoverOld = append(leftoverOld, oc)
		}
	}
	for _, nc := range newRemaining {
		if !nc.matched {
			leftoverNew = append(leftoverNew, nc)
		}
	}

	pairs := len(leftoverOld)
	if len(leftoverNew) < pairs {
		pairs = len(leftoverNew)
	}
	for i := 0; i < pairs; i++ {
		diffAt(fmt.Sprintf("%s[%d]", path, i), leftoverOld[i].value, leftoverNew[i].value, changes)
	}
	for i := pairs; i < len(leftoverOld); i++ {
		*changes = append(*changes, Change{
			Path: fmt.Sprintf("%s[%d]", path, i), Kind: Removed, Old: leftoverOld[i].value, New: nil,
		})
	}
	for i := pairs; i < len(leftoverNew); i++ {
		*changes = append(*changes, Change{
			Path: fmt.Sprintf("%s[%d]", path, i), Kind: Added, Old: nil, New: leftoverNew[i].value,
		})
	}
}

func diffScalars(path string, oldVal, newVal any, changes *[]Change) {
	oldKind := fmt.Sprintf("%T", oldVal)
	newKind := fmt.Sprintf("%T", newVal)
	if oldKind != newKind {
		*changes = append(*changes, Change{Path: path, Kind: TypeChanged, Old: oldVal, New: newVal})

		return
	}
	if oldVal != newVal {
		*changes = append(*changes, Change{Path: path, Kind: ValuesChanged, Old: oldVal, New: newVal})
	}
}

func childPath(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}

// isEmptyEquivalent implements the "ignore empty types" rule: null, "",
// [], and {} are mutually equivalent regardless of which specific pair is
// being compared (Invariant 9).
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
