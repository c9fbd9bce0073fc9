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

import (
	"fmt"
	"sort"
)

type canonicalItem struct {
	value   any
	key     string
	matched bool
}

func canonicalizeAll(items []any) []canonicalItem {
	out := make([]canonicalItem, len(items))
	for i, item := range items {
		out[i] = canonicalItem{value: item, key: canonicalKey(item)}
	}

	return out
}

// canonicalKey builds a deterministic string identity for a JSON-like value
// so exact-match list elements can cancel each other out before the
// pairwise fallback runs. Map keys are sorted so two maps built in
// different insertion order still produce the same key.
func canonicalKey(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return "s:" + t
	case bool:
		return fmt.Sprintf("b:%t", t)
	case float64:
		return fmt.Sprintf("n:%v", t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = canonicalKey(item)
		}

		return "l:[" + joinStrings(parts) + "]"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + canonicalKey(t[k])
		}

		return "o:{" + joinStrings(parts) + "}"
	default:
		return fmt.Sprintf("%T:%v", t, t)
	}
}

func joinStrings(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}

	return out
}
