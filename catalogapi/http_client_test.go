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

package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
)

func TestListFetchesCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/package_list" {
			t.Errorf("got path %q, want /package_list", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{{"name": "water-levels"}})
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "", server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := client.List(context.Background(), catalog.Packages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0]["name"] != "water-levels" {
		t.Errorf("got %+v, want one water-levels record", records)
	}
}

func TestGetFetchesSingleRecordByIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/organization_show" {
			t.Errorf("got path %q, want /organization_show", r.URL.Path)
		}
		if r.URL.Query().Get("id") != "bc-parks" {
			t.Errorf("got id %q, want bc-parks", r.URL.Query().Get("id"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "bc-parks"})
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "", server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, err := client.Get(context.Background(), catalog.Organizations, "bc-parks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record["name"] != "bc-parks" {
		t.Errorf("got %+v, want name=bc-parks", record)
	}
}

func TestListUnknownKind(t *testing.T) {
	client, err := NewHTTPClient("http://example.org", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = client.List(context.Background(), catalog.Kind("widgets"))
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("got error %v, want ErrUnknownKind", err)
	}
}

func TestGetPermanentErrorOnClientStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "", server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Get(context.Background(), catalog.Users, "nobody")
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("got error %v, want ErrUnexpectedStatus", err)
	}
}

func TestNewHTTPClientInvalidURL(t *testing.T) {
	_, err := NewHTTPClient("://not-a-url", "", nil)
	if !errors.Is(err, ErrUnableToParseURL) {
		t.Errorf("got error %v, want ErrUnableToParseURL", err)
	}
}
