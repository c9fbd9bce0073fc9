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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
)

var (
	ErrUnableToParseURL = errors.New("catalogapi: unable to parse endpoint URL")
	ErrUnexpectedStatus = errors.New("catalogapi: unexpected response status")
	ErrUnknownKind      = errors.New("catalogapi: endpoint has no route for kind")
)

// endpointPaths maps each kind to the collection path its list/get
// operations are served under, mirroring spec.md §6's named adapter
// operations (list_users/get_user, etc.) without needing five near
// identical methods.
var endpointPaths = map[catalog.Kind]string{
	catalog.Users:         "user",
	catalog.Groups:        "group",
	catalog.Organizations: "organization",
	catalog.Packages:      "package",
	catalog.Resources:     "resource",
}

// HTTPClient is the default Adapter implementation: a thin JSON client over
// the catalog's list/show HTTP endpoints, built the same way the teacher's
// lib/httputils.HTTPFetcher is (base URL plus *http.Client), with retries
// around transient failures via cenkalti/backoff the way the teacher's
// valkeycache dials its client.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    *url.URL
	apiKey     string
}

// NewHTTPClient builds an HTTPClient against a catalog instance's base API
// URL (e.g. "https://catalog.example.org/api/3/action").
func NewHTTPClient(baseURL, apiKey string, httpClient *http.Client) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnableToParseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{httpClient: httpClient, baseURL: u, apiKey: apiKey}, nil
}

// List fetches every record of kind via the catalog's list endpoint.
func (c *HTTPClient) List(ctx context.Context, kind catalog.Kind) ([]map[string]any, error) {
	path, ok := endpointPaths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var out []map[string]any
	if err := c.getJSON(ctx, path+"_list", &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Get fetches a single record of kind by identifier via the catalog's show
// endpoint.
func (c *HTTPClient) Get(ctx context.Context, kind catalog.Kind, identifier string) (map[string]any, error) {
	path, ok := endpointPaths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var out map[string]any
	if err := c.getJSON(ctx, fmt.Sprintf("%s_show?id=%s", path, url.QueryEscape(identifier)), &out); err != nil {
		return nil, err
	}

	return out, nil
}

// getJSON performs one GET request against baseURL/route, retrying
// transient failures with an exponential backoff, and decodes the JSON
// response body into out.
func (c *HTTPClient) getJSON(ctx context.Context, route string, out any) error {
	ref, err := url.Parse(route)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnableToParseURL, err)
	}
	target := c.baseURL.JoinPath(ref.Path)
	target.RawQuery = ref.RawQuery
	endpoint := target.String()

	operation := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			slog.WarnContext(ctx, "catalogapi: request failed, retrying", "endpoint", endpoint, "error", err)

			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()

			return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()

			return nil, backoff.Permanent(fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode))
		}

		return resp, nil
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("catalogapi: fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("catalogapi: reading response from %s: %w", endpoint, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("catalogapi: decoding response from %s: %w", endpoint, err)
	}

	return nil
}
