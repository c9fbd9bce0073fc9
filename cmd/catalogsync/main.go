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

// catalogsync is the CLI driver: it wires the engine's collaborators from
// environment variables, runs one sync pass, and writes the resulting
// per-kind delta payloads to stdout as JSON. Applying those payloads
// against the destination catalog is the external writer's job (spec.md
// §1 names it out of scope); this binary only computes and reports deltas.
package main

import (
	"cmp"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/franTarkenton/bcdc-2-bcdc/catalogapi"
	"github.com/franTarkenton/bcdc-2-bcdc/catalogevent"
	"github.com/franTarkenton/bcdc-2-bcdc/engine"
	"github.com/franTarkenton/bcdc-2-bcdc/remapcache"
	"github.com/franTarkenton/bcdc-2-bcdc/transform"
	"github.com/franTarkenton/bcdc-2-bcdc/transformers"
)

func parseEnvVarDuration(key, fallback string) time.Duration {
	raw := cmp.Or(os.Getenv(key), fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Error("unable to parse duration", "key", key, "value", raw, "error", err)
		os.Exit(1)
	}

	return d
}

func mustOpen(path string) *os.File {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("unable to open transform config", "path", path, "error", err)
		os.Exit(1)
	}

	return f
}

func buildStore(ctx context.Context) remapcache.Store {
	switch cmp.Or(os.Getenv("CACHE_BACKEND"), "mem") {
	case "redis":
		ttl := parseEnvVarDuration("CACHE_TTL", "24h")
		maxConns, _ := strconv.Atoi(cmp.Or(os.Getenv("REDIS_MAX_CONNECTIONS"), "10"))

		return remapcache.NewRedisStore(
			cmp.Or(os.Getenv("K_REVISION"), "catalogsync"),
			os.Getenv("REDISHOST"),
			os.Getenv("REDISPORT"),
			ttl,
			maxConns,
		)
	case "valkey":
		ttl := parseEnvVarDuration("CACHE_TTL", "24h")
		store, err := remapcache.NewValkeyStore(
			ctx,
			cmp.Or(os.Getenv("K_REVISION"), "catalogsync"),
			os.Getenv("VALKEYHOST"),
			os.Getenv("VALKEYPORT"),
			ttl,
		)
		if err != nil {
			slog.Error("unable to connect to valkey", "error", err)
			os.Exit(1)
		}

		return store
	default:
		return remapcache.NewMemStore()
	}
}

func mustAdapter(label, baseURLKey, apiKeyKey string) *catalogapi.HTTPClient {
	client, err := catalogapi.NewHTTPClient(os.Getenv(baseURLKey), os.Getenv(apiKeyKey), &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		slog.Error("unable to build catalog API client", "side", label, "error", err)
		os.Exit(1)
	}

	return client
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	ctx := context.Background()

	configFile := mustOpen(cmp.Or(os.Getenv("TRANSFORM_CONFIG_PATH"), "transform_config.json"))
	cfg, err := transform.Load(configFile)
	configFile.Close()
	if err != nil {
		slog.Error("unable to load transform config", "error", err)
		os.Exit(1)
	}

	srcAdapter := mustAdapter("src", "SRC_BASE_URL", "SRC_API_KEY")
	destAdapter := mustAdapter("dest", "DEST_BASE_URL", "DEST_API_KEY")

	store := buildStore(ctx)
	cache := remapcache.New(store, destAdapter, cfg)

	registry := transformers.NewRegistry()
	transformers.RegisterPackageTransformers(registry)
	if err := registry.Validate(cfg); err != nil {
		slog.Error("custom transformer registry failed validation", "error", err)
		os.Exit(1)
	}

	observer := catalogevent.DeltaObserver{Publisher: catalogevent.NoopPublisher{}}

	eng := &engine.Engine{
		Src:      srcAdapter,
		Dest:     destAdapter,
		Config:   cfg,
		Cache:    cache,
		Registry: registry,
		Observer: observer,
	}

	concurrency, _ := strconv.Atoi(os.Getenv("SYNC_CONCURRENCY"))

	var results []engine.Result
	if concurrency > 1 {
		results, err = eng.RunConcurrent(ctx, concurrency)
	} else {
		results, err = eng.Run(ctx)
	}
	if err != nil {
		slog.Error("sync run reported failures", "error", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	for _, r := range results {
		if r.Err != nil {
			slog.Error("kind sync failed", "kind", r.Kind, "error", r.Err)

			continue
		}
		slog.Info("kind sync complete",
			"kind", r.Kind, "adds", len(r.Payload.Adds), "updates", len(r.Payload.Updates), "deletes", len(r.Payload.Deletes))
		if encErr := encoder.Encode(r.Payload); encErr != nil {
			slog.Error("unable to encode payload", "kind", r.Kind, "error", encErr)
		}
	}
}
