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

// Package engine orchestrates one sync pass: for every configured kind, in
// the fixed order catalog.AllKinds requires, list both sides, compute the
// delta (C4), and materialize it (C6). The core driver (Run) is strictly
// sequential per spec.md §5; RunConcurrent is a SPEC_FULL addition for
// callers willing to parallelize independent kinds, grounded on
// lib/workerpool's bounded worker pool.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/franTarkenton/bcdc-2-bcdc/catalog"
	"github.com/franTarkenton/bcdc-2-bcdc/catalogapi"
	"github.com/franTarkenton/bcdc-2-bcdc/dataset"
	"github.com/franTarkenton/bcdc-2-bcdc/materialize"
	"github.com/franTarkenton/bcdc-2-bcdc/record"
	"github.com/franTarkenton/bcdc-2-bcdc/remapcache"
	"github.com/franTarkenton/bcdc-2-bcdc/transform"
	"github.com/franTarkenton/bcdc-2-bcdc/transformers"
)

// Engine bundles the collaborators one sync pass needs. All fields are
// required except Observer, which defaults to a no-op.
type Engine struct {
	Src        catalogapi.Adapter
	Dest       catalogapi.Adapter
	Config     *transform.Config
	Cache      *remapcache.Cache
	Registry   *transformers.Registry
	Observer   materialize.Observer
}

// Result is one kind's computed-and-materialized outcome.
type Result struct {
	Kind    catalog.Kind
	Payload materialize.Payload
	Err     error
}

// Run processes every configured kind sequentially, in catalog.AllKinds
// order, so a kind's ID-reference targets are already registered in the
// cache by the time it is materialized (spec.md §5). Partial progress is
// preserved: a failure on one kind is recorded in its Result and processing
// continues to the next kind, matching "a fatal on kind K does not
// invalidate earlier successful kinds' deltas" (spec.md §7).
func (e *Engine) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(e.Config.Kinds()))
	for _, kind := range e.Config.Kinds() {
		payload, err := e.runKind(ctx, kind)
		results = append(results, Result{Kind: kind, Payload: payload, Err: err})
		if err != nil {
			slog.Error("engine: kind sync failed", "kind", kind, "error", err)
		}
	}

	return results, nil
}

// RunConcurrent processes every configured kind on a bounded worker pool.
// It is an opt-in, non-core addition (SPEC_FULL.md, "Concurrent driver
// mode"): callers accept that a kind may materialize before a kind earlier
// in catalog.AllKinds has finished, so an ID reference to a record created
// earlier in the same run may fall back to the cache's single-record lazy
// load rather than finding it already bulk-registered. The cache's Store
// implementations serialize their own writes, so concurrent registration
// is safe; ordering guarantees are what callers give up, not correctness.
func (e *Engine) RunConcurrent(ctx context.Context, numWorkers int) ([]Result, error) {
	kinds := e.Config.Kinds()
	jobs := make(chan catalog.Kind, len(kinds))
	for _, k := range kinds {
		jobs <- k
	}
	close(jobs)

	resultsChan := make(chan Result, len(kinds))
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for kind := range jobs {
				payload, err := e.runKind(ctx, kind)
				resultsChan <- Result{Kind: kind, Payload: payload, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]Result, 0, len(kinds))
	var failed int
	for r := range resultsChan {
		if r.Err != nil {
			failed++
			slog.Error("engine: kind sync failed", "kind", r.Kind, "error", r.Err)
		}
		results = append(results, r)
	}

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d kinds failed", ErrKindFailed, failed, len(kinds))
	}

	return results, nil
}

func (e *Engine) runKind(ctx context.Context, kind catalog.Kind) (materialize.Payload, error) {
	srcRaw, err := e.Src.List(ctx, kind)
	if err != nil {
		return materialize.Payload{}, fmt.Errorf("engine: listing src %q: %w", kind, err)
	}
	destRaw, err := e.Dest.List(ctx, kind)
	if err != nil {
		return materialize.Payload{}, fmt.Errorf("engine: listing dest %q: %w", kind, err)
	}

	srcDataset := dataset.New(kind, catalog.Src, toRecords(kind, srcRaw), e.Config)
	destDataset := dataset.New(kind, catalog.Dest, toRecords(kind, destRaw), e.Config)

	delta, err := dataset.ComputeDelta(srcDataset, destDataset, e.Cache, e.Config)
	if err != nil {
		return materialize.Payload{}, fmt.Errorf("engine: computing delta for %q: %w", kind, err)
	}

	payload, err := materialize.Materialize(ctx, delta, e.Config, e.Cache, e.Registry, e.Observer)
	if err != nil {
		return materialize.Payload{}, fmt.Errorf("engine: materializing %q: %w", kind, err)
	}

	return payload, nil
}

func toRecords(kind catalog.Kind, raw []map[string]any) []record.Record {
	out := make([]record.Record, len(raw))
	for i, r := range raw {
		out[i] = record.New(kind, r)
	}

	return out
}
