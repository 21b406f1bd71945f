// Package batch provides a bounded-concurrency map over an artifact set.
// Kernel calls are independently safe to run in parallel as long as they
// target different artifacts, which is exactly how this runner shards
// work: one artifact per task, never two tasks for the same ID.
package batch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kodebaseai/kodebase/internal/types"
)

// DefaultConcurrency bounds parallel tasks when the caller passes 0.
const DefaultConcurrency = 8

// Result pairs one artifact's outcome with any per-artifact error. Soft
// failures stay in Err so one bad artifact doesn't abort the batch.
type Result[T any] struct {
	ID    string
	Value T
	Err   error
}

// Map runs fn once per artifact with at most limit tasks in flight and
// returns the results keyed by ID. Per-artifact errors are collected, not
// propagated; only context cancellation aborts the batch early.
func Map[T any](ctx context.Context, artifacts map[string]*types.Artifact, limit int, fn func(ctx context.Context, id string, a *types.Artifact) (T, error)) (map[string]Result[T], error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	results := make(map[string]Result[T], len(artifacts))

	for id, a := range artifacts {
		id, a := id, a
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			value, err := fn(ctx, id, a)
			mu.Lock()
			results[id] = Result[T]{ID: id, Value: value, Err: err}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
