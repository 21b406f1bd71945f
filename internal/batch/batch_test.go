package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodebaseai/kodebase/internal/types"
)

func testArtifacts(n int) map[string]*types.Artifact {
	artifacts := make(map[string]*types.Artifact, n)
	for i := 0; i < n; i++ {
		id := string(rune('A' + i))
		artifacts[id] = &types.Artifact{ID: id, Type: types.TypeInitiative, Title: "artifact " + id}
	}
	return artifacts
}

func TestMapRunsEveryArtifactOnce(t *testing.T) {
	artifacts := testArtifacts(10)
	var calls atomic.Int64

	results, err := Map(context.Background(), artifacts, 3,
		func(_ context.Context, id string, a *types.Artifact) (string, error) {
			calls.Add(1)
			return a.Title, nil
		})

	require.NoError(t, err)
	assert.EqualValues(t, 10, calls.Load())
	require.Len(t, results, 10)
	assert.Equal(t, "artifact A", results["A"].Value)
}

func TestMapCollectsPerArtifactErrors(t *testing.T) {
	artifacts := testArtifacts(3)
	boom := errors.New("bad log")

	results, err := Map(context.Background(), artifacts, 0,
		func(_ context.Context, id string, _ *types.Artifact) (int, error) {
			if id == "B" {
				return 0, boom
			}
			return 1, nil
		})

	require.NoError(t, err, "per-artifact errors are soft")
	assert.ErrorIs(t, results["B"].Err, boom)
	assert.NoError(t, results["A"].Err)
	assert.Equal(t, 1, results["A"].Value)
}

func TestMapHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Map(ctx, testArtifacts(5), 1,
		func(ctx context.Context, _ string, _ *types.Artifact) (int, error) {
			return 0, nil
		})

	assert.ErrorIs(t, err, context.Canceled)
}
