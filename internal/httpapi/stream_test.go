package httpapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextBatchSizeUsesInitialForFirstThree(t *testing.T) {
	require.Equal(t, 100, nextBatchSize(1, 100, 1000))
	require.Equal(t, 100, nextBatchSize(2, 100, 1000))
	require.Equal(t, 100, nextBatchSize(3, 100, 1000))
}

func TestNextBatchSizeGrowsTowardMax(t *testing.T) {
	require.Equal(t, 200, nextBatchSize(4, 100, 1000))
	require.Equal(t, 400, nextBatchSize(5, 100, 1000))
	require.Equal(t, 800, nextBatchSize(6, 100, 1000))
	require.Equal(t, 1000, nextBatchSize(7, 100, 1000))
	require.Equal(t, 1000, nextBatchSize(20, 100, 1000))
}

func TestStreamGeometryEmitsStartBatchComplete(t *testing.T) {
	var events []any
	emit := func(e any) bool {
		events = append(events, e)
		return true
	}
	result, err := streamGeometry(context.Background(), fixtureIFC, 100, 1000, emit)
	require.NoError(t, err)
	require.Len(t, result.meshes, 1)

	require.IsType(t, streamEventStart{}, events[0])
	foundBatch, foundProgress := false, false
	for _, e := range events {
		switch e.(type) {
		case streamEventBatch:
			foundBatch = true
		case streamEventProgress:
			foundProgress = true
		}
	}
	require.True(t, foundBatch)
	// Even a single-entity file (well under the 25-entity progress gate)
	// must still produce at least one progress frame.
	require.True(t, foundProgress)
}

func TestStreamGeometryStopsWhenEmitReturnsFalse(t *testing.T) {
	emit := func(e any) bool { return false }
	_, err := streamGeometry(context.Background(), fixtureIFC, 100, 1000, emit)
	require.Error(t, err)
}
