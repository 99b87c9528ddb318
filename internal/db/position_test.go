//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polycopy/trade-monitor/internal/db/model"
	"github.com/polycopy/trade-monitor/testutil"
)

func TestPosition(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("upsert inserts then updates in place", func(t *testing.T) {
		doc := createPosition(t)
		doc.CurrentValue = 100

		err := testDB.UpsertPosition(ctx, testAddress, doc)
		require.NoError(t, err)

		doc.CurrentValue = 250
		err = testDB.UpsertPosition(ctx, testAddress, doc)
		require.NoError(t, err)

		positions, err := testDB.GetPositions(ctx, testAddress)
		require.NoError(t, err)
		require.Len(t, positions, 1)
		assert.Equal(t, 250.0, positions[0].CurrentValue)
	})

	t.Run("distinct keys create distinct records", func(t *testing.T) {
		resetDatabase(t)

		first := createPosition(t)
		second := createPosition(t)
		require.NoError(t, testDB.UpsertPosition(ctx, testAddress, first))
		require.NoError(t, testDB.UpsertPosition(ctx, testAddress, second))

		count, err := testDB.CountPositions(ctx, testAddress)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("same asset different condition", func(t *testing.T) {
		resetDatabase(t)

		first := createPosition(t)
		second := createPosition(t)
		second.Asset = first.Asset

		require.NoError(t, testDB.UpsertPosition(ctx, testAddress, first))
		require.NoError(t, testDB.UpsertPosition(ctx, testAddress, second))

		count, err := testDB.CountPositions(ctx, testAddress)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("positions are scoped per address", func(t *testing.T) {
		resetDatabase(t)

		require.NoError(t, testDB.UpsertPosition(ctx, testAddress, createPosition(t)))

		positions, err := testDB.GetPositions(ctx, otherTestAddress)
		require.NoError(t, err)
		assert.Empty(t, positions)
	})
}

func TestMonitorState(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("no document", func(t *testing.T) {
		completed, err := testDB.GetBackfillCompleted(ctx)
		require.NoError(t, err)
		assert.False(t, completed)
	})

	t.Run("set and get", func(t *testing.T) {
		err := testDB.SetBackfillCompleted(ctx)
		require.NoError(t, err)

		completed, err := testDB.GetBackfillCompleted(ctx)
		require.NoError(t, err)
		assert.True(t, completed)

		// setting again keeps a single state document
		err = testDB.SetBackfillCompleted(ctx)
		require.NoError(t, err)

		completed, err = testDB.GetBackfillCompleted(ctx)
		require.NoError(t, err)
		assert.True(t, completed)
	})
}

func createPosition(t *testing.T) *model.PositionDocument {
	doc, err := testutil.RandomPositionDocument()
	require.NoError(t, err)
	return doc
}
