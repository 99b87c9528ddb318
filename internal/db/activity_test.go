//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polycopy/trade-monitor/internal/db"
	"github.com/polycopy/trade-monitor/internal/db/model"
	"github.com/polycopy/trade-monitor/testutil"
)

func TestActivity(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("save and lookup", func(t *testing.T) {
		doc := createActivity(t)
		err := testDB.SaveNewActivity(ctx, testAddress, doc)
		require.NoError(t, err)

		exists, err := testDB.HasActivity(ctx, testAddress, doc.TransactionHash)
		require.NoError(t, err)
		assert.True(t, exists)

		// same hash under another address is a different record space
		exists, err = testDB.HasActivity(ctx, otherTestAddress, doc.TransactionHash)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate transaction hash", func(t *testing.T) {
		doc := createActivity(t)
		err := testDB.SaveNewActivity(ctx, testAddress, doc)
		require.NoError(t, err)

		replay := createActivity(t)
		replay.TransactionHash = doc.TransactionHash
		err = testDB.SaveNewActivity(ctx, testAddress, replay)
		require.Error(t, err)
		assert.True(t, db.IsDuplicateKeyError(err))

		count, err := testDB.CountActivities(ctx, testAddress)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(1))
	})

	t.Run("count", func(t *testing.T) {
		resetDatabase(t)

		count, err := testDB.CountActivities(ctx, testAddress)
		require.NoError(t, err)
		assert.Zero(t, count)

		for range 3 {
			err := testDB.SaveNewActivity(ctx, testAddress, createActivity(t))
			require.NoError(t, err)
		}

		count, err = testDB.CountActivities(ctx, testAddress)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("mark processed", func(t *testing.T) {
		resetDatabase(t)

		for range 2 {
			err := testDB.SaveNewActivity(ctx, testAddress, createActivity(t))
			require.NoError(t, err)
		}

		marked, err := testDB.MarkActivitiesProcessed(ctx, testAddress)
		require.NoError(t, err)
		assert.Equal(t, int64(2), marked)

		// second sweep finds nothing left to mark
		marked, err = testDB.MarkActivitiesProcessed(ctx, testAddress)
		require.NoError(t, err)
		assert.Zero(t, marked)
	})
}

func createActivity(t *testing.T) *model.ActivityDocument {
	doc, err := testutil.RandomActivityDocument()
	require.NoError(t, err)
	return doc
}
