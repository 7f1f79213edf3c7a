package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredOrder(t *testing.T, queuedAt time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(uuid.New(), uuid.New(), "RUB")
	require.NoError(t, err)
	o.QueuedAt = queuedAt
	_, err = o.AddItem(uuid.New(), "Widget", nil,
		decimal.NewFromInt(2), decimal.NewFromInt(1), decimal.NewFromInt(100))
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_Save(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)

	o := newStoredOrder(t, time.Now())
	require.NoError(t, repo.Save(ctx, o))

	t.Run("round-trips the order with its items", func(t *testing.T) {
		found, err := repo.FindByGUID(ctx, o.GUID)
		require.NoError(t, err)

		assert.Equal(t, o.GUID, found.GUID)
		assert.Equal(t, order.StatusQueued, found.Status)
		require.Len(t, found.Items, 1)
		assert.True(t, found.Items[0].LineAmount.Equal(decimal.NewFromInt(200)))
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(200)))
	})

	t.Run("persists acknowledgment mutations", func(t *testing.T) {
		o.AcknowledgeSuccess("", "UT-77", nil, nil)
		require.NoError(t, repo.Save(ctx, o))

		found, err := repo.FindByGUID(ctx, o.GUID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusSentTo1C, found.Status)
		assert.Equal(t, "UT-77", found.Number1c)
		assert.Equal(t, 1, found.ExportAttempts)
		require.NotNil(t, found.SentTo1cAt)
	})

	t.Run("unknown guid yields the not-found sentinel", func(t *testing.T) {
		_, err := repo.FindByGUID(ctx, uuid.NewString())
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormOrderRepository_FindQueued(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)

	now := time.Now()
	oldest := newStoredOrder(t, now.Add(-2*time.Hour))
	newest := newStoredOrder(t, now.Add(-time.Minute))
	sent := newStoredOrder(t, now.Add(-time.Hour))
	sent.AcknowledgeSuccess("", "", nil, nil)

	for _, o := range []*order.Order{newest, sent, oldest} {
		require.NoError(t, repo.Save(ctx, o))
	}

	t.Run("returns queued orders oldest first", func(t *testing.T) {
		queued, err := repo.FindQueued(ctx, false, 10)
		require.NoError(t, err)
		require.Len(t, queued, 2)
		assert.Equal(t, oldest.GUID, queued[0].GUID)
		assert.Equal(t, newest.GUID, queued[1].GUID)
	})

	t.Run("includes sent orders on request", func(t *testing.T) {
		all, err := repo.FindQueued(ctx, true, 10)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, sent.GUID, all[1].GUID)
	})

	t.Run("honors the limit", func(t *testing.T) {
		queued, err := repo.FindQueued(ctx, false, 1)
		require.NoError(t, err)
		require.Len(t, queued, 1)
		assert.Equal(t, oldest.GUID, queued[0].GUID)
	})
}
