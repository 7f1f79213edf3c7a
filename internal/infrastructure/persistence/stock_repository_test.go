package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/b2bportal/backend/internal/domain/inventory"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStockRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormStockRepository(db)

	productID := uuid.New()
	warehouseID := uuid.New()

	t.Run("inserts a new balance", func(t *testing.T) {
		balance, err := inventory.NewStockBalance(productID, warehouseID, decimal.NewFromInt(10), decimal.NewFromInt(2), nil)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, balance))

		found, err := repo.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.True(t, found.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, found.Available().Equal(decimal.NewFromInt(8)))
	})

	t.Run("converges on one row for the same pair", func(t *testing.T) {
		again, err := inventory.NewStockBalance(productID, warehouseID, decimal.NewFromInt(3), decimal.Zero, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, again))

		var count int64
		require.NoError(t, db.Model(&inventory.StockBalance{}).
			Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)

		found, err := repo.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.True(t, found.Quantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("missing pair yields the not-found sentinel", func(t *testing.T) {
		_, err := repo.FindByProductAndWarehouse(ctx, uuid.New(), uuid.New())
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
