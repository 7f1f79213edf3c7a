package persistence

import (
	"context"
	"errors"

	"github.com/b2bportal/backend/internal/domain/inventory"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements inventory.StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindByProductAndWarehouse finds a balance by its natural key
func (r *GormStockRepository) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.StockBalance, error) {
	var balance inventory.StockBalance
	if err := conn(ctx, r.db).
		First(&balance, "product_id = ? AND warehouse_id = ?", productID, warehouseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// Upsert creates or replaces the balance for its (product, warehouse) pair.
// The unique index on the pair makes concurrent writers converge on one row.
func (r *GormStockRepository) Upsert(ctx context.Context, balance *inventory.StockBalance) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity", "reserved", "source_updated_at", "updated_at",
			}),
		}).
		Create(balance).Error
}

var _ inventory.StockRepository = (*GormStockRepository)(nil)
