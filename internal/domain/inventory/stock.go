package inventory

import (
	"context"
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBalance holds the ledger-reported quantity of a product at a
// warehouse. The (product, warehouse) pair is the natural key: stock feeds
// carry no GUID of their own.
type StockBalance struct {
	shared.BaseEntity
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse,priority:1"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse,priority:2"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reserved        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SourceUpdatedAt *time.Time
}

// TableName returns the table name for GORM
func (StockBalance) TableName() string {
	return "stock_balances"
}

// NewStockBalance creates a stock row for a product/warehouse pair
func NewStockBalance(productID, warehouseID uuid.UUID, quantity, reserved decimal.Decimal, sourceUpdatedAt *time.Time) (*StockBalance, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("stock product cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("stock warehouse cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewValidationError("stock quantity cannot be negative")
	}
	return &StockBalance{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		WarehouseID:     warehouseID,
		Quantity:        quantity,
		Reserved:        reserved,
		SourceUpdatedAt: sourceUpdatedAt,
	}, nil
}

// Apply replaces the balance from a fresh ledger snapshot
func (s *StockBalance) Apply(quantity, reserved decimal.Decimal, sourceUpdatedAt *time.Time) error {
	if quantity.IsNegative() {
		return shared.NewValidationError("stock quantity cannot be negative")
	}
	s.Quantity = quantity
	s.Reserved = reserved
	s.SourceUpdatedAt = sourceUpdatedAt
	s.UpdatedAt = time.Now()
	return nil
}

// Available returns the sellable quantity: quantity minus reservations.
// Derived, never stored.
func (s *StockBalance) Available() decimal.Decimal {
	return s.Quantity.Sub(s.Reserved)
}

// StockRepository defines persistence for stock balances
type StockRepository interface {
	// FindByProductAndWarehouse finds a balance by its natural key
	FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*StockBalance, error)

	// Upsert creates or replaces the balance for its (product, warehouse) pair
	Upsert(ctx context.Context, balance *StockBalance) error
}
