package persistence

import (
	"context"
	"errors"

	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items by local ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := conn(ctx, r.db).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByGUID finds an order with its items by correlation GUID
func (r *GormOrderRepository) FindByGUID(ctx context.Context, guid string) (*order.Order, error) {
	var o order.Order
	if err := conn(ctx, r.db).Preload("Items").First(&o, "guid = ?", guid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindQueued returns orders awaiting hand-off, oldest-queued first
func (r *GormOrderRepository) FindQueued(ctx context.Context, includeSent bool, limit int) ([]order.Order, error) {
	statuses := []string{order.StatusQueued}
	if includeSent {
		statuses = append(statuses, order.StatusSentTo1C)
	}

	var orders []order.Order
	if err := conn(ctx, r.db).
		Preload("Items").
		Where("status IN ?", statuses).
		Order("queued_at ASC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists the order and all of its items in one transaction
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	db := conn(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(o).Error; err != nil {
			return err
		}
		if len(o.Items) == 0 {
			return nil
		}
		return tx.Save(&o.Items).Error
	})
}

var _ order.Repository = (*GormOrderRepository)(nil)
