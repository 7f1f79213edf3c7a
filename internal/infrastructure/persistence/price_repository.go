package persistence

import (
	"context"
	"errors"

	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSpecialPriceRepository implements pricing.SpecialPriceRepository using GORM
type GormSpecialPriceRepository struct {
	db *gorm.DB
}

// NewGormSpecialPriceRepository creates a new GormSpecialPriceRepository
func NewGormSpecialPriceRepository(db *gorm.DB) *GormSpecialPriceRepository {
	return &GormSpecialPriceRepository{db: db}
}

// FindByGUID finds a rule by its ledger GUID
func (r *GormSpecialPriceRepository) FindByGUID(ctx context.Context, guid string) (*pricing.SpecialPrice, error) {
	if guid == "" {
		return nil, shared.ErrNotFound
	}
	var price pricing.SpecialPrice
	if err := conn(ctx, r.db).First(&price, "guid = ?", guid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// FindActiveByProduct returns every active rule for the product
func (r *GormSpecialPriceRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]pricing.SpecialPrice, error) {
	var prices []pricing.SpecialPrice
	if err := conn(ctx, r.db).
		Where("product_id = ? AND is_active = ?", productID, true).
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// Save creates or updates a rule
func (r *GormSpecialPriceRepository) Save(ctx context.Context, price *pricing.SpecialPrice) error {
	return conn(ctx, r.db).Save(price).Error
}

// GormProductPriceRepository implements pricing.ProductPriceRepository using GORM
type GormProductPriceRepository struct {
	db *gorm.DB
}

// NewGormProductPriceRepository creates a new GormProductPriceRepository
func NewGormProductPriceRepository(db *gorm.DB) *GormProductPriceRepository {
	return &GormProductPriceRepository{db: db}
}

// FindByGUID finds a base price row by its ledger GUID
func (r *GormProductPriceRepository) FindByGUID(ctx context.Context, guid string) (*pricing.ProductPrice, error) {
	if guid == "" {
		return nil, shared.ErrNotFound
	}
	var price pricing.ProductPrice
	if err := conn(ctx, r.db).First(&price, "guid = ?", guid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// FindActiveByProduct returns every active base price row for the product
func (r *GormProductPriceRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]pricing.ProductPrice, error) {
	var prices []pricing.ProductPrice
	if err := conn(ctx, r.db).
		Where("product_id = ? AND is_active = ?", productID, true).
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// Save creates or updates a base price row
func (r *GormProductPriceRepository) Save(ctx context.Context, price *pricing.ProductPrice) error {
	return conn(ctx, r.db).Save(price).Error
}

var (
	_ pricing.SpecialPriceRepository = (*GormSpecialPriceRepository)(nil)
	_ pricing.ProductPriceRepository = (*GormProductPriceRepository)(nil)
)
