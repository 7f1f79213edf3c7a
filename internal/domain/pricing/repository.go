package pricing

import (
	"context"

	"github.com/google/uuid"
)

// SpecialPriceRepository defines persistence for special price rules
type SpecialPriceRepository interface {
	// FindByGUID finds a rule by its ledger GUID
	FindByGUID(ctx context.Context, guid string) (*SpecialPrice, error)

	// FindActiveByProduct returns every rule for the product with IsActive
	// set. Window and scope filtering happens in the resolver.
	FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]SpecialPrice, error)

	// Save creates or updates a rule
	Save(ctx context.Context, price *SpecialPrice) error
}

// ProductPriceRepository defines persistence for base price rows
type ProductPriceRepository interface {
	FindByGUID(ctx context.Context, guid string) (*ProductPrice, error)
	FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]ProductPrice, error)
	Save(ctx context.Context, price *ProductPrice) error
}
