package catalog

import (
	"context"

	"github.com/google/uuid"
)

// GroupRepository defines persistence for product groups
type GroupRepository interface {
	// FindByGUID finds a group by its ledger GUID
	FindByGUID(ctx context.Context, guid string) (*ProductGroup, error)

	// Save creates or updates a group
	Save(ctx context.Context, group *ProductGroup) error
}

// UnitRepository defines persistence for units of measure
type UnitRepository interface {
	FindByGUID(ctx context.Context, guid string) (*Unit, error)
	Save(ctx context.Context, unit *Unit) error
}

// ProductRepository defines persistence for products
type ProductRepository interface {
	// FindByID finds a product by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByGUID finds a product by its ledger GUID
	FindByGUID(ctx context.Context, guid string) (*Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// PackageRepository defines persistence for product packages
type PackageRepository interface {
	// FindByID finds a package by its local ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductPackage, error)

	// FindByProduct returns all packages of a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductPackage, error)

	// ReplaceForProduct deletes the product's packages and inserts the given
	// set in one sweep. Used by reconciliation: the nested collection is
	// owned by the parent product snapshot.
	ReplaceForProduct(ctx context.Context, productID uuid.UUID, packages []*ProductPackage) error
}
