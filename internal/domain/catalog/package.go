package catalog

import (
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductPackage represents a packaging variant of a product: a named
// quantity of base units (e.g. "box of 12"). Packages may arrive from the
// ledger system without a GUID; such rows are insert-only and the nested
// collection is replaced wholesale on each parent product upsert.
type ProductPackage struct {
	shared.BaseEntity
	GUID       string          `gorm:"type:varchar(64);index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID     *uuid.UUID      `gorm:"type:uuid"`
	Name       string          `gorm:"type:varchar(255);not null"`
	Multiplier decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	IsDefault  bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductPackage) TableName() string {
	return "product_packages"
}

// NewProductPackage creates a packaging variant. The multiplier converts a
// package quantity into base units and must be positive.
func NewProductPackage(guid string, productID uuid.UUID, unitID *uuid.UUID, name string, multiplier decimal.Decimal, isDefault bool) (*ProductPackage, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("package product cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("package name cannot be empty")
	}
	if multiplier.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("package multiplier must be positive")
	}
	return &ProductPackage{
		BaseEntity: shared.NewBaseEntity(),
		GUID:       guid,
		ProductID:  productID,
		UnitID:     unitID,
		Name:       name,
		Multiplier: multiplier,
		IsDefault:  isDefault,
	}, nil
}

// BelongsTo reports whether the package belongs to the given product
func (p *ProductPackage) BelongsTo(productID uuid.UUID) bool {
	return p.ProductID == productID
}
