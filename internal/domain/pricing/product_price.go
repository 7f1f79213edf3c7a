package pricing

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductPrice is a base price row from the 1C ledger system, optionally
// scoped to a price type. Used as the fallback when no special price rule
// matches.
type ProductPrice struct {
	shared.BaseEntity
	GUID        string          `gorm:"type:varchar(64);index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PriceTypeID *uuid.UUID      `gorm:"type:uuid;index"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'RUB'"`
	StartDate   *time.Time
	EndDate     *time.Time
	MinQty      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductPrice) TableName() string {
	return "product_prices"
}

// ProductPriceSnapshot carries the mutable fields of one base price row
type ProductPriceSnapshot struct {
	ProductID   uuid.UUID
	PriceTypeID *uuid.UUID
	Price       decimal.Decimal
	Currency    string
	StartDate   *time.Time
	EndDate     *time.Time
	MinQty      decimal.Decimal
	IsActive    bool
}

// NewProductPrice creates a base price row. The GUID may be empty, in which
// case the row is insert-only.
func NewProductPrice(guid string, snap ProductPriceSnapshot) (*ProductPrice, error) {
	if snap.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("price product cannot be empty")
	}
	if snap.Price.IsNegative() {
		return nil, shared.NewValidationError("price cannot be negative")
	}
	p := &ProductPrice{BaseEntity: shared.NewBaseEntity(), GUID: guid, Currency: "RUB"}
	p.apply(snap)
	return p, nil
}

// Apply replaces the mutable fields from a fresh ledger snapshot
func (p *ProductPrice) Apply(snap ProductPriceSnapshot) error {
	if snap.Price.IsNegative() {
		return shared.NewValidationError("price cannot be negative")
	}
	p.apply(snap)
	p.UpdatedAt = time.Now()
	return nil
}

func (p *ProductPrice) apply(snap ProductPriceSnapshot) {
	p.ProductID = snap.ProductID
	p.PriceTypeID = snap.PriceTypeID
	p.Price = snap.Price
	if snap.Currency != "" {
		p.Currency = snap.Currency
	}
	p.StartDate = snap.StartDate
	p.EndDate = snap.EndDate
	p.MinQty = snap.MinQty
	p.IsActive = snap.IsActive
}

// ActiveAt reports whether the row's activity window contains the instant
func (p *ProductPrice) ActiveAt(at time.Time) bool {
	return p.IsActive && windowContains(p.StartDate, p.EndDate, at)
}

// MatchesPriceType reports whether the row applies under the resolved price
// type: unscoped rows always apply, scoped rows only on an exact match.
func (p *ProductPrice) MatchesPriceType(priceTypeID *uuid.UUID) bool {
	return matchKey(p.PriceTypeID, priceTypeID)
}

// Specificity returns PRICE_TYPE for scoped rows and GLOBAL otherwise
func (p *ProductPrice) Specificity() ScopeLevel {
	if p.PriceTypeID != nil {
		return ScopePriceType
	}
	return ScopeGlobal
}
