package pricing

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SpecialPrice is a conditional price rule from the 1C ledger system. Each
// of the three scoping keys is either pinned to a specific entity or nil,
// meaning the rule applies regardless of that dimension.
type SpecialPrice struct {
	shared.BaseEntity
	GUID           string          `gorm:"type:varchar(64);index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CounterpartyID *uuid.UUID      `gorm:"type:uuid;index"`
	AgreementID    *uuid.UUID      `gorm:"type:uuid;index"`
	PriceTypeID    *uuid.UUID      `gorm:"type:uuid;index"`
	Price          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'RUB'"`
	StartDate      *time.Time
	EndDate        *time.Time
	MinQty         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SpecialPrice) TableName() string {
	return "special_prices"
}

// SpecialPriceSnapshot carries the mutable fields of one special price rule
type SpecialPriceSnapshot struct {
	ProductID      uuid.UUID
	CounterpartyID *uuid.UUID
	AgreementID    *uuid.UUID
	PriceTypeID    *uuid.UUID
	Price          decimal.Decimal
	Currency       string
	StartDate      *time.Time
	EndDate        *time.Time
	MinQty         decimal.Decimal
	IsActive       bool
}

// NewSpecialPrice creates a special price rule. The GUID may be empty, in
// which case the row is insert-only.
func NewSpecialPrice(guid string, snap SpecialPriceSnapshot) (*SpecialPrice, error) {
	if snap.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("special price product cannot be empty")
	}
	if snap.Price.IsNegative() {
		return nil, shared.NewValidationError("special price cannot be negative")
	}
	p := &SpecialPrice{BaseEntity: shared.NewBaseEntity(), GUID: guid, Currency: "RUB"}
	p.apply(snap)
	return p, nil
}

// Apply replaces the mutable fields from a fresh ledger snapshot
func (p *SpecialPrice) Apply(snap SpecialPriceSnapshot) error {
	if snap.Price.IsNegative() {
		return shared.NewValidationError("special price cannot be negative")
	}
	p.apply(snap)
	p.UpdatedAt = time.Now()
	return nil
}

func (p *SpecialPrice) apply(snap SpecialPriceSnapshot) {
	p.ProductID = snap.ProductID
	p.CounterpartyID = snap.CounterpartyID
	p.AgreementID = snap.AgreementID
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

// ActiveAt reports whether the rule's activity window contains the instant
func (p *SpecialPrice) ActiveAt(at time.Time) bool {
	return p.IsActive && windowContains(p.StartDate, p.EndDate, at)
}

// Matches reports whether every pinned scoping key of the rule equals the
// corresponding resolved value. Nil keys are wildcards.
func (p *SpecialPrice) Matches(ctx ResolvedContext) bool {
	return matchKey(p.CounterpartyID, ctx.CounterpartyID) &&
		matchKey(p.AgreementID, ctx.AgreementID) &&
		matchKey(p.PriceTypeID, ctx.PriceTypeID)
}

// Specificity returns the highest-priority scoping key the rule pins.
// Callers must have checked Matches first: a pinned key that matched the
// context determines the level the rule competes at.
func (p *SpecialPrice) Specificity() ScopeLevel {
	switch {
	case p.AgreementID != nil:
		return ScopeAgreement
	case p.CounterpartyID != nil:
		return ScopeCounterparty
	case p.PriceTypeID != nil:
		return ScopePriceType
	default:
		return ScopeGlobal
	}
}
