package pricing

import (
	"context"
	"time"

	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Price sources reported in a quote
const (
	SourceSpecialPrice = "SPECIAL_PRICE"
	SourceProductPrice = "PRODUCT_PRICE"
)

// Quote is the outcome of effective price resolution: the winning rule's
// price together with where it came from and how specific it was.
type Quote struct {
	ProductID uuid.UUID
	Price     decimal.Decimal
	Currency  string
	MinQty    decimal.Decimal
	Scope     pricing.ScopeLevel
	Source    string
	RuleID    uuid.UUID
}

// Query names the commercial context to resolve a price in. The product is
// required; the scoping dimensions are optional and referenced by ledger GUID.
type Query struct {
	ProductGUID      string
	CounterpartyGUID string
	AgreementGUID    string
	PriceTypeGUID    string
	At               time.Time
}

// Resolver computes the effective price of a product under a commercial
// context. The ranking is a deterministic total order: candidates are
// compared by scope specificity first and by most recent start date second.
type Resolver struct {
	products       catalog.ProductRepository
	counterparties party.CounterpartyRepository
	agreements     party.AgreementRepository
	priceTypes     party.PriceTypeRepository
	specialPrices  pricing.SpecialPriceRepository
	productPrices  pricing.ProductPriceRepository
	log            *zap.Logger
}

// NewResolver creates a Resolver
func NewResolver(
	products catalog.ProductRepository,
	counterparties party.CounterpartyRepository,
	agreements party.AgreementRepository,
	priceTypes party.PriceTypeRepository,
	specialPrices pricing.SpecialPriceRepository,
	productPrices pricing.ProductPriceRepository,
	log *zap.Logger,
) *Resolver {
	return &Resolver{
		products:       products,
		counterparties: counterparties,
		agreements:     agreements,
		priceTypes:     priceTypes,
		specialPrices:  specialPrices,
		productPrices:  productPrices,
		log:            log.Named("pricing.resolver"),
	}
}

// Resolve looks up the product and the supplied scoping entities by GUID,
// validates their state and cross-consistency, and computes the effective
// price at the query instant.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*Quote, error) {
	product, err := r.products.FindByGUID(ctx, q.ProductGUID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewValidationError("product %s is not active", q.ProductGUID)
	}

	resolved, err := r.resolveContext(ctx, q)
	if err != nil {
		return nil, err
	}

	at := q.At
	if at.IsZero() {
		at = time.Now()
	}
	return r.ResolveForProduct(ctx, product.ID, resolved, at)
}

// resolveContext loads the scoping entities the query names and flattens them
// into a resolved context, filling the counterparty and price type from the
// agreement's own links when not supplied explicitly.
func (r *Resolver) resolveContext(ctx context.Context, q Query) (pricing.ResolvedContext, error) {
	var resolved pricing.ResolvedContext

	var agreement *party.ClientAgreement
	if q.AgreementGUID != "" {
		a, err := r.agreements.FindByGUID(ctx, q.AgreementGUID)
		if err != nil {
			return resolved, err
		}
		if !a.IsActive {
			return resolved, shared.NewValidationError("agreement %s is not active", q.AgreementGUID)
		}
		agreement = a
		resolved.AgreementID = &a.ID
	}

	if q.CounterpartyGUID != "" {
		c, err := r.counterparties.FindByGUID(ctx, q.CounterpartyGUID)
		if err != nil {
			return resolved, err
		}
		if !c.IsActive {
			return resolved, shared.NewValidationError("counterparty %s is not active", q.CounterpartyGUID)
		}
		if agreement != nil && agreement.CounterpartyID != nil && *agreement.CounterpartyID != c.ID {
			return resolved, shared.NewValidationError("counterparty does not match the agreement's counterparty")
		}
		resolved.CounterpartyID = &c.ID
	} else if agreement != nil {
		resolved.CounterpartyID = agreement.CounterpartyID
	}

	if q.PriceTypeGUID != "" {
		t, err := r.priceTypes.FindByGUID(ctx, q.PriceTypeGUID)
		if err != nil {
			return resolved, err
		}
		if !t.IsActive {
			return resolved, shared.NewValidationError("price type %s is not active", q.PriceTypeGUID)
		}
		if agreement != nil && agreement.PriceTypeID != nil && *agreement.PriceTypeID != t.ID {
			return resolved, shared.NewValidationError("price type does not match the agreement's price type")
		}
		resolved.PriceTypeID = &t.ID
	} else if agreement != nil {
		resolved.PriceTypeID = agreement.PriceTypeID
	}

	return resolved, nil
}

// ResolveForProduct computes the effective price for an already resolved
// context. Order creation calls this directly after building its own context.
func (r *Resolver) ResolveForProduct(ctx context.Context, productID uuid.UUID, resolved pricing.ResolvedContext, at time.Time) (*Quote, error) {
	if quote, err := r.bestSpecialPrice(ctx, productID, resolved, at); err != nil || quote != nil {
		return quote, err
	}
	return r.bestProductPrice(ctx, productID, resolved.PriceTypeID, at)
}

func (r *Resolver) bestSpecialPrice(ctx context.Context, productID uuid.UUID, resolved pricing.ResolvedContext, at time.Time) (*Quote, error) {
	rules, err := r.specialPrices.FindActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var best *pricing.SpecialPrice
	for i := range rules {
		rule := &rules[i]
		if !rule.ActiveAt(at) || !rule.Matches(resolved) {
			continue
		}
		if best == nil || beats(rule.Specificity(), rule.StartDate, best.Specificity(), best.StartDate) {
			best = rule
		}
	}
	if best == nil {
		return nil, nil
	}
	return &Quote{
		ProductID: productID,
		Price:     best.Price,
		Currency:  best.Currency,
		MinQty:    best.MinQty,
		Scope:     best.Specificity(),
		Source:    SourceSpecialPrice,
		RuleID:    best.ID,
	}, nil
}

func (r *Resolver) bestProductPrice(ctx context.Context, productID uuid.UUID, priceTypeID *uuid.UUID, at time.Time) (*Quote, error) {
	rows, err := r.productPrices.FindActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var best *pricing.ProductPrice
	for i := range rows {
		row := &rows[i]
		if !row.ActiveAt(at) || !row.MatchesPriceType(priceTypeID) {
			continue
		}
		if best == nil || beats(row.Specificity(), row.StartDate, best.Specificity(), best.StartDate) {
			best = row
		}
	}
	if best == nil {
		return nil, shared.NewNotFoundError("no price found for product")
	}
	return &Quote{
		ProductID: productID,
		Price:     best.Price,
		Currency:  best.Currency,
		MinQty:    best.MinQty,
		Scope:     best.Specificity(),
		Source:    SourceProductPrice,
		RuleID:    best.ID,
	}, nil
}

// beats reports whether candidate a outranks candidate b: higher specificity
// wins, equal specificity falls back to the later start date.
func beats(aLevel pricing.ScopeLevel, aStart *time.Time, bLevel pricing.ScopeLevel, bStart *time.Time) bool {
	if aLevel != bLevel {
		return aLevel > bLevel
	}
	return pricing.StartDateAfter(aStart, bStart)
}
