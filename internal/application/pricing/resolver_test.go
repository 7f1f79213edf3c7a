package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByGUID(ctx context.Context, guid string) (*catalog.Product, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockAgreementRepository is a mock implementation of party.AgreementRepository
type MockAgreementRepository struct {
	mock.Mock
}

func (m *MockAgreementRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.ClientAgreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.ClientAgreement), args.Error(1)
}

func (m *MockAgreementRepository) FindByGUID(ctx context.Context, guid string) (*party.ClientAgreement, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.ClientAgreement), args.Error(1)
}

func (m *MockAgreementRepository) Save(ctx context.Context, agreement *party.ClientAgreement) error {
	args := m.Called(ctx, agreement)
	return args.Error(0)
}

// MockSpecialPriceRepository is a mock implementation of pricing.SpecialPriceRepository
type MockSpecialPriceRepository struct {
	mock.Mock
}

func (m *MockSpecialPriceRepository) FindByGUID(ctx context.Context, guid string) (*pricing.SpecialPrice, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.SpecialPrice), args.Error(1)
}

func (m *MockSpecialPriceRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]pricing.SpecialPrice, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]pricing.SpecialPrice), args.Error(1)
}

func (m *MockSpecialPriceRepository) Save(ctx context.Context, price *pricing.SpecialPrice) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

// MockProductPriceRepository is a mock implementation of pricing.ProductPriceRepository
type MockProductPriceRepository struct {
	mock.Mock
}

func (m *MockProductPriceRepository) FindByGUID(ctx context.Context, guid string) (*pricing.ProductPrice, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]pricing.ProductPrice, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]pricing.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) Save(ctx context.Context, price *pricing.ProductPrice) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

func specialRule(t *testing.T, productID uuid.UUID, price int64, mutate func(*pricing.SpecialPriceSnapshot)) pricing.SpecialPrice {
	t.Helper()
	snap := pricing.SpecialPriceSnapshot{
		ProductID: productID,
		Price:     decimal.NewFromInt(price),
		IsActive:  true,
	}
	if mutate != nil {
		mutate(&snap)
	}
	p, err := pricing.NewSpecialPrice(uuid.NewString(), snap)
	require.NoError(t, err)
	return *p
}

func basePrice(t *testing.T, productID uuid.UUID, price int64, priceTypeID *uuid.UUID) pricing.ProductPrice {
	t.Helper()
	p, err := pricing.NewProductPrice(uuid.NewString(), pricing.ProductPriceSnapshot{
		ProductID:   productID,
		PriceTypeID: priceTypeID,
		Price:       decimal.NewFromInt(price),
		IsActive:    true,
	})
	require.NoError(t, err)
	return *p
}

func newTestResolver(specials *MockSpecialPriceRepository, bases *MockProductPriceRepository) *Resolver {
	return NewResolver(
		new(MockProductRepository),
		nil,
		new(MockAgreementRepository),
		nil,
		specials,
		bases,
		zap.NewNop(),
	)
}

func TestResolver_ResolveForProduct_Specificity(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	counterpartyID := uuid.New()
	agreementID := uuid.New()
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	resolved := pricing.ResolvedContext{
		CounterpartyID: &counterpartyID,
		AgreementID:    &agreementID,
	}

	t.Run("agreement-pinned rule beats counterparty and global", func(t *testing.T) {
		specials := new(MockSpecialPriceRepository)
		bases := new(MockProductPriceRepository)

		rules := []pricing.SpecialPrice{
			specialRule(t, productID, 100, nil),
			specialRule(t, productID, 90, func(s *pricing.SpecialPriceSnapshot) {
				s.CounterpartyID = &counterpartyID
			}),
			specialRule(t, productID, 80, func(s *pricing.SpecialPriceSnapshot) {
				s.AgreementID = &agreementID
			}),
		}
		specials.On("FindActiveByProduct", ctx, productID).Return(rules, nil)

		quote, err := newTestResolver(specials, bases).ResolveForProduct(ctx, productID, resolved, at)
		require.NoError(t, err)

		assert.True(t, quote.Price.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, pricing.ScopeAgreement, quote.Scope)
		assert.Equal(t, SourceSpecialPrice, quote.Source)
	})

	t.Run("later start date wins among rules of equal scope", func(t *testing.T) {
		specials := new(MockSpecialPriceRepository)
		bases := new(MockProductPriceRepository)

		older := at.Add(-30 * 24 * time.Hour)
		newer := at.Add(-24 * time.Hour)
		rules := []pricing.SpecialPrice{
			specialRule(t, productID, 70, func(s *pricing.SpecialPriceSnapshot) {
				s.CounterpartyID = &counterpartyID
				s.StartDate = &older
			}),
			specialRule(t, productID, 60, func(s *pricing.SpecialPriceSnapshot) {
				s.CounterpartyID = &counterpartyID
				s.StartDate = &newer
			}),
		}
		specials.On("FindActiveByProduct", ctx, productID).Return(rules, nil)

		quote, err := newTestResolver(specials, bases).ResolveForProduct(ctx, productID, resolved, at)
		require.NoError(t, err)
		assert.True(t, quote.Price.Equal(decimal.NewFromInt(60)))
	})

	t.Run("rule with a start date outranks dateless rule of same scope", func(t *testing.T) {
		specials := new(MockSpecialPriceRepository)
		bases := new(MockProductPriceRepository)

		start := at.Add(-24 * time.Hour)
		rules := []pricing.SpecialPrice{
			specialRule(t, productID, 55, func(s *pricing.SpecialPriceSnapshot) {
				s.CounterpartyID = &counterpartyID
				s.StartDate = &start
			}),
			specialRule(t, productID, 50, func(s *pricing.SpecialPriceSnapshot) {
				s.CounterpartyID = &counterpartyID
			}),
		}
		specials.On("FindActiveByProduct", ctx, productID).Return(rules, nil)

		quote, err := newTestResolver(specials, bases).ResolveForProduct(ctx, productID, resolved, at)
		require.NoError(t, err)
		assert.True(t, quote.Price.Equal(decimal.NewFromInt(55)))
	})

	t.Run("rules outside their window are ignored", func(t *testing.T) {
		specials := new(MockSpecialPriceRepository)
		bases := new(MockProductPriceRepository)

		future := at.Add(24 * time.Hour)
		rules := []pricing.SpecialPrice{
			specialRule(t, productID, 10, func(s *pricing.SpecialPriceSnapshot) {
				s.AgreementID = &agreementID
				s.StartDate = &future
			}),
			specialRule(t, productID, 40, nil),
		}
		specials.On("FindActiveByProduct", ctx, productID).Return(rules, nil)

		quote, err := newTestResolver(specials, bases).ResolveForProduct(ctx, productID, resolved, at)
		require.NoError(t, err)
		assert.True(t, quote.Price.Equal(decimal.NewFromInt(40)))
		assert.Equal(t, pricing.ScopeGlobal, quote.Scope)
	})

	t.Run("rules pinned to another context are ignored", func(t *testing.T) {
		specials := new(MockSpecialPriceRepository)
		bases := new(MockProductPriceRepository)

		otherAgreement := uuid.New()
		rules := []pricing.SpecialPrice{
			specialRule(t, productID, 5, func(s *pricing.SpecialPriceSnapshot) {
				s.AgreementID = &otherAgreement
			}),
			specialRule(t, productID, 45, nil),
		}
		specials.On("FindActiveByProduct", ctx, productID).Return(rules, nil)

		quote, err := newTestResolver(specials, bases).ResolveForProduct(ctx, productID, resolved, at)
		require.NoError(t, err)
		assert.True(t, quote.Price.Equal(decimal.NewFromInt(45)))
	})
}

func TestResolver_ResolveForProduct_Fallback(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	priceTypeID := uuid.New()
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	resolved := pricing.ResolvedContext{PriceTypeID: &priceTypeID}

	t.Run("falls back to base price when no special rule matches", func(t *testing.T) {
		specials := new(MockSpecialPriceRepository)
		bases := new(MockProductPriceRepository)

		specials.On("FindActiveByProduct", ctx, productID).Return([]pricing.SpecialPrice{}, nil)
		bases.On("FindActiveByProduct", ctx, productID).Return([]pricing.ProductPrice{
			basePrice(t, productID, 120, nil),
		}, nil)

		quote, err := newTestResolver(specials, bases).ResolveForProduct(ctx, productID, resolved, at)
		require.NoError(t, err)
		assert.True(t, quote.Price.Equal(decimal.NewFromInt(120)))
		assert.Equal(t, SourceProductPrice, quote.Source)
	})

	t.Run("price-type scoped base price beats the unscoped one", func(t *testing.T) {
		specials := new(MockSpecialPriceRepository)
		bases := new(MockProductPriceRepository)

		specials.On("FindActiveByProduct", ctx, productID).Return([]pricing.SpecialPrice{}, nil)
		bases.On("FindActiveByProduct", ctx, productID).Return([]pricing.ProductPrice{
			basePrice(t, productID, 120, nil),
			basePrice(t, productID, 110, &priceTypeID),
		}, nil)

		quote, err := newTestResolver(specials, bases).ResolveForProduct(ctx, productID, resolved, at)
		require.NoError(t, err)
		assert.True(t, quote.Price.Equal(decimal.NewFromInt(110)))
		assert.Equal(t, pricing.ScopePriceType, quote.Scope)
	})

	t.Run("base price scoped to another price type is ignored", func(t *testing.T) {
		specials := new(MockSpecialPriceRepository)
		bases := new(MockProductPriceRepository)

		other := uuid.New()
		specials.On("FindActiveByProduct", ctx, productID).Return([]pricing.SpecialPrice{}, nil)
		bases.On("FindActiveByProduct", ctx, productID).Return([]pricing.ProductPrice{
			basePrice(t, productID, 120, nil),
			basePrice(t, productID, 90, &other),
		}, nil)

		quote, err := newTestResolver(specials, bases).ResolveForProduct(ctx, productID, resolved, at)
		require.NoError(t, err)
		assert.True(t, quote.Price.Equal(decimal.NewFromInt(120)))
	})

	t.Run("reports not found when nothing applies", func(t *testing.T) {
		specials := new(MockSpecialPriceRepository)
		bases := new(MockProductPriceRepository)

		specials.On("FindActiveByProduct", ctx, productID).Return([]pricing.SpecialPrice{}, nil)
		bases.On("FindActiveByProduct", ctx, productID).Return([]pricing.ProductPrice{}, nil)

		_, err := newTestResolver(specials, bases).ResolveForProduct(ctx, productID, resolved, at)
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, shared.CodeNotFound, derr.Code)
	})
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	newProduct := func(t *testing.T, active bool) *catalog.Product {
		p, err := catalog.NewProduct("prod-1", catalog.ProductSnapshot{Name: "Widget", IsActive: active})
		require.NoError(t, err)
		return p
	}

	t.Run("rejects inactive product", func(t *testing.T) {
		products := new(MockProductRepository)
		products.On("FindByGUID", ctx, "prod-1").Return(newProduct(t, false), nil)

		r := NewResolver(products, nil, nil, nil, nil, nil, zap.NewNop())
		_, err := r.Resolve(ctx, Query{ProductGUID: "prod-1", At: at})
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, shared.CodeValidationError, derr.Code)
	})

	t.Run("inherits counterparty and price type from the agreement", func(t *testing.T) {
		products := new(MockProductRepository)
		agreements := new(MockAgreementRepository)
		specials := new(MockSpecialPriceRepository)
		bases := new(MockProductPriceRepository)

		product := newProduct(t, true)
		products.On("FindByGUID", ctx, "prod-1").Return(product, nil)

		counterpartyID := uuid.New()
		agreement, err := party.NewClientAgreement("agr-1", party.AgreementSnapshot{
			Name:           "Main agreement",
			CounterpartyID: &counterpartyID,
			IsActive:       true,
		})
		require.NoError(t, err)
		agreements.On("FindByGUID", ctx, "agr-1").Return(agreement, nil)

		rules := []pricing.SpecialPrice{
			specialRule(t, product.ID, 75, func(s *pricing.SpecialPriceSnapshot) {
				s.ProductID = product.ID
				s.CounterpartyID = &counterpartyID
			}),
		}
		specials.On("FindActiveByProduct", ctx, product.ID).Return(rules, nil)

		r := NewResolver(products, nil, agreements, nil, specials, bases, zap.NewNop())
		quote, err := r.Resolve(ctx, Query{ProductGUID: "prod-1", AgreementGUID: "agr-1", At: at})
		require.NoError(t, err)

		assert.True(t, quote.Price.Equal(decimal.NewFromInt(75)))
		assert.Equal(t, pricing.ScopeCounterparty, quote.Scope)
	})
}
