package sync

import (
	"context"

	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SpecialPriceService reconciles the special price feed. The product is a
// hard dependency, and so is every scoping key the item supplies: silently
// dropping an unknown counterparty or agreement would widen the rule to a
// wildcard, which is worse than rejecting the item.
type SpecialPriceService struct {
	prices         pricing.SpecialPriceRepository
	products       catalog.ProductRepository
	counterparties party.CounterpartyRepository
	agreements     party.AgreementRepository
	priceTypes     party.PriceTypeRepository
	tx             shared.TransactionManager
	recorder       *RunRecorder
	log            *zap.Logger
}

// NewSpecialPriceService creates a SpecialPriceService
func NewSpecialPriceService(
	prices pricing.SpecialPriceRepository,
	products catalog.ProductRepository,
	counterparties party.CounterpartyRepository,
	agreements party.AgreementRepository,
	priceTypes party.PriceTypeRepository,
	tx shared.TransactionManager,
	recorder *RunRecorder,
	log *zap.Logger,
) *SpecialPriceService {
	return &SpecialPriceService{
		prices:         prices,
		products:       products,
		counterparties: counterparties,
		agreements:     agreements,
		priceTypes:     priceTypes,
		tx:             tx,
		recorder:       recorder,
		log:            log.Named("sync.special_price"),
	}
}

type specialPriceCaches struct {
	products       *guidCache
	counterparties *guidCache
	agreements     *guidCache
	priceTypes     *guidCache
}

// Sync upserts a special price batch inside one transaction
func (s *SpecialPriceService) Sync(ctx context.Context, items []SpecialPriceItem) ([]ItemResult, error) {
	run := s.recorder.Start(ctx, "special_prices", syncrun.DirectionImport, map[string]any{"count": len(items)})

	results := make([]ItemResult, 0, len(items))
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		caches := specialPriceCaches{
			products:       newGUIDCache(),
			counterparties: newGUIDCache(),
			agreements:     newGUIDCache(),
			priceTypes:     newGUIDCache(),
		}
		for _, item := range items {
			results = append(results, s.upsert(txCtx, caches, item))
		}
		return nil
	})
	if err != nil {
		s.recorder.Fail(ctx, run, err)
		return nil, err
	}

	s.recorder.Complete(ctx, run, results, "")
	return results, nil
}

func (s *SpecialPriceService) upsert(ctx context.Context, caches specialPriceCaches, item SpecialPriceItem) ItemResult {
	key := item.GUID
	if key == "" {
		key = item.ProductGUID
	}

	if item.Price.IsNegative() {
		return Failed(key, shared.NewValidationError("special price cannot be negative"))
	}

	productID, ok, err := caches.products.resolve(ctx, item.ProductGUID, s.productIDByGUID)
	if err != nil {
		return Failed(key, err)
	}
	if !ok {
		return Failed(key, shared.NewReferenceError("product %s not found", item.ProductGUID))
	}

	counterpartyID, err := s.requireScope(ctx, caches.counterparties, "counterparty", item.CounterpartyGUID, s.counterpartyIDByGUID)
	if err != nil {
		return Failed(key, err)
	}
	agreementID, err := s.requireScope(ctx, caches.agreements, "agreement", item.AgreementGUID, s.agreementIDByGUID)
	if err != nil {
		return Failed(key, err)
	}
	priceTypeID, err := s.requireScope(ctx, caches.priceTypes, "price type", item.PriceTypeGUID, s.priceTypeIDByGUID)
	if err != nil {
		return Failed(key, err)
	}

	snap := pricing.SpecialPriceSnapshot{
		ProductID:      productID,
		CounterpartyID: counterpartyID,
		AgreementID:    agreementID,
		PriceTypeID:    priceTypeID,
		Price:          item.Price,
		Currency:       item.Currency,
		StartDate:      item.StartDate,
		EndDate:        item.EndDate,
		MinQty:         item.MinQty,
		IsActive:       boolOrTrue(item.IsActive),
	}

	price, err := s.findExisting(ctx, item.GUID)
	switch {
	case err == nil && price != nil:
		if err := price.Apply(snap); err != nil {
			return Failed(key, err)
		}
	case err == nil:
		price, err = pricing.NewSpecialPrice(item.GUID, snap)
		if err != nil {
			return Failed(key, err)
		}
	default:
		return Failed(key, err)
	}

	if err := s.prices.Save(ctx, price); err != nil {
		return Failed(key, err)
	}
	return OK(key)
}

// findExisting looks the rule up by GUID. Rows without a GUID carry no
// idempotency key and are always inserted fresh.
func (s *SpecialPriceService) findExisting(ctx context.Context, guid string) (*pricing.SpecialPrice, error) {
	if guid == "" {
		return nil, nil
	}
	price, err := s.prices.FindByGUID(ctx, guid)
	if isNotFound(err) {
		return nil, nil
	}
	return price, err
}

// requireScope resolves a scoping GUID to a local ID. An omitted GUID means
// the dimension is a wildcard; a supplied GUID that resolves to nothing is an
// item error.
func (s *SpecialPriceService) requireScope(ctx context.Context, cache *guidCache, label, guid string, lookup func(context.Context, string) (uuid.UUID, error)) (*uuid.UUID, error) {
	if guid == "" {
		return nil, nil
	}
	id, ok, err := cache.resolve(ctx, guid, lookup)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewReferenceError("%s %s not found", label, guid)
	}
	return &id, nil
}

func (s *SpecialPriceService) productIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	p, err := s.products.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

func (s *SpecialPriceService) counterpartyIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	c, err := s.counterparties.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return c.ID, nil
}

func (s *SpecialPriceService) agreementIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	a, err := s.agreements.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return a.ID, nil
}

func (s *SpecialPriceService) priceTypeIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	t, err := s.priceTypes.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return t.ID, nil
}
