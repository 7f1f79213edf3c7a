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

// PriceService reconciles the base price feed. The product is a hard
// dependency; a supplied price type must resolve for the same reason a
// special price scope must.
type PriceService struct {
	prices     pricing.ProductPriceRepository
	products   catalog.ProductRepository
	priceTypes party.PriceTypeRepository
	tx         shared.TransactionManager
	recorder   *RunRecorder
	log        *zap.Logger
}

// NewPriceService creates a PriceService
func NewPriceService(
	prices pricing.ProductPriceRepository,
	products catalog.ProductRepository,
	priceTypes party.PriceTypeRepository,
	tx shared.TransactionManager,
	recorder *RunRecorder,
	log *zap.Logger,
) *PriceService {
	return &PriceService{
		prices:     prices,
		products:   products,
		priceTypes: priceTypes,
		tx:         tx,
		recorder:   recorder,
		log:        log.Named("sync.price"),
	}
}

// Sync upserts a base price batch inside one transaction
func (s *PriceService) Sync(ctx context.Context, items []PriceItem) ([]ItemResult, error) {
	run := s.recorder.Start(ctx, "prices", syncrun.DirectionImport, map[string]any{"count": len(items)})

	results := make([]ItemResult, 0, len(items))
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		productCache := newGUIDCache()
		priceTypeCache := newGUIDCache()
		for _, item := range items {
			results = append(results, s.upsert(txCtx, productCache, priceTypeCache, item))
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

func (s *PriceService) upsert(ctx context.Context, productCache, priceTypeCache *guidCache, item PriceItem) ItemResult {
	key := item.GUID
	if key == "" {
		key = item.ProductGUID
	}

	if item.Price.IsNegative() {
		return Failed(key, shared.NewValidationError("price cannot be negative"))
	}

	productID, ok, err := productCache.resolve(ctx, item.ProductGUID, s.productIDByGUID)
	if err != nil {
		return Failed(key, err)
	}
	if !ok {
		return Failed(key, shared.NewReferenceError("product %s not found", item.ProductGUID))
	}

	var priceTypeID *uuid.UUID
	if item.PriceTypeGUID != "" {
		id, ok, err := priceTypeCache.resolve(ctx, item.PriceTypeGUID, s.priceTypeIDByGUID)
		if err != nil {
			return Failed(key, err)
		}
		if !ok {
			return Failed(key, shared.NewReferenceError("price type %s not found", item.PriceTypeGUID))
		}
		priceTypeID = &id
	}

	snap := pricing.ProductPriceSnapshot{
		ProductID:   productID,
		PriceTypeID: priceTypeID,
		Price:       item.Price,
		Currency:    item.Currency,
		StartDate:   item.StartDate,
		EndDate:     item.EndDate,
		MinQty:      item.MinQty,
		IsActive:    boolOrTrue(item.IsActive),
	}

	price, err := s.findExisting(ctx, item.GUID)
	switch {
	case err == nil && price != nil:
		if err := price.Apply(snap); err != nil {
			return Failed(key, err)
		}
	case err == nil:
		price, err = pricing.NewProductPrice(item.GUID, snap)
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

// findExisting looks the row up by GUID; rows without one are insert-only
func (s *PriceService) findExisting(ctx context.Context, guid string) (*pricing.ProductPrice, error) {
	if guid == "" {
		return nil, nil
	}
	price, err := s.prices.FindByGUID(ctx, guid)
	if isNotFound(err) {
		return nil, nil
	}
	return price, err
}

func (s *PriceService) productIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	p, err := s.products.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

func (s *PriceService) priceTypeIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	t, err := s.priceTypes.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return t.ID, nil
}
