package sync

import (
	"context"
	"fmt"

	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/inventory"
	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService reconciles the stock balance feed. Both the product and the
// warehouse are hard dependencies: an item referencing an unknown one is
// recorded as an error and skipped while the rest of the batch proceeds.
type StockService struct {
	stock      inventory.StockRepository
	products   catalog.ProductRepository
	warehouses party.WarehouseRepository
	tx         shared.TransactionManager
	recorder   *RunRecorder
	log        *zap.Logger
}

// NewStockService creates a StockService
func NewStockService(
	stock inventory.StockRepository,
	products catalog.ProductRepository,
	warehouses party.WarehouseRepository,
	tx shared.TransactionManager,
	recorder *RunRecorder,
	log *zap.Logger,
) *StockService {
	return &StockService{
		stock:      stock,
		products:   products,
		warehouses: warehouses,
		tx:         tx,
		recorder:   recorder,
		log:        log.Named("sync.stock"),
	}
}

// Sync upserts a stock batch inside one transaction
func (s *StockService) Sync(ctx context.Context, items []StockItem) ([]ItemResult, error) {
	run := s.recorder.Start(ctx, "stock", syncrun.DirectionImport, map[string]any{"count": len(items)})

	results := make([]ItemResult, 0, len(items))
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		productCache := newGUIDCache()
		warehouseCache := newGUIDCache()
		for _, item := range items {
			results = append(results, s.upsertBalance(txCtx, productCache, warehouseCache, item))
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

func (s *StockService) upsertBalance(ctx context.Context, productCache, warehouseCache *guidCache, item StockItem) ItemResult {
	key := fmt.Sprintf("%s:%s", item.ProductGUID, item.WarehouseGUID)

	productID, ok, err := productCache.resolve(ctx, item.ProductGUID, s.productIDByGUID)
	if err != nil {
		return Failed(key, err)
	}
	if !ok {
		return Failed(key, shared.NewReferenceError("product %s not found", item.ProductGUID))
	}

	warehouseID, ok, err := warehouseCache.resolve(ctx, item.WarehouseGUID, s.warehouseIDByGUID)
	if err != nil {
		return Failed(key, err)
	}
	if !ok {
		return Failed(key, shared.NewReferenceError("warehouse %s not found", item.WarehouseGUID))
	}

	balance, err := s.stock.FindByProductAndWarehouse(ctx, productID, warehouseID)
	switch {
	case err == nil:
		if err := balance.Apply(item.Quantity, item.Reserved, item.UpdatedAt); err != nil {
			return Failed(key, err)
		}
	case isNotFound(err):
		balance, err = inventory.NewStockBalance(productID, warehouseID, item.Quantity, item.Reserved, item.UpdatedAt)
		if err != nil {
			return Failed(key, err)
		}
	default:
		return Failed(key, err)
	}

	if err := s.stock.Upsert(ctx, balance); err != nil {
		return Failed(key, err)
	}
	return OK(key)
}

func (s *StockService) productIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	product, err := s.products.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return product.ID, nil
}

func (s *StockService) warehouseIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	warehouse, err := s.warehouses.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return warehouse.ID, nil
}
