package sync

import (
	"context"

	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"go.uber.org/zap"
)

// WarehouseService reconciles the warehouse feed
type WarehouseService struct {
	warehouses party.WarehouseRepository
	tx         shared.TransactionManager
	recorder   *RunRecorder
	log        *zap.Logger
}

// NewWarehouseService creates a WarehouseService
func NewWarehouseService(warehouses party.WarehouseRepository, tx shared.TransactionManager, recorder *RunRecorder, log *zap.Logger) *WarehouseService {
	return &WarehouseService{
		warehouses: warehouses,
		tx:         tx,
		recorder:   recorder,
		log:        log.Named("sync.warehouse"),
	}
}

// Sync upserts a warehouse batch inside one transaction
func (s *WarehouseService) Sync(ctx context.Context, items []WarehouseItem) ([]ItemResult, error) {
	run := s.recorder.Start(ctx, "warehouses", syncrun.DirectionImport, map[string]any{"count": len(items)})

	results := make([]ItemResult, 0, len(items))
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, item := range items {
			results = append(results, s.upsert(txCtx, item))
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

func (s *WarehouseService) upsert(ctx context.Context, item WarehouseItem) ItemResult {
	snap := party.WarehouseSnapshot{
		Name:      item.Name,
		Code:      item.Code,
		Address:   item.Address,
		IsActive:  boolOrTrue(item.IsActive),
		IsDefault: item.IsDefault,
		IsPickup:  item.IsPickup,
	}

	warehouse, err := s.warehouses.FindByGUID(ctx, item.GUID)
	switch {
	case err == nil:
		if err := warehouse.Apply(snap); err != nil {
			return Failed(item.GUID, err)
		}
	case isNotFound(err):
		warehouse, err = party.NewWarehouse(item.GUID, snap)
		if err != nil {
			return Failed(item.GUID, err)
		}
	default:
		return Failed(item.GUID, err)
	}

	if err := s.warehouses.Save(ctx, warehouse); err != nil {
		return Failed(item.GUID, err)
	}
	return OK(item.GUID)
}
