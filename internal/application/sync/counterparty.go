package sync

import (
	"context"

	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"go.uber.org/zap"
)

// CounterpartyService reconciles the counterparty feed together with each
// counterparty's nested delivery addresses.
type CounterpartyService struct {
	counterparties party.CounterpartyRepository
	addresses      party.AddressRepository
	tx             shared.TransactionManager
	recorder       *RunRecorder
	log            *zap.Logger
}

// NewCounterpartyService creates a CounterpartyService
func NewCounterpartyService(
	counterparties party.CounterpartyRepository,
	addresses party.AddressRepository,
	tx shared.TransactionManager,
	recorder *RunRecorder,
	log *zap.Logger,
) *CounterpartyService {
	return &CounterpartyService{
		counterparties: counterparties,
		addresses:      addresses,
		tx:             tx,
		recorder:       recorder,
		log:            log.Named("sync.counterparty"),
	}
}

// Sync upserts a counterparty batch inside one transaction
func (s *CounterpartyService) Sync(ctx context.Context, items []CounterpartyItem) ([]ItemResult, error) {
	run := s.recorder.Start(ctx, "counterparties", syncrun.DirectionImport, map[string]any{"count": len(items)})

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

func (s *CounterpartyService) upsert(ctx context.Context, item CounterpartyItem) ItemResult {
	for _, addr := range item.Addresses {
		if addr.Address == "" {
			return Failed(item.GUID, shared.NewValidationError("delivery address cannot be empty"))
		}
	}

	snap := party.CounterpartySnapshot{
		Name:     item.Name,
		FullName: item.FullName,
		INN:      item.INN,
		KPP:      item.KPP,
		Phone:    item.Phone,
		Email:    item.Email,
		IsActive: boolOrTrue(item.IsActive),
	}

	counterparty, err := s.counterparties.FindByGUID(ctx, item.GUID)
	switch {
	case err == nil:
		if err := counterparty.Apply(snap); err != nil {
			return Failed(item.GUID, err)
		}
	case isNotFound(err):
		counterparty, err = party.NewCounterparty(item.GUID, snap)
		if err != nil {
			return Failed(item.GUID, err)
		}
	default:
		return Failed(item.GUID, err)
	}

	if err := s.counterparties.Save(ctx, counterparty); err != nil {
		return Failed(item.GUID, err)
	}

	// Addresses without a GUID have no idempotency key of their own; the
	// collection is replaced wholesale under the parent counterparty.
	addresses := make([]*party.DeliveryAddress, 0, len(item.Addresses))
	for _, payload := range item.Addresses {
		address, err := party.NewDeliveryAddress(payload.GUID, counterparty.ID, payload.Address, payload.Comment, boolOrTrue(payload.IsActive))
		if err != nil {
			return Failed(item.GUID, err)
		}
		addresses = append(addresses, address)
	}
	if err := s.addresses.ReplaceForCounterparty(ctx, counterparty.ID, addresses); err != nil {
		return Failed(item.GUID, err)
	}
	return OK(item.GUID)
}
