package sync

import (
	"context"

	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AgreementService reconciles the agreement feed. Each item is a triple of
// optional price type, contract, and agreement; the pieces are processed in
// dependency order inside the item so that the agreement sees what the same
// item just created. The counterparty of a contract is a hard dependency;
// an agreement's warehouse and price type links are soft.
type AgreementService struct {
	counterparties party.CounterpartyRepository
	contracts      party.ContractRepository
	agreements     party.AgreementRepository
	priceTypes     party.PriceTypeRepository
	warehouses     party.WarehouseRepository
	tx             shared.TransactionManager
	recorder       *RunRecorder
	log            *zap.Logger
}

// NewAgreementService creates an AgreementService
func NewAgreementService(
	counterparties party.CounterpartyRepository,
	contracts party.ContractRepository,
	agreements party.AgreementRepository,
	priceTypes party.PriceTypeRepository,
	warehouses party.WarehouseRepository,
	tx shared.TransactionManager,
	recorder *RunRecorder,
	log *zap.Logger,
) *AgreementService {
	return &AgreementService{
		counterparties: counterparties,
		contracts:      contracts,
		agreements:     agreements,
		priceTypes:     priceTypes,
		warehouses:     warehouses,
		tx:             tx,
		recorder:       recorder,
		log:            log.Named("sync.agreement"),
	}
}

type agreementCaches struct {
	counterparties *guidCache
	contracts      *guidCache
	priceTypes     *guidCache
	warehouses     *guidCache
}

// Sync upserts an agreement batch inside one transaction
func (s *AgreementService) Sync(ctx context.Context, items []AgreementItem) ([]ItemResult, error) {
	run := s.recorder.Start(ctx, "agreements", syncrun.DirectionImport, map[string]any{"count": len(items)})

	results := make([]ItemResult, 0, len(items))
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		caches := agreementCaches{
			counterparties: newGUIDCache(),
			contracts:      newGUIDCache(),
			priceTypes:     newGUIDCache(),
			warehouses:     newGUIDCache(),
		}
		for _, item := range items {
			results = append(results, s.upsertTriple(txCtx, caches, item))
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

func (s *AgreementService) upsertTriple(ctx context.Context, caches agreementCaches, item AgreementItem) ItemResult {
	key := item.Key()

	if item.PriceType != nil {
		if err := s.upsertPriceType(ctx, caches.priceTypes, *item.PriceType); err != nil {
			return Failed(key, err)
		}
	}

	contractID, contractCounterpartyID, err := s.upsertContract(ctx, caches, item.Contract)
	if err != nil {
		return Failed(key, err)
	}

	if err := s.upsertAgreement(ctx, caches, item.Agreement, contractID, contractCounterpartyID); err != nil {
		return Failed(key, err)
	}
	return OK(key)
}

func (s *AgreementService) upsertPriceType(ctx context.Context, cache *guidCache, payload PriceTypePayload) error {
	priceType, err := s.priceTypes.FindByGUID(ctx, payload.GUID)
	switch {
	case err == nil:
		if err := priceType.Apply(payload.Name, payload.Currency, boolOrTrue(payload.IsActive)); err != nil {
			return err
		}
	case isNotFound(err):
		priceType, err = party.NewPriceType(payload.GUID, payload.Name, payload.Currency, boolOrTrue(payload.IsActive))
		if err != nil {
			return err
		}
	default:
		return err
	}
	if err := s.priceTypes.Save(ctx, priceType); err != nil {
		return err
	}
	cache.put(payload.GUID, priceType.ID)
	return nil
}

func (s *AgreementService) upsertContract(ctx context.Context, caches agreementCaches, payload ContractPayload) (uuid.UUID, uuid.UUID, error) {
	// The owning counterparty is a hard dependency: a contract without it
	// cannot be meaningfully created.
	counterpartyID, ok, err := caches.counterparties.resolve(ctx, payload.CounterpartyGUID, s.counterpartyIDByGUID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, uuid.Nil, shared.NewReferenceError("counterparty %s not found", payload.CounterpartyGUID)
	}

	contract, err := s.contracts.FindByGUID(ctx, payload.GUID)
	switch {
	case err == nil:
		if err := contract.Apply(counterpartyID, payload.Name, payload.Number, payload.Date, boolOrTrue(payload.IsActive)); err != nil {
			return uuid.Nil, uuid.Nil, err
		}
	case isNotFound(err):
		contract, err = party.NewClientContract(payload.GUID, counterpartyID, payload.Name, payload.Number, payload.Date, boolOrTrue(payload.IsActive))
		if err != nil {
			return uuid.Nil, uuid.Nil, err
		}
	default:
		return uuid.Nil, uuid.Nil, err
	}

	if err := s.contracts.Save(ctx, contract); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	caches.contracts.put(payload.GUID, contract.ID)
	return contract.ID, counterpartyID, nil
}

func (s *AgreementService) upsertAgreement(ctx context.Context, caches agreementCaches, payload AgreementPayload, contractID, contractCounterpartyID uuid.UUID) error {
	// The agreement's counterparty defaults to the contract's owner. When
	// supplied explicitly it must exist and must agree with the contract.
	counterpartyID := contractCounterpartyID
	if payload.CounterpartyGUID != "" {
		id, ok, err := caches.counterparties.resolve(ctx, payload.CounterpartyGUID, s.counterpartyIDByGUID)
		if err != nil {
			return err
		}
		if !ok {
			return shared.NewReferenceError("counterparty %s not found", payload.CounterpartyGUID)
		}
		if id != contractCounterpartyID {
			return shared.NewValidationError("agreement counterparty does not match contract counterparty")
		}
		counterpartyID = id
	}

	// An explicitly linked contract must belong to the agreement's
	// counterparty, same as the item's own contract.
	agreementContractID := contractID
	if payload.ContractGUID != "" {
		id, ok, err := caches.contracts.resolve(ctx, payload.ContractGUID, s.contractIDByGUID)
		if err != nil {
			return err
		}
		if ok {
			if id != contractID {
				linked, err := s.contracts.FindByID(ctx, id)
				if err != nil {
					return err
				}
				if linked.CounterpartyID != counterpartyID {
					return shared.NewValidationError("agreement contract does not belong to the agreement counterparty")
				}
			}
			agreementContractID = id
		}
	}

	// Warehouse and price type links are soft: a missing target leaves the
	// link empty with a diagnostic.
	var warehouseID *uuid.UUID
	if payload.WarehouseGUID != "" {
		id, ok, err := caches.warehouses.resolve(ctx, payload.WarehouseGUID, s.warehouseIDByGUID)
		if err != nil {
			return err
		}
		if ok {
			warehouseID = &id
		} else {
			s.log.Debug("agreement warehouse not found, link left empty",
				zap.String("agreement_guid", payload.GUID), zap.String("warehouse_guid", payload.WarehouseGUID))
		}
	}

	var priceTypeID *uuid.UUID
	if payload.PriceTypeGUID != "" {
		id, ok, err := caches.priceTypes.resolve(ctx, payload.PriceTypeGUID, s.priceTypeIDByGUID)
		if err != nil {
			return err
		}
		if ok {
			priceTypeID = &id
		} else {
			s.log.Debug("agreement price type not found, link left empty",
				zap.String("agreement_guid", payload.GUID), zap.String("price_type_guid", payload.PriceTypeGUID))
		}
	}

	snap := party.AgreementSnapshot{
		Name:           payload.Name,
		CounterpartyID: &counterpartyID,
		ContractID:     &agreementContractID,
		WarehouseID:    warehouseID,
		PriceTypeID:    priceTypeID,
		Currency:       payload.Currency,
		IsActive:       boolOrTrue(payload.IsActive),
	}

	agreement, err := s.agreements.FindByGUID(ctx, payload.GUID)
	switch {
	case err == nil:
		if err := agreement.Apply(snap); err != nil {
			return err
		}
	case isNotFound(err):
		agreement, err = party.NewClientAgreement(payload.GUID, snap)
		if err != nil {
			return err
		}
	default:
		return err
	}
	return s.agreements.Save(ctx, agreement)
}

func (s *AgreementService) counterpartyIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	c, err := s.counterparties.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return c.ID, nil
}

func (s *AgreementService) contractIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	c, err := s.contracts.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return c.ID, nil
}

func (s *AgreementService) warehouseIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	w, err := s.warehouses.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return w.ID, nil
}

func (s *AgreementService) priceTypeIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	t, err := s.priceTypes.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return t.ID, nil
}
