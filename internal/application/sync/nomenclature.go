package sync

import (
	"context"

	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NomenclatureService reconciles the nomenclature feed: hierarchical
// product groups and products with their nested base units and packages.
// Groups are processed before products so that in-batch parents are visible
// to the items that reference them.
type NomenclatureService struct {
	groups   catalog.GroupRepository
	units    catalog.UnitRepository
	products catalog.ProductRepository
	packages catalog.PackageRepository
	tx       shared.TransactionManager
	recorder *RunRecorder
	log      *zap.Logger
}

// NewNomenclatureService creates a NomenclatureService
func NewNomenclatureService(
	groups catalog.GroupRepository,
	units catalog.UnitRepository,
	products catalog.ProductRepository,
	packages catalog.PackageRepository,
	tx shared.TransactionManager,
	recorder *RunRecorder,
	log *zap.Logger,
) *NomenclatureService {
	return &NomenclatureService{
		groups:   groups,
		units:    units,
		products: products,
		packages: packages,
		tx:       tx,
		recorder: recorder,
		log:      log.Named("sync.nomenclature"),
	}
}

// Sync upserts a nomenclature batch inside one transaction. Item failures
// are recorded and skipped; the returned error is reserved for batch-level
// failures (the transaction itself), which abort the whole call.
func (s *NomenclatureService) Sync(ctx context.Context, items []NomenclatureItem) ([]ItemResult, error) {
	run := s.recorder.Start(ctx, "nomenclature", syncrun.DirectionImport, map[string]any{"count": len(items)})

	results := make([]ItemResult, 0, len(items))
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		groupCache := newGUIDCache()
		unitCache := newGUIDCache()

		// Groups first: products in the same batch may reference them.
		for _, item := range items {
			if item.IsGroup {
				results = append(results, s.upsertGroup(txCtx, groupCache, item))
			}
		}
		for _, item := range items {
			if !item.IsGroup {
				results = append(results, s.upsertProduct(txCtx, groupCache, unitCache, item))
			}
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

func (s *NomenclatureService) upsertGroup(ctx context.Context, cache *guidCache, item NomenclatureItem) ItemResult {
	// The parent link is a soft dependency: a missing parent leaves the
	// link empty instead of failing the item.
	var parentID *uuid.UUID
	if item.ParentGUID != "" && item.ParentGUID != item.GUID {
		id, ok, err := cache.resolve(ctx, item.ParentGUID, s.groupIDByGUID)
		if err != nil {
			return Failed(item.GUID, err)
		}
		if ok {
			parentID = &id
		} else {
			s.log.Debug("group parent not found, link left empty",
				zap.String("guid", item.GUID), zap.String("parent_guid", item.ParentGUID))
		}
	}

	group, err := s.groups.FindByGUID(ctx, item.GUID)
	switch {
	case err == nil:
		if err := group.Apply(item.Name, parentID, boolOrTrue(item.IsActive)); err != nil {
			return Failed(item.GUID, err)
		}
	case isNotFound(err):
		group, err = catalog.NewProductGroup(item.GUID, item.Name)
		if err != nil {
			return Failed(item.GUID, err)
		}
		group.ParentID = parentID
		group.IsActive = boolOrTrue(item.IsActive)
	default:
		return Failed(item.GUID, err)
	}

	if err := s.groups.Save(ctx, group); err != nil {
		return Failed(item.GUID, err)
	}
	cache.put(item.GUID, group.ID)
	return OK(item.GUID)
}

func (s *NomenclatureService) upsertProduct(ctx context.Context, groupCache, unitCache *guidCache, item NomenclatureItem) ItemResult {
	// Validate nested packages up front so a bad package fails the item
	// before anything is written.
	for _, pkg := range item.Packages {
		if pkg.Name == "" {
			return Failed(item.GUID, shared.NewValidationError("package name cannot be empty"))
		}
		if !pkg.Multiplier.IsPositive() {
			return Failed(item.GUID, shared.NewValidationError("package %q multiplier must be positive", pkg.Name))
		}
	}

	// The product group is a soft dependency.
	var groupID *uuid.UUID
	if item.ParentGUID != "" {
		id, ok, err := groupCache.resolve(ctx, item.ParentGUID, s.groupIDByGUID)
		if err != nil {
			return Failed(item.GUID, err)
		}
		if ok {
			groupID = &id
		} else {
			s.log.Debug("product group not found, link left empty",
				zap.String("guid", item.GUID), zap.String("group_guid", item.ParentGUID))
		}
	}

	// The base unit arrives nested and is upserted alongside the product.
	var baseUnitID *uuid.UUID
	if item.BaseUnit != nil {
		id, err := s.upsertUnit(ctx, unitCache, *item.BaseUnit)
		if err != nil {
			return Failed(item.GUID, err)
		}
		baseUnitID = &id
	}

	snap := catalog.ProductSnapshot{
		Name:       item.Name,
		Code:       item.Code,
		Article:    item.Article,
		SKU:        item.SKU,
		GroupID:    groupID,
		BaseUnitID: baseUnitID,
		IsWeight:   item.IsWeight,
		IsService:  item.IsService,
		IsActive:   boolOrTrue(item.IsActive),
	}

	product, err := s.products.FindByGUID(ctx, item.GUID)
	switch {
	case err == nil:
		if err := product.Apply(snap); err != nil {
			return Failed(item.GUID, err)
		}
	case isNotFound(err):
		product, err = catalog.NewProduct(item.GUID, snap)
		if err != nil {
			return Failed(item.GUID, err)
		}
	default:
		return Failed(item.GUID, err)
	}

	if err := s.products.Save(ctx, product); err != nil {
		return Failed(item.GUID, err)
	}

	if err := s.replacePackages(ctx, unitCache, product.ID, item.Packages); err != nil {
		return Failed(item.GUID, err)
	}
	return OK(item.GUID)
}

// replacePackages swaps the product's package collection for the snapshot's.
// Packages without a GUID have no idempotency key of their own; replacing
// the collection keeps repeated resyncs from accumulating duplicates.
func (s *NomenclatureService) replacePackages(ctx context.Context, unitCache *guidCache, productID uuid.UUID, payloads []PackagePayload) error {
	packages := make([]*catalog.ProductPackage, 0, len(payloads))
	for _, payload := range payloads {
		var unitID *uuid.UUID
		if payload.UnitGUID != "" {
			id, ok, err := unitCache.resolve(ctx, payload.UnitGUID, s.unitIDByGUID)
			if err != nil {
				return err
			}
			if ok {
				unitID = &id
			}
		}
		pkg, err := catalog.NewProductPackage(payload.GUID, productID, unitID, payload.Name, payload.Multiplier, payload.IsDefault)
		if err != nil {
			return err
		}
		packages = append(packages, pkg)
	}
	return s.packages.ReplaceForProduct(ctx, productID, packages)
}

func (s *NomenclatureService) upsertUnit(ctx context.Context, cache *guidCache, payload UnitPayload) (uuid.UUID, error) {
	if id, ok := cache.ids[payload.GUID]; ok {
		return id, nil
	}
	unit, err := s.units.FindByGUID(ctx, payload.GUID)
	switch {
	case err == nil:
		if err := unit.Apply(payload.Name, payload.Code); err != nil {
			return uuid.Nil, err
		}
	case isNotFound(err):
		unit, err = catalog.NewUnit(payload.GUID, payload.Name, payload.Code)
		if err != nil {
			return uuid.Nil, err
		}
	default:
		return uuid.Nil, err
	}
	if err := s.units.Save(ctx, unit); err != nil {
		return uuid.Nil, err
	}
	cache.put(payload.GUID, unit.ID)
	return unit.ID, nil
}

func (s *NomenclatureService) groupIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	group, err := s.groups.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return group.ID, nil
}

func (s *NomenclatureService) unitIDByGUID(ctx context.Context, guid string) (uuid.UUID, error) {
	unit, err := s.units.FindByGUID(ctx, guid)
	if err != nil {
		return uuid.Nil, err
	}
	return unit.ID, nil
}
