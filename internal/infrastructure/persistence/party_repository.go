package persistence

import (
	"context"
	"errors"

	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func findByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) (*T, error) {
	var entity T
	if err := conn(ctx, db).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func findByGUID[T any](ctx context.Context, db *gorm.DB, guid string) (*T, error) {
	var entity T
	if err := conn(ctx, db).First(&entity, "guid = ?", guid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// GormCounterpartyRepository implements party.CounterpartyRepository using GORM
type GormCounterpartyRepository struct {
	db *gorm.DB
}

// NewGormCounterpartyRepository creates a new GormCounterpartyRepository
func NewGormCounterpartyRepository(db *gorm.DB) *GormCounterpartyRepository {
	return &GormCounterpartyRepository{db: db}
}

// FindByID finds a counterparty by its local ID
func (r *GormCounterpartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Counterparty, error) {
	return findByID[party.Counterparty](ctx, r.db, id)
}

// FindByGUID finds a counterparty by its ledger GUID
func (r *GormCounterpartyRepository) FindByGUID(ctx context.Context, guid string) (*party.Counterparty, error) {
	return findByGUID[party.Counterparty](ctx, r.db, guid)
}

// Save creates or updates a counterparty
func (r *GormCounterpartyRepository) Save(ctx context.Context, counterparty *party.Counterparty) error {
	return conn(ctx, r.db).Save(counterparty).Error
}

// GormAddressRepository implements party.AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds a delivery address by its local ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.DeliveryAddress, error) {
	return findByID[party.DeliveryAddress](ctx, r.db, id)
}

// ReplaceForCounterparty deletes the counterparty's addresses and inserts the given set
func (r *GormAddressRepository) ReplaceForCounterparty(ctx context.Context, counterpartyID uuid.UUID, addresses []*party.DeliveryAddress) error {
	db := conn(ctx, r.db)
	if err := db.Delete(&party.DeliveryAddress{}, "counterparty_id = ?", counterpartyID).Error; err != nil {
		return err
	}
	if len(addresses) == 0 {
		return nil
	}
	return db.Create(addresses).Error
}

// GormWarehouseRepository implements party.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by its local ID
func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Warehouse, error) {
	return findByID[party.Warehouse](ctx, r.db, id)
}

// FindByGUID finds a warehouse by its ledger GUID
func (r *GormWarehouseRepository) FindByGUID(ctx context.Context, guid string) (*party.Warehouse, error) {
	return findByGUID[party.Warehouse](ctx, r.db, guid)
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *party.Warehouse) error {
	return conn(ctx, r.db).Save(warehouse).Error
}

// GormPriceTypeRepository implements party.PriceTypeRepository using GORM
type GormPriceTypeRepository struct {
	db *gorm.DB
}

// NewGormPriceTypeRepository creates a new GormPriceTypeRepository
func NewGormPriceTypeRepository(db *gorm.DB) *GormPriceTypeRepository {
	return &GormPriceTypeRepository{db: db}
}

// FindByID finds a price type by its local ID
func (r *GormPriceTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.PriceType, error) {
	return findByID[party.PriceType](ctx, r.db, id)
}

// FindByGUID finds a price type by its ledger GUID
func (r *GormPriceTypeRepository) FindByGUID(ctx context.Context, guid string) (*party.PriceType, error) {
	return findByGUID[party.PriceType](ctx, r.db, guid)
}

// Save creates or updates a price type
func (r *GormPriceTypeRepository) Save(ctx context.Context, priceType *party.PriceType) error {
	return conn(ctx, r.db).Save(priceType).Error
}

// GormContractRepository implements party.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by its local ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.ClientContract, error) {
	return findByID[party.ClientContract](ctx, r.db, id)
}

// FindByGUID finds a contract by its ledger GUID
func (r *GormContractRepository) FindByGUID(ctx context.Context, guid string) (*party.ClientContract, error) {
	return findByGUID[party.ClientContract](ctx, r.db, guid)
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, contract *party.ClientContract) error {
	return conn(ctx, r.db).Save(contract).Error
}

// GormAgreementRepository implements party.AgreementRepository using GORM
type GormAgreementRepository struct {
	db *gorm.DB
}

// NewGormAgreementRepository creates a new GormAgreementRepository
func NewGormAgreementRepository(db *gorm.DB) *GormAgreementRepository {
	return &GormAgreementRepository{db: db}
}

// FindByID finds an agreement by its local ID
func (r *GormAgreementRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.ClientAgreement, error) {
	return findByID[party.ClientAgreement](ctx, r.db, id)
}

// FindByGUID finds an agreement by its ledger GUID
func (r *GormAgreementRepository) FindByGUID(ctx context.Context, guid string) (*party.ClientAgreement, error) {
	return findByGUID[party.ClientAgreement](ctx, r.db, guid)
}

// Save creates or updates an agreement
func (r *GormAgreementRepository) Save(ctx context.Context, agreement *party.ClientAgreement) error {
	return conn(ctx, r.db).Save(agreement).Error
}

// GormBuyerProfileRepository implements party.BuyerProfileRepository using GORM
type GormBuyerProfileRepository struct {
	db *gorm.DB
}

// NewGormBuyerProfileRepository creates a new GormBuyerProfileRepository
func NewGormBuyerProfileRepository(db *gorm.DB) *GormBuyerProfileRepository {
	return &GormBuyerProfileRepository{db: db}
}

// FindByBuyerID finds the stored defaults of a portal account
func (r *GormBuyerProfileRepository) FindByBuyerID(ctx context.Context, buyerID uuid.UUID) (*party.BuyerProfile, error) {
	var profile party.BuyerProfile
	if err := conn(ctx, r.db).First(&profile, "buyer_id = ?", buyerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

var (
	_ party.CounterpartyRepository = (*GormCounterpartyRepository)(nil)
	_ party.AddressRepository      = (*GormAddressRepository)(nil)
	_ party.WarehouseRepository    = (*GormWarehouseRepository)(nil)
	_ party.PriceTypeRepository    = (*GormPriceTypeRepository)(nil)
	_ party.ContractRepository     = (*GormContractRepository)(nil)
	_ party.AgreementRepository    = (*GormAgreementRepository)(nil)
	_ party.BuyerProfileRepository = (*GormBuyerProfileRepository)(nil)
)
