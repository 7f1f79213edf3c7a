package party

import (
	"context"

	"github.com/google/uuid"
)

// CounterpartyRepository defines persistence for counterparties
type CounterpartyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Counterparty, error)
	FindByGUID(ctx context.Context, guid string) (*Counterparty, error)
	Save(ctx context.Context, counterparty *Counterparty) error
}

// AddressRepository defines persistence for delivery addresses
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryAddress, error)

	// ReplaceForCounterparty deletes the counterparty's addresses and inserts
	// the given set in one sweep
	ReplaceForCounterparty(ctx context.Context, counterpartyID uuid.UUID, addresses []*DeliveryAddress) error
}

// WarehouseRepository defines persistence for warehouses
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindByGUID(ctx context.Context, guid string) (*Warehouse, error)
	Save(ctx context.Context, warehouse *Warehouse) error
}

// PriceTypeRepository defines persistence for price types
type PriceTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PriceType, error)
	FindByGUID(ctx context.Context, guid string) (*PriceType, error)
	Save(ctx context.Context, priceType *PriceType) error
}

// ContractRepository defines persistence for client contracts
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ClientContract, error)
	FindByGUID(ctx context.Context, guid string) (*ClientContract, error)
	Save(ctx context.Context, contract *ClientContract) error
}

// AgreementRepository defines persistence for client agreements
type AgreementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ClientAgreement, error)
	FindByGUID(ctx context.Context, guid string) (*ClientAgreement, error)
	Save(ctx context.Context, agreement *ClientAgreement) error
}

// BuyerProfileRepository defines persistence for buyer defaults
type BuyerProfileRepository interface {
	FindByBuyerID(ctx context.Context, buyerID uuid.UUID) (*BuyerProfile, error)
}
