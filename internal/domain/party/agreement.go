package party

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PriceType represents a 1C price kind (wholesale, retail, ...). Agreements
// and base prices reference it.
type PriceType struct {
	shared.SyncedEntity
	Name     string `gorm:"type:varchar(255);not null"`
	Currency string `gorm:"type:varchar(3);not null;default:'RUB'"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PriceType) TableName() string {
	return "price_types"
}

// NewPriceType creates a price type from a ledger snapshot
func NewPriceType(guid, name, currency string, isActive bool) (*PriceType, error) {
	if guid == "" {
		return nil, shared.NewValidationError("price type guid cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("price type name cannot be empty")
	}
	if currency == "" {
		currency = "RUB"
	}
	return &PriceType{
		SyncedEntity: shared.NewSyncedEntity(guid),
		Name:         name,
		Currency:     currency,
		IsActive:     isActive,
	}, nil
}

// Apply replaces the mutable fields from a fresh ledger snapshot
func (t *PriceType) Apply(name, currency string, isActive bool) error {
	if name == "" {
		return shared.NewValidationError("price type name cannot be empty")
	}
	t.Name = name
	if currency != "" {
		t.Currency = currency
	}
	t.IsActive = isActive
	t.UpdatedAt = time.Now()
	return nil
}

// ClientContract represents a contract between the seller and a counterparty.
// The counterparty link is a hard dependency: a contract cannot exist
// without its owner.
type ClientContract struct {
	shared.SyncedEntity
	CounterpartyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(500);not null"`
	Number         string    `gorm:"type:varchar(100)"`
	Date           *time.Time
	IsActive       bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ClientContract) TableName() string {
	return "client_contracts"
}

// NewClientContract creates a contract from a ledger snapshot
func NewClientContract(guid string, counterpartyID uuid.UUID, name, number string, date *time.Time, isActive bool) (*ClientContract, error) {
	if guid == "" {
		return nil, shared.NewValidationError("contract guid cannot be empty")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("contract counterparty cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("contract name cannot be empty")
	}
	return &ClientContract{
		SyncedEntity:   shared.NewSyncedEntity(guid),
		CounterpartyID: counterpartyID,
		Name:           name,
		Number:         number,
		Date:           date,
		IsActive:       isActive,
	}, nil
}

// Apply replaces the mutable fields from a fresh ledger snapshot
func (c *ClientContract) Apply(counterpartyID uuid.UUID, name, number string, date *time.Time, isActive bool) error {
	if counterpartyID == uuid.Nil {
		return shared.NewValidationError("contract counterparty cannot be empty")
	}
	if name == "" {
		return shared.NewValidationError("contract name cannot be empty")
	}
	c.CounterpartyID = counterpartyID
	c.Name = name
	c.Number = number
	c.Date = date
	c.IsActive = isActive
	c.UpdatedAt = time.Now()
	return nil
}

// ClientAgreement represents the commercial terms under which a counterparty
// buys: it cross-links counterparty, contract, warehouse and price type.
// Links other than the counterparty are soft dependencies.
type ClientAgreement struct {
	shared.SyncedEntity
	Name           string     `gorm:"type:varchar(500);not null"`
	CounterpartyID *uuid.UUID `gorm:"type:uuid;index"`
	ContractID     *uuid.UUID `gorm:"type:uuid;index"`
	WarehouseID    *uuid.UUID `gorm:"type:uuid"`
	PriceTypeID    *uuid.UUID `gorm:"type:uuid"`
	Currency       string     `gorm:"type:varchar(3);not null;default:'RUB'"`
	IsActive       bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ClientAgreement) TableName() string {
	return "client_agreements"
}

// AgreementSnapshot carries the mutable agreement fields of one ledger item
type AgreementSnapshot struct {
	Name           string
	CounterpartyID *uuid.UUID
	ContractID     *uuid.UUID
	WarehouseID    *uuid.UUID
	PriceTypeID    *uuid.UUID
	Currency       string
	IsActive       bool
}

// NewClientAgreement creates an agreement from a ledger snapshot
func NewClientAgreement(guid string, snap AgreementSnapshot) (*ClientAgreement, error) {
	if guid == "" {
		return nil, shared.NewValidationError("agreement guid cannot be empty")
	}
	if snap.Name == "" {
		return nil, shared.NewValidationError("agreement name cannot be empty")
	}
	a := &ClientAgreement{SyncedEntity: shared.NewSyncedEntity(guid)}
	a.apply(snap)
	return a, nil
}

// Apply replaces the mutable fields from a fresh ledger snapshot
func (a *ClientAgreement) Apply(snap AgreementSnapshot) error {
	if snap.Name == "" {
		return shared.NewValidationError("agreement name cannot be empty")
	}
	a.apply(snap)
	a.UpdatedAt = time.Now()
	return nil
}

func (a *ClientAgreement) apply(snap AgreementSnapshot) {
	a.Name = snap.Name
	a.CounterpartyID = snap.CounterpartyID
	a.ContractID = snap.ContractID
	a.WarehouseID = snap.WarehouseID
	a.PriceTypeID = snap.PriceTypeID
	if snap.Currency != "" {
		a.Currency = snap.Currency
	} else if a.Currency == "" {
		a.Currency = "RUB"
	}
	a.IsActive = snap.IsActive
}
