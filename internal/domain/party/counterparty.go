package party

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Counterparty represents a legal entity the portal trades with, mastered
// by the 1C ledger system.
type Counterparty struct {
	shared.SyncedEntity
	Name     string `gorm:"type:varchar(500);not null"`
	FullName string `gorm:"type:varchar(1000)"`
	INN      string `gorm:"type:varchar(12);index"`
	KPP      string `gorm:"type:varchar(9)"`
	Phone    string `gorm:"type:varchar(50)"`
	Email    string `gorm:"type:varchar(255)"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Counterparty) TableName() string {
	return "counterparties"
}

// CounterpartySnapshot carries the mutable counterparty fields of one ledger item
type CounterpartySnapshot struct {
	Name     string
	FullName string
	INN      string
	KPP      string
	Phone    string
	Email    string
	IsActive bool
}

// NewCounterparty creates a counterparty from a ledger snapshot
func NewCounterparty(guid string, snap CounterpartySnapshot) (*Counterparty, error) {
	if guid == "" {
		return nil, shared.NewValidationError("counterparty guid cannot be empty")
	}
	if snap.Name == "" {
		return nil, shared.NewValidationError("counterparty name cannot be empty")
	}
	c := &Counterparty{SyncedEntity: shared.NewSyncedEntity(guid)}
	c.apply(snap)
	return c, nil
}

// Apply replaces the mutable fields from a fresh ledger snapshot
func (c *Counterparty) Apply(snap CounterpartySnapshot) error {
	if snap.Name == "" {
		return shared.NewValidationError("counterparty name cannot be empty")
	}
	c.apply(snap)
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Counterparty) apply(snap CounterpartySnapshot) {
	c.Name = snap.Name
	c.FullName = snap.FullName
	c.INN = snap.INN
	c.KPP = snap.KPP
	c.Phone = snap.Phone
	c.Email = snap.Email
	c.IsActive = snap.IsActive
}

// DeliveryAddress represents a delivery point of a counterparty. Addresses
// may arrive without a GUID; the collection is replaced wholesale on each
// parent counterparty upsert.
type DeliveryAddress struct {
	shared.BaseEntity
	GUID           string    `gorm:"type:varchar(64);index"`
	CounterpartyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Address        string    `gorm:"type:varchar(1000);not null"`
	Comment        string    `gorm:"type:varchar(500)"`
	IsActive       bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (DeliveryAddress) TableName() string {
	return "delivery_addresses"
}

// NewDeliveryAddress creates a delivery address for a counterparty
func NewDeliveryAddress(guid string, counterpartyID uuid.UUID, address, comment string, isActive bool) (*DeliveryAddress, error) {
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("address counterparty cannot be empty")
	}
	if address == "" {
		return nil, shared.NewValidationError("address cannot be empty")
	}
	return &DeliveryAddress{
		BaseEntity:     shared.NewBaseEntity(),
		GUID:           guid,
		CounterpartyID: counterpartyID,
		Address:        address,
		Comment:        comment,
		IsActive:       isActive,
	}, nil
}

// BelongsTo reports whether the address belongs to the given counterparty
func (a *DeliveryAddress) BelongsTo(counterpartyID uuid.UUID) bool {
	return a.CounterpartyID == counterpartyID
}
