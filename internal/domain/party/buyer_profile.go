package party

import (
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BuyerProfile stores a portal account's active commercial defaults. Order
// creation falls back to these per dimension when the request does not
// supply an explicit value. Account management itself lives outside this
// service; the profile is referenced by buyer ID only.
type BuyerProfile struct {
	shared.BaseEntity
	BuyerID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	CounterpartyID    *uuid.UUID `gorm:"type:uuid"`
	AgreementID       *uuid.UUID `gorm:"type:uuid"`
	ContractID        *uuid.UUID `gorm:"type:uuid"`
	WarehouseID       *uuid.UUID `gorm:"type:uuid"`
	PriceTypeID       *uuid.UUID `gorm:"type:uuid"`
	DeliveryAddressID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (BuyerProfile) TableName() string {
	return "buyer_profiles"
}
