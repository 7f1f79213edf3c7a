package party

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
)

// Warehouse represents a stock location mastered by the 1C ledger system
type Warehouse struct {
	shared.SyncedEntity
	Name     string `gorm:"type:varchar(255);not null"`
	Code     string `gorm:"type:varchar(50)"`
	Address  string `gorm:"type:varchar(1000)"`
	IsActive bool   `gorm:"not null;default:true"`
	IsDefault bool  `gorm:"not null;default:false"`
	IsPickup  bool  `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// WarehouseSnapshot carries the mutable warehouse fields of one ledger item
type WarehouseSnapshot struct {
	Name      string
	Code      string
	Address   string
	IsActive  bool
	IsDefault bool
	IsPickup  bool
}

// NewWarehouse creates a warehouse from a ledger snapshot
func NewWarehouse(guid string, snap WarehouseSnapshot) (*Warehouse, error) {
	if guid == "" {
		return nil, shared.NewValidationError("warehouse guid cannot be empty")
	}
	if snap.Name == "" {
		return nil, shared.NewValidationError("warehouse name cannot be empty")
	}
	w := &Warehouse{SyncedEntity: shared.NewSyncedEntity(guid)}
	w.apply(snap)
	return w, nil
}

// Apply replaces the mutable fields from a fresh ledger snapshot
func (w *Warehouse) Apply(snap WarehouseSnapshot) error {
	if snap.Name == "" {
		return shared.NewValidationError("warehouse name cannot be empty")
	}
	w.apply(snap)
	w.UpdatedAt = time.Now()
	return nil
}

func (w *Warehouse) apply(snap WarehouseSnapshot) {
	w.Name = snap.Name
	w.Code = snap.Code
	w.Address = snap.Address
	w.IsActive = snap.IsActive
	w.IsDefault = snap.IsDefault
	w.IsPickup = snap.IsPickup
}
