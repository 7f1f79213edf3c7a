package catalog

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
)

// Unit represents a unit of measure (pcs, kg, box) mastered by the ledger system
type Unit struct {
	shared.SyncedEntity
	Name string `gorm:"type:varchar(100);not null"`
	Code string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (Unit) TableName() string {
	return "units"
}

// NewUnit creates a new unit of measure
func NewUnit(guid, name, code string) (*Unit, error) {
	if guid == "" {
		return nil, shared.NewValidationError("unit guid cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("unit name cannot be empty")
	}
	return &Unit{
		SyncedEntity: shared.NewSyncedEntity(guid),
		Name:         name,
		Code:         code,
	}, nil
}

// Apply replaces the mutable fields from a fresh ledger snapshot
func (u *Unit) Apply(name, code string) error {
	if name == "" {
		return shared.NewValidationError("unit name cannot be empty")
	}
	u.Name = name
	u.Code = code
	u.UpdatedAt = time.Now()
	return nil
}
