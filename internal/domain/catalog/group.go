package catalog

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductGroup represents a node in the hierarchical product tree mastered
// by the 1C ledger system. The parent link is a soft dependency: a group may
// arrive before its parent and is stored with the link left empty.
type ProductGroup struct {
	shared.SyncedEntity
	Name     string     `gorm:"type:varchar(255);not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
	IsActive bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductGroup) TableName() string {
	return "product_groups"
}

// NewProductGroup creates a new product group keyed by its 1C GUID
func NewProductGroup(guid, name string) (*ProductGroup, error) {
	if guid == "" {
		return nil, shared.NewValidationError("group guid cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("group name cannot be empty")
	}
	return &ProductGroup{
		SyncedEntity: shared.NewSyncedEntity(guid),
		Name:         name,
		IsActive:     true,
	}, nil
}

// Apply replaces the mutable fields from a fresh ledger snapshot
func (g *ProductGroup) Apply(name string, parentID *uuid.UUID, isActive bool) error {
	if name == "" {
		return shared.NewValidationError("group name cannot be empty")
	}
	g.Name = name
	g.ParentID = parentID
	g.IsActive = isActive
	g.UpdatedAt = time.Now()
	return nil
}
