package catalog

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Product represents a sellable item (nomenclature) mastered by the 1C
// ledger system. Products are never created locally: every row originates
// from a reconciliation batch and is keyed by its ledger GUID.
type Product struct {
	shared.SyncedEntity
	Name       string     `gorm:"type:varchar(500);not null"`
	Code       string     `gorm:"type:varchar(50);index"`
	Article    string     `gorm:"type:varchar(100);index"`
	SKU        string     `gorm:"type:varchar(100)"`
	GroupID    *uuid.UUID `gorm:"type:uuid;index"`
	BaseUnitID *uuid.UUID `gorm:"type:uuid"`
	IsWeight   bool       `gorm:"not null;default:false"`
	IsService  bool       `gorm:"not null;default:false"`
	IsActive   bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductSnapshot carries the mutable product fields of one ledger item
type ProductSnapshot struct {
	Name       string
	Code       string
	Article    string
	SKU        string
	GroupID    *uuid.UUID
	BaseUnitID *uuid.UUID
	IsWeight   bool
	IsService  bool
	IsActive   bool
}

// NewProduct creates a new product from a ledger snapshot
func NewProduct(guid string, snap ProductSnapshot) (*Product, error) {
	if guid == "" {
		return nil, shared.NewValidationError("product guid cannot be empty")
	}
	if snap.Name == "" {
		return nil, shared.NewValidationError("product name cannot be empty")
	}
	p := &Product{SyncedEntity: shared.NewSyncedEntity(guid)}
	p.apply(snap)
	return p, nil
}

// Apply replaces the mutable fields from a fresh ledger snapshot
func (p *Product) Apply(snap ProductSnapshot) error {
	if snap.Name == "" {
		return shared.NewValidationError("product name cannot be empty")
	}
	p.apply(snap)
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Product) apply(snap ProductSnapshot) {
	p.Name = snap.Name
	p.Code = snap.Code
	p.Article = snap.Article
	p.SKU = snap.SKU
	p.GroupID = snap.GroupID
	p.BaseUnitID = snap.BaseUnitID
	p.IsWeight = snap.IsWeight
	p.IsService = snap.IsService
	p.IsActive = snap.IsActive
}
