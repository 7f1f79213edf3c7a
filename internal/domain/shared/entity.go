package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the UpdatedAt timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// SyncedEntity extends BaseEntity with the stable identifier assigned by
// the 1C ledger system. The GUID is the idempotency key for reconciliation:
// the same GUID always maps to the same local row.
type SyncedEntity struct {
	BaseEntity
	GUID string `gorm:"type:varchar(64);not null;uniqueIndex"`
}

// NewSyncedEntity creates a new entity keyed by an external GUID
func NewSyncedEntity(guid string) SyncedEntity {
	return SyncedEntity{
		BaseEntity: NewBaseEntity(),
		GUID:       guid,
	}
}

// GetGUID returns the external ledger identifier
func (e *SyncedEntity) GetGUID() string {
	return e.GUID
}
