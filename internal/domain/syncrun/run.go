package syncrun

import (
	"context"
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Direction distinguishes ledger-to-portal imports from order exports
type Direction string

const (
	DirectionImport Direction = "IMPORT"
	DirectionExport Direction = "EXPORT"
)

// Status is the lifecycle state of a sync run
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusCompleted Status = "COMPLETED"
	StatusPartial   Status = "PARTIAL"
	StatusFailed    Status = "FAILED"
)

// SyncRun records one audited execution of a reconciliation batch or export
// action. Runs are created at batch start, finalized at batch end, and
// never deleted.
type SyncRun struct {
	shared.BaseEntity
	RequestID    string    `gorm:"type:varchar(64);index"`
	Entity       string    `gorm:"type:varchar(50);not null;index"`
	Direction    Direction `gorm:"type:varchar(10);not null;index"`
	Status       Status    `gorm:"type:varchar(20);not null;index"`
	TotalCount   int       `gorm:"not null;default:0"`
	SuccessCount int       `gorm:"not null;default:0"`
	ErrorCount   int       `gorm:"not null;default:0"`
	Meta         string    `gorm:"type:text"`
	Notes        string    `gorm:"type:varchar(2000)"`
	Error        string    `gorm:"type:varchar(2000)"`
	StartedAt    time.Time `gorm:"not null"`
	FinishedAt   *time.Time
	Items        []SyncRunItem `gorm:"foreignKey:RunID"`
}

// TableName returns the table name for GORM
func (SyncRun) TableName() string {
	return "sync_runs"
}

// SyncRunItem records the outcome of a single batch item
type SyncRunItem struct {
	shared.BaseEntity
	RunID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Key    string    `gorm:"type:varchar(128);not null"`
	Status string    `gorm:"type:varchar(10);not null"`
	Error  string    `gorm:"type:varchar(2000)"`
}

// TableName returns the table name for GORM
func (SyncRunItem) TableName() string {
	return "sync_run_items"
}

// NewSyncRun starts a run record for a batch
func NewSyncRun(entity string, direction Direction, meta string) *SyncRun {
	return &SyncRun{
		BaseEntity: shared.NewBaseEntity(),
		RequestID:  uuid.NewString(),
		Entity:     entity,
		Direction:  direction,
		Status:     StatusStarted,
		Meta:       meta,
		StartedAt:  time.Now(),
	}
}

// DeriveStatus computes the aggregate run status from item counts:
// no errors means COMPLETED, no successes (with work attempted) means
// FAILED, anything in between is PARTIAL.
func DeriveStatus(total, errors int) Status {
	switch {
	case errors == 0:
		return StatusCompleted
	case errors == total && total > 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// Finalize closes the run with aggregate counts and the derived status
func (r *SyncRun) Finalize(total, errors int, notes string) {
	r.TotalCount = total
	r.ErrorCount = errors
	r.SuccessCount = total - errors
	r.Status = DeriveStatus(total, errors)
	r.Notes = notes
	now := time.Now()
	r.FinishedAt = &now
	r.Touch()
}

// MarkFailed closes the run as FAILED before any item was processed
func (r *SyncRun) MarkFailed(errMsg string) {
	r.Status = StatusFailed
	r.Error = errMsg
	now := time.Now()
	r.FinishedAt = &now
	r.Touch()
}

// Filter narrows sync run listings
type Filter struct {
	Entity    string
	Direction Direction
	Status    Status
	Limit     int
}

// Repository defines persistence for sync runs
type Repository interface {
	// Create inserts a new run
	Create(ctx context.Context, run *SyncRun) error

	// Update persists run mutations (finalization)
	Update(ctx context.Context, run *SyncRun) error

	// AddItems inserts per-item results for a run
	AddItems(ctx context.Context, items []SyncRunItem) error

	// FindByID loads a run, optionally with up to itemsLimit items
	FindByID(ctx context.Context, id uuid.UUID, includeItems bool, itemsLimit int) (*SyncRun, error)

	// List returns runs matching the filter, newest first
	List(ctx context.Context, filter Filter) ([]SyncRun, error)
}
