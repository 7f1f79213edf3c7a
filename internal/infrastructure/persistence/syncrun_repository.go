package persistence

import (
	"context"
	"errors"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultRunListLimit = 50

// GormSyncRunRepository implements syncrun.Repository using GORM. Ledger
// writes deliberately bypass the batch transaction: a rolled-back batch must
// still leave its FAILED run record behind.
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Create inserts a new run
func (r *GormSyncRunRepository) Create(ctx context.Context, run *syncrun.SyncRun) error {
	return r.db.WithContext(ctx).Omit("Items").Create(run).Error
}

// Update persists run mutations
func (r *GormSyncRunRepository) Update(ctx context.Context, run *syncrun.SyncRun) error {
	return r.db.WithContext(ctx).Omit("Items").Save(run).Error
}

// AddItems inserts per-item results for a run
func (r *GormSyncRunRepository) AddItems(ctx context.Context, items []syncrun.SyncRunItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindByID loads a run, optionally with up to itemsLimit items
func (r *GormSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID, includeItems bool, itemsLimit int) (*syncrun.SyncRun, error) {
	var run syncrun.SyncRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	if includeItems {
		query := r.db.WithContext(ctx).
			Where("run_id = ?", id).
			Order("created_at ASC")
		if itemsLimit > 0 {
			query = query.Limit(itemsLimit)
		}
		if err := query.Find(&run.Items).Error; err != nil {
			return nil, err
		}
	}
	return &run, nil
}

// List returns runs matching the filter, newest first
func (r *GormSyncRunRepository) List(ctx context.Context, filter syncrun.Filter) ([]syncrun.SyncRun, error) {
	query := r.db.WithContext(ctx).Model(&syncrun.SyncRun{})
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.Direction != "" {
		query = query.Where("direction = ?", filter.Direction)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultRunListLimit
	}

	var runs []syncrun.SyncRun
	if err := query.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

var _ syncrun.Repository = (*GormSyncRunRepository)(nil)
