package sync

import (
	"context"
	"encoding/json"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"go.uber.org/zap"
)

// RunRecorder writes the sync run ledger. Every write is best-effort: a
// ledger failure is logged and swallowed so it can never block or roll back
// the batch it describes.
type RunRecorder struct {
	runs syncrun.Repository
	log  *zap.Logger
}

// NewRunRecorder creates a RunRecorder
func NewRunRecorder(runs syncrun.Repository, log *zap.Logger) *RunRecorder {
	return &RunRecorder{runs: runs, log: log.Named("syncrun")}
}

// Start opens a run record for a batch. Returns nil when the ledger write
// fails; callers carry on without a run.
func (r *RunRecorder) Start(ctx context.Context, entity string, direction syncrun.Direction, meta map[string]any) *syncrun.SyncRun {
	run := syncrun.NewSyncRun(entity, direction, marshalMeta(meta))
	if err := r.runs.Create(ctx, run); err != nil {
		r.log.Warn("failed to create sync run",
			zap.String("entity", entity),
			zap.String("direction", string(direction)),
			zap.Error(err))
		return nil
	}
	return run
}

// Complete finalizes a run with per-item results and derived aggregate
// status. No-op when the run was never created.
func (r *RunRecorder) Complete(ctx context.Context, run *syncrun.SyncRun, results []ItemResult, notes string) {
	if run == nil {
		return
	}
	items := make([]syncrun.SyncRunItem, 0, len(results))
	for _, res := range results {
		item := syncrun.SyncRunItem{RunID: run.ID, Key: res.Key, Status: string(res.Status), Error: res.Error}
		item.BaseEntity = shared.NewBaseEntity()
		items = append(items, item)
	}
	if len(items) > 0 {
		if err := r.runs.AddItems(ctx, items); err != nil {
			r.log.Warn("failed to write sync run items", zap.String("run_id", run.ID.String()), zap.Error(err))
		}
	}

	total, errors := Tally(results)
	run.Finalize(total, errors, notes)
	if err := r.runs.Update(ctx, run); err != nil {
		r.log.Warn("failed to finalize sync run", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

// Fail closes a run as FAILED when the batch aborted before any item was
// processed (schema violation, unexpected error).
func (r *RunRecorder) Fail(ctx context.Context, run *syncrun.SyncRun, batchErr error) {
	if run == nil {
		return
	}
	run.MarkFailed(batchErr.Error())
	if err := r.runs.Update(ctx, run); err != nil {
		r.log.Warn("failed to mark sync run failed", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

func marshalMeta(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(raw)
}
