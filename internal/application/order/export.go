package order

import (
	"context"
	"errors"

	"github.com/b2bportal/backend/internal/application/sync"
	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"go.uber.org/zap"
)

// ExportService drives the hand-off of orders to the 1C ledger system: the
// poller pulls queued orders, acknowledges each attempt, and pushes
// authoritative status updates back.
type ExportService struct {
	orders          order.Repository
	tx              shared.TransactionManager
	recorder        *sync.RunRecorder
	defaultPageSize int
	maxPageSize     int
	log             *zap.Logger
}

// NewExportService creates an ExportService. Page size limits guard the
// pull endpoint; zero values fall back to 50/200.
func NewExportService(
	orders order.Repository,
	tx shared.TransactionManager,
	recorder *sync.RunRecorder,
	defaultPageSize, maxPageSize int,
	log *zap.Logger,
) *ExportService {
	if defaultPageSize <= 0 {
		defaultPageSize = 50
	}
	if maxPageSize <= 0 {
		maxPageSize = 200
	}
	return &ExportService{
		orders:          orders,
		tx:              tx,
		recorder:        recorder,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		log:             log.Named("order.export"),
	}
}

// Queued returns orders awaiting hand-off, oldest first. The pull is
// read-only and safe to repeat.
func (s *ExportService) Queued(ctx context.Context, includeSent bool, limit int) ([]order.Order, error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	return s.orders.FindQueued(ctx, includeSent, limit)
}

// Acknowledge records the outcome of one export attempt. Acknowledgments
// arrive at-least-once: state transitions are idempotent, only the attempt
// counter keeps advancing on repeats.
func (s *ExportService) Acknowledge(ctx context.Context, guid string, req AckRequest) (*order.Order, error) {
	o, err := s.orders.FindByGUID(ctx, guid)
	if err != nil {
		return nil, err
	}

	if req.Error != "" {
		o.AcknowledgeFailure(req.Error)
	} else {
		o.AcknowledgeSuccess(req.Status, req.Number1c, req.Date1c, req.SentTo1cAt)
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("order acknowledged",
		zap.String("guid", o.GUID),
		zap.String("status", o.Status),
		zap.Int("attempts", o.ExportAttempts),
		zap.Bool("failed", req.Error != ""))
	return o, nil
}

// ApplyStatusBatch applies an authoritative status push. An unknown order
// GUID is a per-item error; the rest of the batch proceeds.
func (s *ExportService) ApplyStatusBatch(ctx context.Context, items []StatusItem) ([]sync.ItemResult, error) {
	run := s.recorder.Start(ctx, "order_status", syncrun.DirectionExport, map[string]any{"count": len(items)})

	results := make([]sync.ItemResult, 0, len(items))
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, item := range items {
			results = append(results, s.applyStatus(txCtx, item))
		}
		return nil
	})
	if err != nil {
		s.recorder.Fail(ctx, run, err)
		return nil, err
	}

	s.recorder.Complete(ctx, run, results, "")
	return results, nil
}

func (s *ExportService) applyStatus(ctx context.Context, item StatusItem) sync.ItemResult {
	o, err := s.orders.FindByGUID(ctx, item.GUID)
	if err != nil {
		if isNotFound(err) {
			return sync.Failed(item.GUID, shared.NewReferenceError("order %s not found", item.GUID))
		}
		return sync.Failed(item.GUID, err)
	}

	upd := order.StatusUpdate{
		Status:      item.Status,
		Number1c:    item.Number1c,
		Date1c:      item.Date1c,
		Comment:     item.Comment,
		TotalAmount: item.TotalAmount,
		Currency:    item.Currency,
	}
	if err := o.ApplyStatusUpdate(upd); err != nil {
		return sync.Failed(item.GUID, err)
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return sync.Failed(item.GUID, err)
	}
	return sync.OK(item.GUID)
}

func isNotFound(err error) bool {
	var derr *shared.DomainError
	return errors.As(err, &derr) && derr.Code == shared.CodeNotFound
}
