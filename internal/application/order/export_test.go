package order

import (
	"context"
	"testing"
	"time"

	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/b2bportal/backend/internal/application/sync"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByGUID(ctx context.Context, guid string) (*order.Order, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindQueued(ctx context.Context, includeSent bool, limit int) ([]order.Order, error) {
	args := m.Called(ctx, includeSent, limit)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockSyncRunRepository is a mock implementation of syncrun.Repository
type MockSyncRunRepository struct {
	mock.Mock
}

func (m *MockSyncRunRepository) Create(ctx context.Context, run *syncrun.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepository) Update(ctx context.Context, run *syncrun.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepository) AddItems(ctx context.Context, items []syncrun.SyncRunItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID, includeItems bool, itemsLimit int) (*syncrun.SyncRun, error) {
	args := m.Called(ctx, id, includeItems, itemsLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*syncrun.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) List(ctx context.Context, filter syncrun.Filter) ([]syncrun.SyncRun, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]syncrun.SyncRun), args.Error(1)
}

// fakeTxManager runs the callback without a real transaction
type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newExportService(orders *MockOrderRepository, runs *MockSyncRunRepository) *ExportService {
	recorder := appsync.NewRunRecorder(runs, zap.NewNop())
	return NewExportService(orders, fakeTxManager{}, recorder, 50, 200, zap.NewNop())
}

func queuedOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(uuid.New(), uuid.New(), "RUB")
	require.NoError(t, err)
	return o
}

func TestExportService_Queued(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults the page size when limit is omitted", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("FindQueued", ctx, false, 50).Return([]order.Order{}, nil)

		svc := newExportService(orders, new(MockSyncRunRepository))
		_, err := svc.Queued(ctx, false, 0)
		require.NoError(t, err)
		orders.AssertExpectations(t)
	})

	t.Run("clamps an oversized limit", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("FindQueued", ctx, true, 200).Return([]order.Order{}, nil)

		svc := newExportService(orders, new(MockSyncRunRepository))
		_, err := svc.Queued(ctx, true, 5000)
		require.NoError(t, err)
		orders.AssertExpectations(t)
	})

	t.Run("passes an in-range limit through", func(t *testing.T) {
		orders := new(MockOrderRepository)
		queued := []order.Order{*queuedOrder(t)}
		orders.On("FindQueued", ctx, false, 25).Return(queued, nil)

		svc := newExportService(orders, new(MockSyncRunRepository))
		got, err := svc.Queued(ctx, false, 25)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestExportService_Acknowledge(t *testing.T) {
	ctx := context.Background()

	t.Run("failure keeps the order queued and counts the attempt", func(t *testing.T) {
		o := queuedOrder(t)
		orders := new(MockOrderRepository)
		orders.On("FindByGUID", ctx, o.GUID).Return(o, nil)
		orders.On("Save", ctx, o).Return(nil)

		svc := newExportService(orders, new(MockSyncRunRepository))
		got, err := svc.Acknowledge(ctx, o.GUID, AckRequest{Error: "connection refused"})
		require.NoError(t, err)

		assert.Equal(t, order.StatusQueued, got.Status)
		assert.Equal(t, 1, got.ExportAttempts)
		assert.Equal(t, "connection refused", got.LastExportError)
		assert.Nil(t, got.SentTo1cAt)
	})

	t.Run("success records the ledger document details", func(t *testing.T) {
		o := queuedOrder(t)
		orders := new(MockOrderRepository)
		orders.On("FindByGUID", ctx, o.GUID).Return(o, nil)
		orders.On("Save", ctx, o).Return(nil)

		date := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc := newExportService(orders, new(MockSyncRunRepository))
		got, err := svc.Acknowledge(ctx, o.GUID, AckRequest{Status: "ACCEPTED", Number1c: "UT-42", Date1c: &date})
		require.NoError(t, err)

		assert.Equal(t, "ACCEPTED", got.Status)
		assert.Equal(t, "UT-42", got.Number1c)
		require.NotNil(t, got.SentTo1cAt)
	})

	t.Run("propagates unknown order", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("FindByGUID", ctx, "missing").Return(nil, shared.NewNotFoundError("order not found"))

		svc := newExportService(orders, new(MockSyncRunRepository))
		_, err := svc.Acknowledge(ctx, "missing", AckRequest{})
		require.Error(t, err)
	})
}

func TestExportService_ApplyStatusBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown guid fails its item while the rest proceed", func(t *testing.T) {
		known := queuedOrder(t)
		orders := new(MockOrderRepository)
		orders.On("FindByGUID", mock.Anything, known.GUID).Return(known, nil)
		orders.On("FindByGUID", mock.Anything, "ghost").Return(nil, shared.NewNotFoundError("order not found"))
		orders.On("Save", mock.Anything, known).Return(nil)

		runs := new(MockSyncRunRepository)
		runs.On("Create", mock.Anything, mock.Anything).Return(nil)
		runs.On("AddItems", mock.Anything, mock.Anything).Return(nil)
		runs.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := newExportService(orders, runs)
		results, err := svc.ApplyStatusBatch(ctx, []StatusItem{
			{GUID: known.GUID, Status: "SHIPPED"},
			{GUID: "ghost", Status: "SHIPPED"},
		})
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, appsync.ItemOK, results[0].Status)
		assert.Equal(t, appsync.ItemError, results[1].Status)
		assert.Contains(t, results[1].Error, "not found")

		assert.Equal(t, "SHIPPED", known.Status)
		assert.NotNil(t, known.LastStatusSyncAt)
	})

	t.Run("empty status fails the item", func(t *testing.T) {
		o := queuedOrder(t)
		orders := new(MockOrderRepository)
		orders.On("FindByGUID", mock.Anything, o.GUID).Return(o, nil)

		runs := new(MockSyncRunRepository)
		runs.On("Create", mock.Anything, mock.Anything).Return(nil)
		runs.On("AddItems", mock.Anything, mock.Anything).Return(nil)
		runs.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := newExportService(orders, runs)
		results, err := svc.ApplyStatusBatch(ctx, []StatusItem{{GUID: o.GUID}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, appsync.ItemError, results[0].Status)
	})

	t.Run("carries on when the run ledger is unavailable", func(t *testing.T) {
		o := queuedOrder(t)
		orders := new(MockOrderRepository)
		orders.On("FindByGUID", mock.Anything, o.GUID).Return(o, nil)
		orders.On("Save", mock.Anything, o).Return(nil)

		runs := new(MockSyncRunRepository)
		runs.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		svc := newExportService(orders, runs)
		results, err := svc.ApplyStatusBatch(ctx, []StatusItem{{GUID: o.GUID, Status: "DONE"}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, appsync.ItemOK, results[0].Status)
	})
}
