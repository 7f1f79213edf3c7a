package sync

import (
	"context"
	"testing"

	"github.com/b2bportal/backend/internal/domain/party"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCounterpartyRepository is a mock implementation of party.CounterpartyRepository
type MockCounterpartyRepository struct {
	mock.Mock
}

func (m *MockCounterpartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Counterparty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.Counterparty), args.Error(1)
}

func (m *MockCounterpartyRepository) FindByGUID(ctx context.Context, guid string) (*party.Counterparty, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.Counterparty), args.Error(1)
}

func (m *MockCounterpartyRepository) Save(ctx context.Context, counterparty *party.Counterparty) error {
	args := m.Called(ctx, counterparty)
	return args.Error(0)
}

// MockContractRepository is a mock implementation of party.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.ClientContract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.ClientContract), args.Error(1)
}

func (m *MockContractRepository) FindByGUID(ctx context.Context, guid string) (*party.ClientContract, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.ClientContract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *party.ClientContract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

// MockAgreementRepository is a mock implementation of party.AgreementRepository
type MockAgreementRepository struct {
	mock.Mock
}

func (m *MockAgreementRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.ClientAgreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.ClientAgreement), args.Error(1)
}

func (m *MockAgreementRepository) FindByGUID(ctx context.Context, guid string) (*party.ClientAgreement, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.ClientAgreement), args.Error(1)
}

func (m *MockAgreementRepository) Save(ctx context.Context, agreement *party.ClientAgreement) error {
	args := m.Called(ctx, agreement)
	return args.Error(0)
}

// MockPriceTypeRepository is a mock implementation of party.PriceTypeRepository
type MockPriceTypeRepository struct {
	mock.Mock
}

func (m *MockPriceTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.PriceType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.PriceType), args.Error(1)
}

func (m *MockPriceTypeRepository) FindByGUID(ctx context.Context, guid string) (*party.PriceType, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.PriceType), args.Error(1)
}

func (m *MockPriceTypeRepository) Save(ctx context.Context, priceType *party.PriceType) error {
	args := m.Called(ctx, priceType)
	return args.Error(0)
}

func testCounterparty(t *testing.T, guid string) *party.Counterparty {
	t.Helper()
	c, err := party.NewCounterparty(guid, party.CounterpartySnapshot{Name: "Acme LLC", IsActive: true})
	require.NoError(t, err)
	return c
}

func testContract(t *testing.T, guid string, counterpartyID uuid.UUID) *party.ClientContract {
	t.Helper()
	c, err := party.NewClientContract(guid, counterpartyID, "Contract "+guid, "", nil, true)
	require.NoError(t, err)
	return c
}

func newAgreementService(counterparties *MockCounterpartyRepository, contracts *MockContractRepository, agreements *MockAgreementRepository, priceTypes *MockPriceTypeRepository, warehouses *MockWarehouseRepository) *AgreementService {
	recorder := NewRunRecorder(acceptAllRuns{}, zap.NewNop())
	return NewAgreementService(counterparties, contracts, agreements, priceTypes, warehouses, fakeTxManager{}, recorder, zap.NewNop())
}

func TestAgreementService_Sync(t *testing.T) {
	ctx := context.Background()

	baseItem := func() AgreementItem {
		return AgreementItem{
			Contract: ContractPayload{
				GUID:             "ct-1",
				CounterpartyGUID: "cp-1",
				Name:             "Main contract",
			},
			Agreement: AgreementPayload{
				GUID: "agr-1",
				Name: "Main agreement",
			},
		}
	}

	t.Run("links the item's own contract to the agreement", func(t *testing.T) {
		counterparties := new(MockCounterpartyRepository)
		contracts := new(MockContractRepository)
		agreements := new(MockAgreementRepository)
		priceTypes := new(MockPriceTypeRepository)
		warehouses := new(MockWarehouseRepository)

		owner := testCounterparty(t, "cp-1")
		counterparties.On("FindByGUID", mock.Anything, "cp-1").Return(owner, nil)
		contracts.On("FindByGUID", mock.Anything, "ct-1").Return(nil, shared.ErrNotFound)

		var storedContract *party.ClientContract
		contracts.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			storedContract = args.Get(1).(*party.ClientContract)
		}).Return(nil)

		agreements.On("FindByGUID", mock.Anything, "agr-1").Return(nil, shared.ErrNotFound)
		var storedAgreement *party.ClientAgreement
		agreements.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			storedAgreement = args.Get(1).(*party.ClientAgreement)
		}).Return(nil)

		svc := newAgreementService(counterparties, contracts, agreements, priceTypes, warehouses)
		results, err := svc.Sync(ctx, []AgreementItem{baseItem()})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, ItemOK, results[0].Status)
		assert.Equal(t, "agr-1", results[0].Key)

		require.NotNil(t, storedContract)
		require.NotNil(t, storedAgreement)
		require.NotNil(t, storedAgreement.ContractID)
		assert.Equal(t, storedContract.ID, *storedAgreement.ContractID)
		require.NotNil(t, storedAgreement.CounterpartyID)
		assert.Equal(t, owner.ID, *storedAgreement.CounterpartyID)
	})

	t.Run("rejects an explicit contract owned by another counterparty", func(t *testing.T) {
		counterparties := new(MockCounterpartyRepository)
		contracts := new(MockContractRepository)
		agreements := new(MockAgreementRepository)
		priceTypes := new(MockPriceTypeRepository)
		warehouses := new(MockWarehouseRepository)

		owner := testCounterparty(t, "cp-1")
		stranger := testCounterparty(t, "cp-2")
		foreign := testContract(t, "ct-2", stranger.ID)

		counterparties.On("FindByGUID", mock.Anything, "cp-1").Return(owner, nil)
		contracts.On("FindByGUID", mock.Anything, "ct-1").Return(nil, shared.ErrNotFound)
		contracts.On("Save", mock.Anything, mock.Anything).Return(nil)
		contracts.On("FindByGUID", mock.Anything, "ct-2").Return(foreign, nil)
		contracts.On("FindByID", mock.Anything, foreign.ID).Return(foreign, nil)

		item := baseItem()
		item.Agreement.ContractGUID = "ct-2"

		svc := newAgreementService(counterparties, contracts, agreements, priceTypes, warehouses)
		results, err := svc.Sync(ctx, []AgreementItem{item})
		require.NoError(t, err)
		require.Len(t, results, 1)

		assert.Equal(t, ItemError, results[0].Status)
		assert.Contains(t, results[0].Error, "does not belong")
		agreements.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("accepts an explicit contract of the same counterparty", func(t *testing.T) {
		counterparties := new(MockCounterpartyRepository)
		contracts := new(MockContractRepository)
		agreements := new(MockAgreementRepository)
		priceTypes := new(MockPriceTypeRepository)
		warehouses := new(MockWarehouseRepository)

		owner := testCounterparty(t, "cp-1")
		sibling := testContract(t, "ct-2", owner.ID)

		counterparties.On("FindByGUID", mock.Anything, "cp-1").Return(owner, nil)
		contracts.On("FindByGUID", mock.Anything, "ct-1").Return(nil, shared.ErrNotFound)
		contracts.On("Save", mock.Anything, mock.Anything).Return(nil)
		contracts.On("FindByGUID", mock.Anything, "ct-2").Return(sibling, nil)
		contracts.On("FindByID", mock.Anything, sibling.ID).Return(sibling, nil)

		agreements.On("FindByGUID", mock.Anything, "agr-1").Return(nil, shared.ErrNotFound)
		var storedAgreement *party.ClientAgreement
		agreements.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			storedAgreement = args.Get(1).(*party.ClientAgreement)
		}).Return(nil)

		item := baseItem()
		item.Agreement.ContractGUID = "ct-2"

		svc := newAgreementService(counterparties, contracts, agreements, priceTypes, warehouses)
		results, err := svc.Sync(ctx, []AgreementItem{item})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, ItemOK, results[0].Status)

		require.NotNil(t, storedAgreement)
		require.NotNil(t, storedAgreement.ContractID)
		assert.Equal(t, sibling.ID, *storedAgreement.ContractID)
	})

	t.Run("agreement counterparty conflicting with the contract fails the item", func(t *testing.T) {
		counterparties := new(MockCounterpartyRepository)
		contracts := new(MockContractRepository)
		agreements := new(MockAgreementRepository)
		priceTypes := new(MockPriceTypeRepository)
		warehouses := new(MockWarehouseRepository)

		owner := testCounterparty(t, "cp-1")
		stranger := testCounterparty(t, "cp-2")

		counterparties.On("FindByGUID", mock.Anything, "cp-1").Return(owner, nil)
		counterparties.On("FindByGUID", mock.Anything, "cp-2").Return(stranger, nil)
		contracts.On("FindByGUID", mock.Anything, "ct-1").Return(nil, shared.ErrNotFound)
		contracts.On("Save", mock.Anything, mock.Anything).Return(nil)

		item := baseItem()
		item.Agreement.CounterpartyGUID = "cp-2"

		svc := newAgreementService(counterparties, contracts, agreements, priceTypes, warehouses)
		results, err := svc.Sync(ctx, []AgreementItem{item})
		require.NoError(t, err)
		require.Len(t, results, 1)

		assert.Equal(t, ItemError, results[0].Status)
		assert.Contains(t, results[0].Error, "does not match")
		agreements.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
