package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestWindowContains(t *testing.T) {
	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	before := at.Add(-24 * time.Hour)
	after := at.Add(24 * time.Hour)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  bool
	}{
		{"both bounds open", nil, nil, true},
		{"inside window", &before, &after, true},
		{"before start", &after, nil, false},
		{"after end", nil, &before, false},
		{"on start bound", &at, nil, true},
		{"on end bound", nil, &at, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, windowContains(tt.start, tt.end, at))
		})
	}
}

func TestMatchKey(t *testing.T) {
	id := uuid.New()
	other := uuid.New()

	t.Run("nil rule key is a wildcard", func(t *testing.T) {
		assert.True(t, matchKey(nil, nil))
		assert.True(t, matchKey(nil, ptr(id)))
	})

	t.Run("pinned key must equal resolved value", func(t *testing.T) {
		assert.True(t, matchKey(ptr(id), ptr(id)))
		assert.False(t, matchKey(ptr(id), ptr(other)))
	})

	t.Run("pinned key rejects unresolved dimension", func(t *testing.T) {
		assert.False(t, matchKey(ptr(id), nil))
	})
}

func TestStartDateAfter(t *testing.T) {
	earlier := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, StartDateAfter(&later, &earlier))
	assert.False(t, StartDateAfter(&earlier, &later))
	assert.True(t, StartDateAfter(&earlier, nil), "any date beats nil")
	assert.False(t, StartDateAfter(nil, &earlier), "nil is the earliest instant")
	assert.False(t, StartDateAfter(nil, nil))
	assert.False(t, StartDateAfter(&earlier, &earlier), "equal dates do not outrank")
}

func TestSpecialPrice_Specificity(t *testing.T) {
	base := SpecialPriceSnapshot{
		ProductID: uuid.New(),
		Price:     decimal.NewFromInt(100),
		IsActive:  true,
	}

	t.Run("agreement pin is the most specific", func(t *testing.T) {
		snap := base
		snap.AgreementID = ptr(uuid.New())
		snap.CounterpartyID = ptr(uuid.New())
		snap.PriceTypeID = ptr(uuid.New())
		p, err := NewSpecialPrice("sp-1", snap)
		require.NoError(t, err)
		assert.Equal(t, ScopeAgreement, p.Specificity())
	})

	t.Run("counterparty pin outranks price type", func(t *testing.T) {
		snap := base
		snap.CounterpartyID = ptr(uuid.New())
		snap.PriceTypeID = ptr(uuid.New())
		p, err := NewSpecialPrice("sp-2", snap)
		require.NoError(t, err)
		assert.Equal(t, ScopeCounterparty, p.Specificity())
	})

	t.Run("price type pin alone", func(t *testing.T) {
		snap := base
		snap.PriceTypeID = ptr(uuid.New())
		p, err := NewSpecialPrice("sp-3", snap)
		require.NoError(t, err)
		assert.Equal(t, ScopePriceType, p.Specificity())
	})

	t.Run("no pins means global", func(t *testing.T) {
		p, err := NewSpecialPrice("sp-4", base)
		require.NoError(t, err)
		assert.Equal(t, ScopeGlobal, p.Specificity())
	})
}

func TestSpecialPrice_Matches(t *testing.T) {
	counterpartyID := uuid.New()
	agreementID := uuid.New()

	snap := SpecialPriceSnapshot{
		ProductID:      uuid.New(),
		CounterpartyID: &counterpartyID,
		Price:          decimal.NewFromInt(100),
		IsActive:       true,
	}
	p, err := NewSpecialPrice("sp-5", snap)
	require.NoError(t, err)

	t.Run("matches when pinned key equals resolved value", func(t *testing.T) {
		assert.True(t, p.Matches(ResolvedContext{
			CounterpartyID: &counterpartyID,
			AgreementID:    &agreementID,
		}))
	})

	t.Run("rejects a different counterparty", func(t *testing.T) {
		other := uuid.New()
		assert.False(t, p.Matches(ResolvedContext{CounterpartyID: &other}))
	})

	t.Run("rejects unresolved counterparty", func(t *testing.T) {
		assert.False(t, p.Matches(ResolvedContext{}))
	})
}

func TestSpecialPrice_ActiveAt(t *testing.T) {
	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	start := at.Add(-time.Hour)

	snap := SpecialPriceSnapshot{
		ProductID: uuid.New(),
		Price:     decimal.NewFromInt(50),
		StartDate: &start,
		IsActive:  true,
	}
	p, err := NewSpecialPrice("sp-6", snap)
	require.NoError(t, err)

	assert.True(t, p.ActiveAt(at))
	assert.False(t, p.ActiveAt(start.Add(-time.Minute)))

	snap.IsActive = false
	require.NoError(t, p.Apply(snap))
	assert.False(t, p.ActiveAt(at), "inactive rule never applies")
}

func TestNewSpecialPrice_Validation(t *testing.T) {
	t.Run("rejects missing product", func(t *testing.T) {
		_, err := NewSpecialPrice("sp-7", SpecialPriceSnapshot{Price: decimal.NewFromInt(1)})
		require.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewSpecialPrice("sp-8", SpecialPriceSnapshot{
			ProductID: uuid.New(),
			Price:     decimal.NewFromInt(-1),
		})
		require.Error(t, err)
	})

	t.Run("defaults currency to RUB", func(t *testing.T) {
		p, err := NewSpecialPrice("sp-9", SpecialPriceSnapshot{
			ProductID: uuid.New(),
			Price:     decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		assert.Equal(t, "RUB", p.Currency)
	})
}
