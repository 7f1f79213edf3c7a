package syncrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		errors int
		want   Status
	}{
		{"all succeeded", 10, 0, StatusCompleted},
		{"empty batch", 0, 0, StatusCompleted},
		{"all failed", 5, 5, StatusFailed},
		{"some failed", 10, 3, StatusPartial},
		{"one of one failed", 1, 1, StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.total, tt.errors))
		})
	}
}

func TestNewSyncRun(t *testing.T) {
	run := NewSyncRun("stock", DirectionImport, `{"count":3}`)

	assert.Equal(t, "stock", run.Entity)
	assert.Equal(t, DirectionImport, run.Direction)
	assert.Equal(t, StatusStarted, run.Status)
	assert.Equal(t, `{"count":3}`, run.Meta)
	assert.NotEmpty(t, run.RequestID)
	assert.False(t, run.StartedAt.IsZero())
	assert.Nil(t, run.FinishedAt)
}

func TestSyncRun_Finalize(t *testing.T) {
	run := NewSyncRun("prices", DirectionImport, "")

	run.Finalize(10, 2, "2 rows skipped")

	assert.Equal(t, StatusPartial, run.Status)
	assert.Equal(t, 10, run.TotalCount)
	assert.Equal(t, 8, run.SuccessCount)
	assert.Equal(t, 2, run.ErrorCount)
	assert.Equal(t, "2 rows skipped", run.Notes)
	require.NotNil(t, run.FinishedAt)
}

func TestSyncRun_MarkFailed(t *testing.T) {
	run := NewSyncRun("order_status", DirectionExport, "")

	run.MarkFailed("database unavailable")

	assert.Equal(t, StatusFailed, run.Status)
	assert.Equal(t, "database unavailable", run.Error)
	require.NotNil(t, run.FinishedAt)
	assert.Zero(t, run.TotalCount)
}
