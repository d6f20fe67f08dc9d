package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

type rowRecorder struct {
	ranges []string
	rows   [][]interface{}
	err    error
}

func (r *rowRecorder) WriteRow(_ context.Context, sheetRange string, values []interface{}) error {
	if r.err != nil {
		return r.err
	}
	r.ranges = append(r.ranges, sheetRange)
	r.rows = append(r.rows, values)
	return nil
}

func TestKPISinkAppendsRow(t *testing.T) {
	rec := &rowRecorder{}
	sink := NewKPISink(rec)

	err := sink.SaveKPISnapshot(context.Background(), models.KPISnapshot{
		TakenAt:   time.Date(2026, 5, 6, 20, 0, 0, 0, time.UTC),
		OrderKPIs: models.OrderKPIs{Total: 7, Planned: 3, InProgress: 2, Completed: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{KPIRange}, rec.ranges)
	assert.Equal(t, [][]interface{}{{"2026-05-06T20:00:00Z", int64(7), int64(3), int64(2), int64(2)}}, rec.rows)
}

func TestKPISinkWrapsWriteError(t *testing.T) {
	cause := errors.New("permission denied")
	sink := NewKPISink(&rowRecorder{err: cause})

	err := sink.SaveKPISnapshot(context.Background(), models.KPISnapshot{})
	require.ErrorIs(t, err, cause)
}
