package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/mfgconsole/internal/config"
	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

type countingTaker struct {
	calls atomic.Int32
	err   error
}

func (c *countingTaker) TakeSnapshot(context.Context) (models.KPISnapshot, error) {
	c.calls.Add(1)
	return models.KPISnapshot{}, c.err
}

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "Mars/Olympus"}, &countingTaker{}, nil)
	require.Error(t, err)
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "every evening", Timezone: "UTC"}, &countingTaker{}, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestStartRegistersSnapshotJob(t *testing.T) {
	taker := &countingTaker{}
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "Africa/Dakar"}, taker, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	entries := s.cron.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 20, entries[0].Next.Hour())
	assert.Equal(t, "Africa/Dakar", entries[0].Next.Location().String())
}

func TestTakeSnapshotSwallowsErrors(t *testing.T) {
	taker := &countingTaker{err: errors.New("backend down")}
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "@daily", Timezone: "UTC"}, taker, nil)
	require.NoError(t, err)

	s.takeSnapshot()
	assert.Equal(t, int32(1), taker.calls.Load())
}
