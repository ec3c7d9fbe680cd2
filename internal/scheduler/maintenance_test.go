package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopEnqueuer satisfies TaskEnqueuer; the schedules under test never fire.
type nopEnqueuer struct{}

func (nopEnqueuer) Add(tasks ...backlite.Task) *backlite.TaskAddOp { return nil }

func TestNewMaintenance_Defaults(t *testing.T) {
	m := NewMaintenance(nopEnqueuer{}, Config{})

	assert.Equal(t, "30 3 * * *", m.config.Schedule)
	assert.Equal(t, 90, m.config.AuditRetentionDays)

	m = NewMaintenance(nopEnqueuer{}, Config{Schedule: "0 4 * * *", AuditRetentionDays: 30})
	assert.Equal(t, "0 4 * * *", m.config.Schedule)
	assert.Equal(t, 30, m.config.AuditRetentionDays)
}

func TestMaintenance_StartStop(t *testing.T) {
	m := NewMaintenance(nopEnqueuer{}, Config{})

	require.NoError(t, m.Start(context.Background()))
	assert.True(t, m.IsRunning())

	next := m.NextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	// Starting an already-running scheduler is a no-op.
	require.NoError(t, m.Start(context.Background()))

	m.Stop()
	assert.False(t, m.IsRunning())
	assert.Nil(t, m.NextRunTime())

	// Stopping twice is safe.
	m.Stop()
}

func TestMaintenance_InvalidSchedule(t *testing.T) {
	m := NewMaintenance(nopEnqueuer{}, Config{Schedule: "every day at dawn"})

	err := m.Start(context.Background())
	require.Error(t, err)
	assert.False(t, m.IsRunning())
}

func TestMaintenance_StopsOnContextCancel(t *testing.T) {
	m := NewMaintenance(nopEnqueuer{}, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))
	require.True(t, m.IsRunning())

	cancel()
	assert.Eventually(t, func() bool { return !m.IsRunning() }, time.Second, 10*time.Millisecond)
}
