// Package scheduler runs periodic maintenance: audit log retention and
// orphan tag cleanup. The actual work is enqueued onto the task queue so
// it shares the queue's retry and visibility machinery.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/phyn2-2/kikuyu-vocab/internal/tasks"
)

// TaskEnqueuer is the slice of the task client the scheduler needs.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// Config controls what the maintenance scheduler runs and when.
type Config struct {
	// Schedule is a five-field cron expression. Default: daily at 03:30.
	Schedule string
	// AuditRetentionDays is how long audit events are kept.
	AuditRetentionDays int
}

// DefaultConfig returns the default maintenance schedule.
func DefaultConfig() Config {
	return Config{
		Schedule:           "30 3 * * *",
		AuditRetentionDays: 90,
	}
}

// Maintenance schedules the periodic cleanup jobs.
type Maintenance struct {
	enqueuer TaskEnqueuer
	config   Config

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenance creates a maintenance scheduler.
func NewMaintenance(enqueuer TaskEnqueuer, cfg Config) *Maintenance {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultConfig().Schedule
	}
	if cfg.AuditRetentionDays <= 0 {
		cfg.AuditRetentionDays = DefaultConfig().AuditRetentionDays
	}
	return &Maintenance{
		enqueuer: enqueuer,
		config:   cfg,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. Stops itself when ctx is cancelled.
func (m *Maintenance) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		return nil
	}

	entryID, err := m.cron.AddFunc(m.config.Schedule, m.runMaintenance)
	if err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", m.config.Schedule, err)
	}
	m.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, m.cancelFunc = context.WithCancel(ctx)

	m.cron.Start()
	m.isRunning = true

	log.Printf("Maintenance scheduler: started with schedule %q", m.config.Schedule)

	go func() {
		<-cancelCtx.Done()
		m.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (m *Maintenance) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning {
		return
	}

	ctx := m.cron.Stop()
	<-ctx.Done()

	m.isRunning = false
	m.cancelFunc = nil

	log.Printf("Maintenance scheduler: stopped")
}

// RunNow enqueues the maintenance jobs immediately.
func (m *Maintenance) RunNow() {
	go m.runMaintenance()
}

// IsRunning returns whether the scheduler is active.
func (m *Maintenance) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isRunning
}

// NextRunTime returns when the next maintenance run will occur.
func (m *Maintenance) NextRunTime() *time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.isRunning {
		return nil
	}
	for _, entry := range m.cron.Entries() {
		if entry.ID == m.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (m *Maintenance) runMaintenance() {
	log.Printf("Maintenance: enqueueing cleanup jobs")

	if _, err := m.enqueuer.Add(tasks.CleanupAuditEventsTask{
		RetentionDays: m.config.AuditRetentionDays,
	}).Save(); err != nil {
		log.Printf("Maintenance: failed to enqueue audit cleanup: %v", err)
	}

	if _, err := m.enqueuer.Add(tasks.CleanupOrphanTagsTask{}).Save(); err != nil {
		log.Printf("Maintenance: failed to enqueue orphan tag cleanup: %v", err)
	}
}
