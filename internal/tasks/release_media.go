package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
	"github.com/phyn2-2/kikuyu-vocab/internal/media"
)

// MediaReleaser releases a stored media asset.
type MediaReleaser interface {
	Release(ref media.Ref) error
}

// ReleaseAuditor records release failures for out-of-band cleanup.
type ReleaseAuditor interface {
	LogEvent(event *entities.AuditEvent) error
}

// ReleaseMediaTask releases one media asset that is no longer referenced
// by any entry. Enqueued after the database update that dropped the
// reference commits, so a crash between the two leaves at worst an
// orphaned file, never a dangling reference.
type ReleaseMediaTask struct {
	Ref    string `json:"ref"`
	UserID uint   `json:"user_id"`
}

// Config returns the queue configuration for media release tasks.
func (t ReleaseMediaTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "release_media",
		MaxAttempts: 5,
		Backoff:     time.Minute,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReleaseMediaProcessor creates a processor for media release tasks. A
// vanished asset counts as released. Failures are audited and returned so
// backlite retries; auditor may be nil.
func ReleaseMediaProcessor(store MediaReleaser, auditor ReleaseAuditor) backlite.QueueProcessor[ReleaseMediaTask] {
	return func(ctx context.Context, task ReleaseMediaTask) error {
		if task.Ref == "" {
			return nil
		}

		err := store.Release(media.Ref(task.Ref))
		if err == nil {
			log.Printf("[TASK] Released media %s", task.Ref)
			return nil
		}
		if errors.Is(err, media.ErrNotFound) {
			return nil
		}

		if auditor != nil {
			auditErr := auditor.LogEvent(&entities.AuditEvent{
				UserID:      task.UserID,
				EventType:   entities.AuditEventMediaRelease,
				Description: fmt.Sprintf("failed to release media %s", task.Ref),
				MediaRef:    task.Ref,
				Status:      entities.AuditStatusFailed,
				ErrorMsg:    err.Error(),
			})
			if auditErr != nil {
				log.Printf("[TASK] Failed to audit media release failure: %v", auditErr)
			}
		}
		return fmt.Errorf("release media %s: %w", task.Ref, err)
	}
}

// NewReleaseMediaQueue creates a backlite queue for media release tasks.
func NewReleaseMediaQueue(store MediaReleaser, auditor ReleaseAuditor) backlite.Queue {
	return backlite.NewQueue(ReleaseMediaProcessor(store, auditor))
}
