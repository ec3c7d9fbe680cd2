// Package audit stores the moderation and media-release event log.
//
// Failed media releases recorded here are the report used for out-of-band
// storage cleanup: a release failure never blocks the user-visible
// operation that triggered it.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated audit events, most recent first.
func (r *Repository) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	if err := r.db.Model(&entities.AuditEvent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// GetEventsForEntry retrieves the audit trail of a single entry.
func (r *Repository) GetEventsForEntry(entryID uint) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	err := r.db.Where("entry_id = ?", entryID).Order("created_at DESC").Find(&events).Error
	return events, err
}

// GetFailedReleases lists media releases that failed, for manual cleanup.
func (r *Repository) GetFailedReleases() ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	err := r.db.
		Where("event_type = ? AND status = ?", entities.AuditEventMediaRelease, entities.AuditStatusFailed).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
