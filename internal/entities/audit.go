package entities

import "time"

type AuditEventType string

const (
	AuditEventSubmit       AuditEventType = "submit"
	AuditEventUpdate       AuditEventType = "update"
	AuditEventDelete       AuditEventType = "delete"
	AuditEventApprove      AuditEventType = "approve"
	AuditEventReject       AuditEventType = "reject"
	AuditEventReset        AuditEventType = "reset_to_pending"
	AuditEventMediaRelease AuditEventType = "media_release"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent records moderation actions, deletions and media-release
// outcomes. Failed media releases are the out-of-band orphan report used
// for manual storage cleanup.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Description string         `gorm:"size:500" json:"description"`
	EntryID     *uint          `gorm:"index" json:"entry_id,omitempty"`
	MediaRef    string         `gorm:"size:512" json:"media_ref,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
