// Package moderation implements the approval workflow: the state machine
// transitioning an entry through pending, approved and rejected.
//
// Transitions are performed by a reviewer identity; the one exception is
// the owner re-submission rule, which lives in the entry repository's
// Update as a side effect of editing a rejected entry.
package moderation

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/phyn2-2/kikuyu-vocab/internal/database/entries"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

// EntryStore is the slice of the entry repository the workflow needs.
type EntryStore interface {
	Get(id uint) (*entities.VocabEntry, error)
	ApplyReview(id uint, seenUpdatedAt time.Time, updates map[string]any) error
	ListByStatus(status entities.EntryStatus, limit, offset int) ([]entities.VocabEntry, int64, error)
}

// Auditor records workflow actions. Logging failures must not fail the
// transition itself.
type Auditor interface {
	LogEvent(event *entities.AuditEvent) error
}

// Workflow drives reviewer-side status transitions.
type Workflow struct {
	store   EntryStore
	auditor Auditor
}

// NewWorkflow creates a workflow over the given store. auditor may be nil.
func NewWorkflow(store EntryStore, auditor Auditor) *Workflow {
	return &Workflow{store: store, auditor: auditor}
}

// Approve moves an entry to approved, recording the reviewer. Approving an
// already-approved entry is an idempotent no-op that refreshes the review
// metadata rather than an error.
func (w *Workflow) Approve(id, reviewerID uint) (*entities.VocabEntry, error) {
	now := time.Now()
	entry, err := w.transition(id, map[string]any{
		"status":           entities.StatusApproved,
		"reviewed_by_id":   reviewerID,
		"reviewed_at":      now,
		"rejection_reason": "",
	})
	if err != nil {
		return nil, err
	}
	w.logEvent(reviewerID, id, entities.AuditEventApprove, fmt.Sprintf("approved %q (%s)", entry.Word, entry.Language))
	return entry, nil
}

// Reject moves an entry to rejected with a reason. The reason may be empty
// but is recorded. Re-rejecting refreshes the metadata and reason.
func (w *Workflow) Reject(id, reviewerID uint, reason string) (*entities.VocabEntry, error) {
	now := time.Now()
	entry, err := w.transition(id, map[string]any{
		"status":           entities.StatusRejected,
		"reviewed_by_id":   reviewerID,
		"reviewed_at":      now,
		"rejection_reason": reason,
	})
	if err != nil {
		return nil, err
	}
	w.logEvent(reviewerID, id, entities.AuditEventReject, fmt.Sprintf("rejected %q: %s", entry.Word, reason))
	return entry, nil
}

// ResetToPending sends an entry back to the review queue from any state,
// clearing all review metadata.
func (w *Workflow) ResetToPending(id, reviewerID uint) (*entities.VocabEntry, error) {
	entry, err := w.transition(id, map[string]any{
		"status":           entities.StatusPending,
		"reviewed_by_id":   nil,
		"reviewed_at":      nil,
		"rejection_reason": "",
	})
	if err != nil {
		return nil, err
	}
	w.logEvent(reviewerID, id, entities.AuditEventReset, fmt.Sprintf("reset %q to pending", entry.Word))
	return entry, nil
}

// PendingQueue lists entries awaiting review, oldest first.
func (w *Workflow) PendingQueue(limit, offset int) ([]entities.VocabEntry, int64, error) {
	return w.store.ListByStatus(entities.StatusPending, limit, offset)
}

// ApproveAll applies Approve to each id, returning the number approved.
// Individual not-found entries are skipped; other errors abort.
func (w *Workflow) ApproveAll(ids []uint, reviewerID uint) (int, error) {
	approved := 0
	for _, id := range ids {
		if _, err := w.Approve(id, reviewerID); err != nil {
			if errors.Is(err, entries.ErrNotFound) {
				continue
			}
			return approved, err
		}
		approved++
	}
	return approved, nil
}

// transition applies the update set under the repository's optimistic
// concurrency check, retrying once when a concurrent edit intervened.
func (w *Workflow) transition(id uint, updates map[string]any) (*entities.VocabEntry, error) {
	for attempt := 0; ; attempt++ {
		entry, err := w.store.Get(id)
		if err != nil {
			return nil, err
		}

		err = w.store.ApplyReview(id, entry.UpdatedAt, updates)
		if errors.Is(err, entries.ErrConflict) && attempt == 0 {
			continue
		}
		if err != nil {
			return nil, err
		}
		return w.store.Get(id)
	}
}

func (w *Workflow) logEvent(reviewerID, entryID uint, eventType entities.AuditEventType, description string) {
	if w.auditor == nil {
		return
	}
	event := &entities.AuditEvent{
		UserID:      reviewerID,
		EventType:   eventType,
		Description: description,
		EntryID:     &entryID,
		Status:      entities.AuditStatusSuccess,
	}
	if err := w.auditor.LogEvent(event); err != nil {
		// Audit is advisory; the transition already committed.
		log.Printf("audit log failed: %v", err)
	}
}
