package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
	"github.com/phyn2-2/kikuyu-vocab/internal/moderation"
)

// AuditReader provides read access to the audit trail.
type AuditReader interface {
	GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsForEntry(entryID uint) ([]entities.AuditEvent, error)
	GetFailedReleases() ([]entities.AuditEvent, error)
}

// ModerationController exposes the review queue and status transitions.
// Every route behind it requires reviewer authority.
type ModerationController struct {
	workflow *moderation.Workflow
	audit    AuditReader
}

// NewModerationController creates the moderation controller. audit may be nil.
func NewModerationController(workflow *moderation.Workflow, audit AuditReader) *ModerationController {
	return &ModerationController{workflow: workflow, audit: audit}
}

// PendingQueue lists entries awaiting review, oldest first.
// GET /api/moderation/queue
func (mc *ModerationController) PendingQueue(c *gin.Context) {
	limit, offset := parsePagination(c, 50, 100)
	list, total, err := mc.workflow.PendingQueue(limit, offset)
	if err != nil {
		respondInternalError(c, err, "pending queue")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": list,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// Approve moves an entry to approved.
// POST /api/moderation/entries/:id/approve
func (mc *ModerationController) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	entry, err := mc.workflow.Approve(id, GetUserID(c))
	if err != nil {
		respondDomainError(c, err, "approve entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// RejectRequest carries the rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Reject moves an entry to rejected with a reason.
// POST /api/moderation/entries/:id/reject
func (mc *ModerationController) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondBadRequest(c, "invalid request")
		return
	}
	entry, err := mc.workflow.Reject(id, GetUserID(c), req.Reason)
	if err != nil {
		respondDomainError(c, err, "reject entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Reset sends an entry back to the review queue.
// POST /api/moderation/entries/:id/reset
func (mc *ModerationController) Reset(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	entry, err := mc.workflow.ResetToPending(id, GetUserID(c))
	if err != nil {
		respondDomainError(c, err, "reset entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// BulkApproveRequest carries the IDs to approve.
type BulkApproveRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// BulkApprove approves a batch of entries, skipping vanished ones.
// POST /api/moderation/entries/approve
func (mc *ModerationController) BulkApprove(c *gin.Context) {
	var req BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "ids are required")
		return
	}
	approved, err := mc.workflow.ApproveAll(req.IDs, GetUserID(c))
	if err != nil {
		respondDomainError(c, err, "bulk approve")
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": approved, "requested": len(req.IDs)})
}

// AuditLog lists recent audit events, most recent first.
// GET /api/moderation/audit
func (mc *ModerationController) AuditLog(c *gin.Context) {
	if mc.audit == nil {
		respondNotFound(c, "audit log")
		return
	}
	limit, offset := parsePagination(c, 50, 200)
	events, total, err := mc.audit.GetEvents(limit, offset)
	if err != nil {
		respondInternalError(c, err, "audit log")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// EntryAudit lists the audit trail of one entry.
// GET /api/moderation/entries/:id/audit
func (mc *ModerationController) EntryAudit(c *gin.Context) {
	if mc.audit == nil {
		respondNotFound(c, "audit log")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	events, err := mc.audit.GetEventsForEntry(id)
	if err != nil {
		respondInternalError(c, err, "entry audit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// FailedReleases lists media releases that failed, for storage cleanup.
// GET /api/moderation/media/failed
func (mc *ModerationController) FailedReleases(c *gin.Context) {
	if mc.audit == nil {
		respondNotFound(c, "audit log")
		return
	}
	events, err := mc.audit.GetFailedReleases()
	if err != nil {
		respondInternalError(c, err, "failed releases")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
