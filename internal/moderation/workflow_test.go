package moderation

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phyn2-2/kikuyu-vocab/internal/database/audit"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/entries"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

func setupWorkflow(t *testing.T) (*Workflow, *entries.Repository, *audit.Repository, *gorm.DB, func()) {
	dbPath := "./test_moderation_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Tag{},
		&entities.VocabEntry{},
		&entities.AuditEvent{},
	)
	require.NoError(t, err)

	entryRepo := entries.NewRepository(db)
	auditRepo := audit.NewRepository(db)
	workflow := NewWorkflow(entryRepo, auditRepo)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return workflow, entryRepo, auditRepo, db, cleanup
}

func submitEntry(t *testing.T, db *gorm.DB, repo *entries.Repository, word string) (*entities.VocabEntry, *entities.User) {
	t.Helper()

	user := &entities.User{Username: "owner-" + word, Email: word + "@example.com"}
	require.NoError(t, db.Create(user).Error)

	entry, err := repo.Create(entries.Draft{Word: word, Translation: "translation"}, user.ID)
	require.NoError(t, err)
	return entry, user
}

func TestWorkflow_Approve(t *testing.T) {
	workflow, repo, auditRepo, db, cleanup := setupWorkflow(t)
	defer cleanup()

	entry, _ := submitEntry(t, db, repo, "wĩmwega")
	reviewerID := uint(42)

	approved, err := workflow.Approve(entry.ID, reviewerID)
	require.NoError(t, err)

	assert.Equal(t, entities.StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedByID)
	assert.Equal(t, reviewerID, *approved.ReviewedByID)
	assert.NotNil(t, approved.ReviewedAt)
	assert.Empty(t, approved.RejectionReason)

	events, err := auditRepo.GetEventsForEntry(entry.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entities.AuditEventApprove, events[0].EventType)
}

func TestWorkflow_Approve_Idempotent(t *testing.T) {
	workflow, repo, _, db, cleanup := setupWorkflow(t)
	defer cleanup()

	entry, _ := submitEntry(t, db, repo, "irio")

	_, err := workflow.Approve(entry.ID, 1)
	require.NoError(t, err)

	// Re-approving by another reviewer refreshes the metadata.
	again, err := workflow.Approve(entry.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusApproved, again.Status)
	assert.Equal(t, uint(2), *again.ReviewedByID)
}

func TestWorkflow_Approve_Missing(t *testing.T) {
	workflow, _, _, _, cleanup := setupWorkflow(t)
	defer cleanup()

	_, err := workflow.Approve(9999, 1)
	assert.ErrorIs(t, err, entries.ErrNotFound)
}

func TestWorkflow_Reject(t *testing.T) {
	workflow, repo, auditRepo, db, cleanup := setupWorkflow(t)
	defer cleanup()

	entry, _ := submitEntry(t, db, repo, "ngombe")

	rejected, err := workflow.Reject(entry.ID, 7, "needs a pronunciation guide")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusRejected, rejected.Status)
	assert.Equal(t, "needs a pronunciation guide", rejected.RejectionReason)
	require.NotNil(t, rejected.ReviewedByID)
	assert.Equal(t, uint(7), *rejected.ReviewedByID)

	events, err := auditRepo.GetEventsForEntry(entry.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entities.AuditEventReject, events[0].EventType)
}

func TestWorkflow_RejectThenApprove_ClearsReason(t *testing.T) {
	workflow, repo, _, db, cleanup := setupWorkflow(t)
	defer cleanup()

	entry, _ := submitEntry(t, db, repo, "maitũ")

	_, err := workflow.Reject(entry.ID, 7, "typo in translation")
	require.NoError(t, err)

	approved, err := workflow.Approve(entry.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusApproved, approved.Status)
	assert.Empty(t, approved.RejectionReason)
}

func TestWorkflow_ResetToPending(t *testing.T) {
	workflow, repo, _, db, cleanup := setupWorkflow(t)
	defer cleanup()

	entry, _ := submitEntry(t, db, repo, "baba")

	_, err := workflow.Approve(entry.ID, 7)
	require.NoError(t, err)

	reset, err := workflow.ResetToPending(entry.ID, 7)
	require.NoError(t, err)

	assert.Equal(t, entities.StatusPending, reset.Status)
	assert.Nil(t, reset.ReviewedByID)
	assert.Nil(t, reset.ReviewedAt)
	assert.Empty(t, reset.RejectionReason)
}

func TestWorkflow_PendingQueue_OldestFirst(t *testing.T) {
	workflow, repo, _, db, cleanup := setupWorkflow(t)
	defer cleanup()

	first, _ := submitEntry(t, db, repo, "one")
	second, _ := submitEntry(t, db, repo, "two")

	// Approvals leave the queue.
	_, err := workflow.Approve(second.ID, 1)
	require.NoError(t, err)
	third, _ := submitEntry(t, db, repo, "three")

	queue, total, err := workflow.PendingQueue(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, queue, 2)
	assert.Equal(t, first.ID, queue[0].ID)
	assert.Equal(t, third.ID, queue[1].ID)
}

func TestWorkflow_ApproveAll_SkipsMissing(t *testing.T) {
	workflow, repo, _, db, cleanup := setupWorkflow(t)
	defer cleanup()

	first, _ := submitEntry(t, db, repo, "one")
	second, _ := submitEntry(t, db, repo, "two")

	approved, err := workflow.ApproveAll([]uint{first.ID, 9999, second.ID}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, approved)

	for _, id := range []uint{first.ID, second.ID} {
		entry, err := repo.Get(id)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusApproved, entry.Status)
	}
}
