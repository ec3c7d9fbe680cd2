package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
	"github.com/phyn2-2/kikuyu-vocab/internal/media"
)

type fakeReleaser struct {
	released []media.Ref
	err      error
}

func (f *fakeReleaser) Release(ref media.Ref) error {
	f.released = append(f.released, ref)
	return f.err
}

type fakeAuditor struct {
	events []*entities.AuditEvent
}

func (f *fakeAuditor) LogEvent(event *entities.AuditEvent) error {
	f.events = append(f.events, event)
	return nil
}

func TestReleaseMediaProcessor_Success(t *testing.T) {
	releaser := &fakeReleaser{}
	auditor := &fakeAuditor{}
	process := ReleaseMediaProcessor(releaser, auditor)

	err := process(context.Background(), ReleaseMediaTask{Ref: "vocab_audio/a.mp3", UserID: 1})
	require.NoError(t, err)

	assert.Equal(t, []media.Ref{"vocab_audio/a.mp3"}, releaser.released)
	assert.Empty(t, auditor.events)
}

func TestReleaseMediaProcessor_EmptyRef(t *testing.T) {
	releaser := &fakeReleaser{}
	process := ReleaseMediaProcessor(releaser, nil)

	err := process(context.Background(), ReleaseMediaTask{})
	require.NoError(t, err)
	assert.Empty(t, releaser.released)
}

func TestReleaseMediaProcessor_AlreadyGone(t *testing.T) {
	releaser := &fakeReleaser{err: media.ErrNotFound}
	auditor := &fakeAuditor{}
	process := ReleaseMediaProcessor(releaser, auditor)

	// A vanished asset counts as released: no retry, no audit entry.
	err := process(context.Background(), ReleaseMediaTask{Ref: "vocab_audio/gone.mp3"})
	require.NoError(t, err)
	assert.Empty(t, auditor.events)
}

func TestReleaseMediaProcessor_FailureIsAuditedAndRetried(t *testing.T) {
	releaser := &fakeReleaser{err: errors.New("permission denied")}
	auditor := &fakeAuditor{}
	process := ReleaseMediaProcessor(releaser, auditor)

	err := process(context.Background(), ReleaseMediaTask{Ref: "vocab_audio/stuck.mp3", UserID: 3})
	require.Error(t, err)

	require.Len(t, auditor.events, 1)
	event := auditor.events[0]
	assert.Equal(t, entities.AuditEventMediaRelease, event.EventType)
	assert.Equal(t, entities.AuditStatusFailed, event.Status)
	assert.Equal(t, "vocab_audio/stuck.mp3", event.MediaRef)
	assert.Equal(t, uint(3), event.UserID)
	assert.Contains(t, event.ErrorMsg, "permission denied")
}

type fakeTagCleaner struct {
	deleted int64
	err     error
}

func (f *fakeTagCleaner) DeleteOrphanTags() (int64, error) {
	return f.deleted, f.err
}

func TestCleanupOrphanTagsProcessor(t *testing.T) {
	process := CleanupOrphanTagsProcessor(&fakeTagCleaner{deleted: 4})
	assert.NoError(t, process(context.Background(), CleanupOrphanTagsTask{}))

	failing := CleanupOrphanTagsProcessor(&fakeTagCleaner{err: errors.New("locked")})
	assert.Error(t, failing(context.Background(), CleanupOrphanTagsTask{}))

	unconfigured := CleanupOrphanTagsProcessor(nil)
	assert.Error(t, unconfigured(context.Background(), CleanupOrphanTagsTask{}))
}

type fakeAuditCleaner struct {
	cutoff time.Time
	err    error
}

func (f *fakeAuditCleaner) DeleteOldEvents(olderThan time.Time) (int64, error) {
	f.cutoff = olderThan
	return 0, f.err
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &fakeAuditCleaner{}
	process := CleanupAuditEventsProcessor(cleaner)

	require.NoError(t, process(context.Background(), CleanupAuditEventsTask{RetentionDays: 30}))
	expected := time.Now().AddDate(0, 0, -30)
	assert.WithinDuration(t, expected, cleaner.cutoff, time.Minute)

	// Zero retention falls back to the 90-day default.
	require.NoError(t, process(context.Background(), CleanupAuditEventsTask{}))
	expected = time.Now().AddDate(0, 0, -90)
	assert.WithinDuration(t, expected, cleaner.cutoff, time.Minute)
}
