// Package entries provides database operations for vocabulary entries and
// owns the repository-level invariants: (word, language) uniqueness,
// ownership checks, the owner re-submission rule and optimistic concurrency
// on concurrent mutations.
package entries

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
	"github.com/phyn2-2/kikuyu-vocab/internal/media"
)

var (
	// ErrDuplicateEntry signals a (word, language) pair that already exists.
	ErrDuplicateEntry = errors.New("entries: duplicate word for language")
	// ErrNotFound covers both absent entries and entries invisible to the
	// caller, so existence in another status is never leaked.
	ErrNotFound = errors.New("entries: not found")
	// ErrForbidden signals a mutation by a non-owner.
	ErrForbidden = errors.New("entries: forbidden")
	// ErrConflict signals a lost-update race detected by the updated_at
	// compare-and-swap. Callers re-read and retry.
	ErrConflict = errors.New("entries: concurrent modification")
)

// Repository handles all vocabulary entry database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new entries repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Draft holds the fields a contributor submits for a new entry. Tags must
// already be resolved through the tag registry.
type Draft struct {
	Word               string
	Translation        string
	Language           entities.Language
	CategoryID         *uint
	Difficulty         entities.Difficulty
	ExampleSentence    string
	ExampleTranslation string
	PronunciationGuide string
	Notes              string
	AudioRef           string
	ImageRef           string
	Tags               []entities.Tag
}

// Patch holds optional field changes for an update. Nil pointers mean
// "unchanged"; an empty string through a pointer clears the field.
type Patch struct {
	Word               *string
	Translation        *string
	Language           *entities.Language
	CategoryID         *uint
	ClearCategory      bool
	Difficulty         *entities.Difficulty
	ExampleSentence    *string
	ExampleTranslation *string
	PronunciationGuide *string
	Notes              *string
	AudioRef           *string
	ImageRef           *string
	Tags               *[]entities.Tag // full replacement when non-nil
}

// Create persists a new entry in pending status owned by ownerID. The
// (word, language) uniqueness is enforced by the composite unique index;
// a violation surfaces as ErrDuplicateEntry regardless of who races whom.
func (r *Repository) Create(draft Draft, ownerID uint) (*entities.VocabEntry, error) {
	if draft.Language == "" {
		draft.Language = entities.LanguageKikuyu
	}
	if !entities.ValidLanguage(draft.Language) {
		return nil, fmt.Errorf("entries: unknown language %q", draft.Language)
	}
	if draft.Difficulty == "" {
		draft.Difficulty = entities.DifficultyBeginner
	}

	entry := &entities.VocabEntry{
		Word:               draft.Word,
		Translation:        draft.Translation,
		Language:           draft.Language,
		CategoryID:         draft.CategoryID,
		Difficulty:         draft.Difficulty,
		ExampleSentence:    draft.ExampleSentence,
		ExampleTranslation: draft.ExampleTranslation,
		PronunciationGuide: draft.PronunciationGuide,
		Notes:              draft.Notes,
		AudioRef:           draft.AudioRef,
		ImageRef:           draft.ImageRef,
		Status:             entities.StatusPending,
		UserID:             ownerID,
		Tags:               draft.Tags,
	}

	// Omit prevents GORM from upserting the already-resolved tag rows;
	// only the join rows are written.
	err := r.db.Omit("Tags.*").Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateEntry
	}
	if err != nil {
		return nil, err
	}
	return r.Get(entry.ID)
}

// Get retrieves an entry with its tags and category, regardless of status.
func (r *Repository) Get(id uint) (*entities.VocabEntry, error) {
	var entry entities.VocabEntry
	err := r.db.Preload("Tags").Preload("Category").First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetVisible retrieves an entry applying the visibility rule: approved
// entries are public, anything else is visible to its owner only.
func (r *Repository) GetVisible(id, viewerID uint) (*entities.VocabEntry, error) {
	entry, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if entry.Status != entities.StatusApproved && (viewerID == 0 || entry.UserID != viewerID) {
		return nil, ErrNotFound
	}
	return entry, nil
}

// Update applies a patch on behalf of actingUser. Only the owner may edit.
// Editing a rejected entry implicitly resets it to pending and clears the
// review metadata; pending and approved entries keep their status.
//
// Returned refs are the previous media assets displaced by the patch; the
// caller releases them through the media store only after this commit, so
// a failed write never loses the sole copy of an asset.
func (r *Repository) Update(id uint, patch Patch, actingUser uint) (*entities.VocabEntry, []media.Ref, error) {
	var replaced []media.Ref

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var entry entities.VocabEntry
		if err := tx.First(&entry, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if entry.UserID != actingUser {
			return ErrForbidden
		}
		seenUpdatedAt := entry.UpdatedAt

		updates := map[string]any{}
		if patch.Word != nil {
			updates["word"] = *patch.Word
		}
		if patch.Translation != nil {
			updates["translation"] = *patch.Translation
		}
		if patch.Language != nil {
			if !entities.ValidLanguage(*patch.Language) {
				return fmt.Errorf("entries: unknown language %q", *patch.Language)
			}
			updates["language"] = *patch.Language
		}
		if patch.ClearCategory {
			updates["category_id"] = nil
		} else if patch.CategoryID != nil {
			updates["category_id"] = *patch.CategoryID
		}
		if patch.Difficulty != nil {
			if !entities.ValidDifficulty(*patch.Difficulty) {
				return fmt.Errorf("entries: unknown difficulty %q", *patch.Difficulty)
			}
			updates["difficulty"] = *patch.Difficulty
		}
		if patch.ExampleSentence != nil {
			updates["example_sentence"] = *patch.ExampleSentence
		}
		if patch.ExampleTranslation != nil {
			updates["example_translation"] = *patch.ExampleTranslation
		}
		if patch.PronunciationGuide != nil {
			updates["pronunciation_guide"] = *patch.PronunciationGuide
		}
		if patch.Notes != nil {
			updates["notes"] = *patch.Notes
		}
		if patch.AudioRef != nil && *patch.AudioRef != entry.AudioRef {
			if entry.AudioRef != "" {
				replaced = append(replaced, media.Ref(entry.AudioRef))
			}
			updates["audio_ref"] = *patch.AudioRef
		}
		if patch.ImageRef != nil && *patch.ImageRef != entry.ImageRef {
			if entry.ImageRef != "" {
				replaced = append(replaced, media.Ref(entry.ImageRef))
			}
			updates["image_ref"] = *patch.ImageRef
		}

		// Owner re-submission rule: an edit of a rejected entry goes back
		// into the review queue with clean review metadata.
		if entry.Status == entities.StatusRejected {
			updates["status"] = entities.StatusPending
			updates["reviewed_by_id"] = nil
			updates["reviewed_at"] = nil
			updates["rejection_reason"] = ""
		}

		result := tx.Model(&entities.VocabEntry{}).
			Where("id = ? AND updated_at = ?", id, seenUpdatedAt).
			Updates(updates)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEntry
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}

		if patch.Tags != nil {
			if err := tx.Model(&entry).Association("Tags").Replace(*patch.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	entry, err := r.Get(id)
	if err != nil {
		return nil, nil, err
	}
	return entry, replaced, nil
}

// Delete removes an entry with its comments, favorites and tag links.
// Only the owner (or an admin) may delete. The returned refs are the media
// assets to release; their cleanup is best-effort and must not have blocked
// the removal, so it happens after the record is gone.
func (r *Repository) Delete(id, actingUser uint, isAdmin bool) ([]media.Ref, error) {
	var refs []media.Ref

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var entry entities.VocabEntry
		if err := tx.First(&entry, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if entry.UserID != actingUser && !isAdmin {
			return ErrForbidden
		}

		if entry.AudioRef != "" {
			refs = append(refs, media.Ref(entry.AudioRef))
		}
		if entry.ImageRef != "" {
			refs = append(refs, media.Ref(entry.ImageRef))
		}

		if err := tx.Where("entry_id = ?", id).Delete(&entities.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&entry).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&entities.VocabEntry{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// ApplyReview performs a reviewer-driven field update with the same
// compare-and-swap protection as owner edits, so an owner edit and a
// reviewer action racing each other cannot silently drop writes.
func (r *Repository) ApplyReview(id uint, seenUpdatedAt time.Time, updates map[string]any) error {
	result := r.db.Model(&entities.VocabEntry{}).
		Where("id = ? AND updated_at = ?", id, seenUpdatedAt).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a vanished row from a concurrent edit.
		var count int64
		if err := r.db.Model(&entities.VocabEntry{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

// IncrementViewCount bumps the monotonic view counter without touching
// updated_at, so views never interfere with the concurrency check.
func (r *Repository) IncrementViewCount(id uint) error {
	return r.db.Model(&entities.VocabEntry{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// OwnerStats summarizes a contributor's submissions per status.
type OwnerStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// GetOwnerStats returns contribution statistics for a user's dashboard.
func (r *Repository) GetOwnerStats(userID uint) (OwnerStats, error) {
	var stats OwnerStats

	if err := r.db.Model(&entities.VocabEntry{}).Where("user_id = ?", userID).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	for status, dest := range map[entities.EntryStatus]*int64{
		entities.StatusPending:  &stats.Pending,
		entities.StatusApproved: &stats.Approved,
		entities.StatusRejected: &stats.Rejected,
	} {
		if err := r.db.Model(&entities.VocabEntry{}).
			Where("user_id = ? AND status = ?", userID, status).
			Count(dest).Error; err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// GetEntriesForOwner lists a contributor's own entries in every status.
func (r *Repository) GetEntriesForOwner(userID uint, limit, offset int) ([]entities.VocabEntry, int64, error) {
	var total int64
	if err := r.db.Model(&entities.VocabEntry{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []entities.VocabEntry
	query := r.db.Preload("Tags").Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&list).Error
	return list, total, err
}
