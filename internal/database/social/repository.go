// Package social provides database operations for the social aggregates:
// favorite toggling and comment attachment, each independently counted.
//
// Both operations are permitted only against approved entries. Actions on
// pending or rejected entries answer ErrNotFound so existence in another
// status never leaks.
package social

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/phyn2-2/kikuyu-vocab/internal/database/entries"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

const (
	MinCommentLength = 3
	MaxCommentLength = 1000
)

// ErrInvalidComment signals a comment whose trimmed content is outside the
// allowed length range.
var ErrInvalidComment = errors.New("social: comment length out of range")

// Repository handles favorites and comments.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new social repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FavoriteState is the JSON-able result of a toggle.
type FavoriteState struct {
	Favorited bool  `json:"favorited"`
	Count     int64 `json:"count"`
}

// ToggleFavorite flips the user's favorite on an approved entry and
// returns the new state with the updated total. It is a flip, not a set:
// callers retrying after a failure must read state first.
func (r *Repository) ToggleFavorite(entryID, userID uint) (FavoriteState, error) {
	var state FavoriteState

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireApproved(tx, entryID); err != nil {
			return err
		}

		var existing entities.Favorite
		err := tx.Where("entry_id = ? AND user_id = ?", entryID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			state.Favorited = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			favorite := entities.Favorite{EntryID: entryID, UserID: userID}
			if err := tx.Create(&favorite).Error; err != nil {
				return err
			}
			state.Favorited = true
		default:
			return err
		}

		return tx.Model(&entities.Favorite{}).
			Where("entry_id = ?", entryID).
			Count(&state.Count).Error
	})
	return state, err
}

// IsFavorited reports whether the user has favorited the entry.
func (r *Repository) IsFavorited(entryID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).
		Where("entry_id = ? AND user_id = ?", entryID, userID).
		Count(&count).Error
	return count > 0, err
}

// FavoriteCount returns the favorite cardinality without loading the set.
func (r *Repository) FavoriteCount(entryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).Where("entry_id = ?", entryID).Count(&count).Error
	return count, err
}

// AddComment attaches a comment to an approved entry. Content is trimmed
// and must be between MinCommentLength and MaxCommentLength characters.
func (r *Repository) AddComment(entryID, userID uint, content string) (*entities.Comment, error) {
	content = strings.TrimSpace(content)
	if len(content) < MinCommentLength || len(content) > MaxCommentLength {
		return nil, ErrInvalidComment
	}

	comment := &entities.Comment{
		EntryID: entryID,
		UserID:  userID,
		Content: content,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireApproved(tx, entryID); err != nil {
			return err
		}
		return tx.Create(comment).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComments lists an entry's comments, newest first.
func (r *Repository) GetComments(entryID uint) ([]entities.Comment, error) {
	var comments []entities.Comment
	err := r.db.Where("entry_id = ?", entryID).Order("created_at DESC").Find(&comments).Error
	return comments, err
}

// CommentCount returns the comment cardinality without loading the set.
func (r *Repository) CommentCount(entryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Comment{}).Where("entry_id = ?", entryID).Count(&count).Error
	return count, err
}

// SetCommentFlag flags or unflags a comment for moderation. The flag is
// independent of the owning entry's status.
func (r *Repository) SetCommentFlag(commentID uint, flagged bool) error {
	result := r.db.Model(&entities.Comment{}).
		Where("id = ?", commentID).
		Update("is_flagged", flagged)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entries.ErrNotFound
	}
	return nil
}

// requireApproved answers ErrNotFound for absent or non-approved entries.
func requireApproved(tx *gorm.DB, entryID uint) error {
	var count int64
	err := tx.Model(&entities.VocabEntry{}).
		Where("id = ? AND status = ?", entryID, entities.StatusApproved).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return entries.ErrNotFound
	}
	return nil
}
