package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phyn2-2/kikuyu-vocab/internal/database/social"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

// SocialStore defines the favorite and comment operations the controller
// needs. All mutations apply to approved entries only.
type SocialStore interface {
	ToggleFavorite(entryID, userID uint) (social.FavoriteState, error)
	AddComment(entryID, userID uint, content string) (*entities.Comment, error)
	GetComments(entryID uint) ([]entities.Comment, error)
	SetCommentFlag(commentID uint, flagged bool) error
}

// SocialController handles favorites and comments.
type SocialController struct {
	store SocialStore
}

// NewSocialController creates the social controller.
func NewSocialController(store SocialStore) *SocialController {
	return &SocialController{store: store}
}

// ToggleFavorite flips the caller's favorite on an entry and returns the
// new state with the updated total.
// POST /api/entries/:id/favorite
func (sc *SocialController) ToggleFavorite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	state, err := sc.store.ToggleFavorite(id, GetUserID(c))
	if err != nil {
		respondDomainError(c, err, "toggle favorite")
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetComments lists an entry's comments, newest first.
// GET /api/entries/:id/comments
func (sc *SocialController) GetComments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	comments, err := sc.store.GetComments(id)
	if err != nil {
		respondInternalError(c, err, "get comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CommentRequest carries the comment content.
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// AddComment attaches a comment to an approved entry.
// POST /api/entries/:id/comments
func (sc *SocialController) AddComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "content is required")
		return
	}
	comment, err := sc.store.AddComment(id, GetUserID(c), req.Content)
	if err != nil {
		respondDomainError(c, err, "add comment")
		return
	}
	respondCreated(c, comment)
}

// FlagRequest carries the moderation flag state.
type FlagRequest struct {
	Flagged *bool `json:"flagged" binding:"required"`
}

// FlagComment flags or unflags a comment for moderation. Reviewer-only.
// POST /api/moderation/comments/:id/flag
func (sc *SocialController) FlagComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "flagged is required")
		return
	}
	if err := sc.store.SetCommentFlag(id, *req.Flagged); err != nil {
		respondDomainError(c, err, "flag comment")
		return
	}
	respondSuccess(c, "comment flag updated")
}
