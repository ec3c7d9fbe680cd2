package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
	"github.com/phyn2-2/kikuyu-vocab/internal/tasks"
)

// TagStore defines the tag registry operations the controller needs.
type TagStore interface {
	GetAll() ([]entities.Tag, error)
	Search(query string) ([]entities.Tag, error)
	DeleteOrphanTags() (int64, error)
}

// TagsController exposes the tag registry: listing, typeahead suggestions
// and the admin-triggered orphan cleanup.
type TagsController struct {
	store      TagStore
	taskClient TaskEnqueuer
}

// NewTagsController creates the tags controller. taskClient may be nil;
// the cleanup then runs inline.
func NewTagsController(store TagStore, taskClient TaskEnqueuer) *TagsController {
	return &TagsController{store: store, taskClient: taskClient}
}

// GetAllTags returns every tag, alphabetically.
// GET /api/tags
func (tc *TagsController) GetAllTags(c *gin.Context) {
	tags, err := tc.store.GetAll()
	if err != nil {
		respondInternalError(c, err, "get all tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// Suggest returns tags matching a prefix, for typeahead.
// GET /api/tags/suggest?q=...
func (tc *TagsController) Suggest(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"tags": []entities.Tag{}})
		return
	}
	tags, err := tc.store.Search(query)
	if err != nil {
		respondInternalError(c, err, "suggest tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// CleanupOrphans removes tags no entry references. With a task queue the
// work is deferred; otherwise it runs inline.
// POST /api/admin/tags/cleanup
func (tc *TagsController) CleanupOrphans(c *gin.Context) {
	if tc.taskClient != nil {
		if _, err := tc.taskClient.Add(tasks.CleanupOrphanTagsTask{}).Save(); err != nil {
			log.Printf("Failed to enqueue tag cleanup: %v", err)
			respondInternalError(c, err, "enqueue tag cleanup")
			return
		}
		c.JSON(http.StatusAccepted, SuccessResponse{Message: "tag cleanup scheduled"})
		return
	}

	deleted, err := tc.store.DeleteOrphanTags()
	if err != nil {
		respondInternalError(c, err, "cleanup orphan tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
