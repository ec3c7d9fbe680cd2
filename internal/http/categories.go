package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phyn2-2/kikuyu-vocab/internal/database"
)

// CategoriesController exposes the seeded category list.
type CategoriesController struct {
	db *database.Database
}

// NewCategoriesController creates the categories controller.
func NewCategoriesController(db *database.Database) *CategoriesController {
	return &CategoriesController{db: db}
}

// GetAll returns every category, alphabetically.
// GET /api/categories
func (cc *CategoriesController) GetAll(c *gin.Context) {
	categories, err := cc.db.GetAllCategories()
	if err != nil {
		respondInternalError(c, err, "get categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
