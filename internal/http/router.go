// Package http wires the JSON API: public listing and detail views,
// authenticated contribution endpoints, reviewer moderation routes and
// admin maintenance triggers.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/phyn2-2/kikuyu-vocab/internal/auth"
	"github.com/phyn2-2/kikuyu-vocab/internal/demo"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	if cfg.DemoMode {
		router.Use(demo.NewMiddleware(true).Handler())
	}

	// CSRF runs before the session middleware so the session context is
	// layered on top of CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadAndSave())
	}
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	entriesController := NewEntriesController(
		cfg.EntryStore,
		cfg.Engine,
		cfg.TagResolver,
		cfg.Social,
		cfg.MediaStore,
		cfg.SessionManager,
		cfg.TaskClient,
		cfg.Auditor,
	)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Account endpoints
	if cfg.AuthService != nil {
		users := NewUsersController(cfg.AuthService, cfg.SessionManager)
		router.POST("/api/auth/register", users.Register)
		router.POST("/api/auth/login", users.Login)
		router.POST("/api/auth/logout", users.Logout)

		authed := router.Group("", cfg.AuthMiddleware.RequireAuth())
		authed.GET("/api/auth/me", users.Me)
		authed.POST("/api/auth/token", users.GenerateToken)
		authed.DELETE("/api/auth/token", users.RevokeToken)
		authed.POST("/api/auth/password", users.ChangePassword)

		admin := router.Group("", cfg.AuthMiddleware.RequireRole(entities.RoleAdmin))
		admin.POST("/api/admin/users/:id/role", users.SetRole)
	}

	// Public read endpoints: the listing applies the visibility rule per
	// caller, so anonymous and authenticated requests share the routes.
	router.GET("/api/entries", entriesController.List)
	router.GET("/api/entries/stats", entriesController.Stats)
	router.GET("/api/entries/:id", entriesController.Get)
	router.GET("/api/entries/:id/audio", entriesController.ServeAudio)
	router.GET("/api/entries/:id/image", entriesController.ServeImage)

	// Category endpoints
	categories := NewCategoriesController(cfg.Database)
	router.GET("/api/categories", categories.GetAll)

	// Tag endpoints
	if cfg.TagStore != nil {
		tagsController := NewTagsController(cfg.TagStore, cfg.TaskClient)
		router.GET("/api/tags", tagsController.GetAllTags)
		router.GET("/api/tags/suggest", tagsController.Suggest)

		admin := router.Group("", cfg.AuthMiddleware.RequireRole(entities.RoleAdmin))
		admin.POST("/api/admin/tags/cleanup", tagsController.CleanupOrphans)
	}

	// Contribution endpoints
	authed := router.Group("", cfg.AuthMiddleware.RequireAuth())
	authed.POST("/api/entries", entriesController.Create)
	authed.PATCH("/api/entries/:id", entriesController.Update)
	authed.DELETE("/api/entries/:id", entriesController.Delete)
	authed.GET("/api/my/entries", entriesController.MyEntries)
	authed.GET("/api/my/stats", entriesController.MyStats)

	// Social endpoints
	if cfg.SocialStore != nil {
		socialController := NewSocialController(cfg.SocialStore)
		router.GET("/api/entries/:id/comments", socialController.GetComments)
		authed.POST("/api/entries/:id/favorite", socialController.ToggleFavorite)
		authed.POST("/api/entries/:id/comments", socialController.AddComment)

		reviewers := router.Group("", cfg.AuthMiddleware.RequireReviewer())
		reviewers.POST("/api/moderation/comments/:id/flag", socialController.FlagComment)
	}

	// Moderation endpoints
	if cfg.Workflow != nil {
		moderationController := NewModerationController(cfg.Workflow, cfg.AuditReader)
		reviewers := router.Group("", cfg.AuthMiddleware.RequireReviewer())
		reviewers.GET("/api/moderation/queue", moderationController.PendingQueue)
		reviewers.POST("/api/moderation/entries/approve", moderationController.BulkApprove)
		reviewers.POST("/api/moderation/entries/:id/approve", moderationController.Approve)
		reviewers.POST("/api/moderation/entries/:id/reject", moderationController.Reject)
		reviewers.POST("/api/moderation/entries/:id/reset", moderationController.Reset)
		reviewers.GET("/api/moderation/entries/:id/audit", moderationController.EntryAudit)
		reviewers.GET("/api/moderation/audit", moderationController.AuditLog)
		reviewers.GET("/api/moderation/media/failed", moderationController.FailedReleases)
	}

	return router
}
