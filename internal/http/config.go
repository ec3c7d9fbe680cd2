package http

import (
	"github.com/phyn2-2/kikuyu-vocab/internal/auth"
	"github.com/phyn2-2/kikuyu-vocab/internal/database"
	"github.com/phyn2-2/kikuyu-vocab/internal/media"
	"github.com/phyn2-2/kikuyu-vocab/internal/moderation"
	"github.com/phyn2-2/kikuyu-vocab/internal/search"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	EntryStore EntryStore
	Engine     *search.Engine
	Workflow   *moderation.Workflow

	// Registries and aggregates
	TagResolver TagResolver
	TagStore    TagStore
	SocialStore SocialStore
	Social      SocialCounter

	// Media storage
	MediaStore media.Store

	// Audit trail
	Auditor     Auditor
	AuditReader AuditReader

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Task queue client (optional)
	TaskClient TaskEnqueuer

	// Demo mode blocks all write operations
	DemoMode bool

	// Application info
	Version string
}
