// Package entrypoint assembles the application: database, repositories,
// media storage, task queue, scheduler, authentication and the HTTP server
// with graceful shutdown.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phyn2-2/kikuyu-vocab/internal/auth"
	"github.com/phyn2-2/kikuyu-vocab/internal/config"
	"github.com/phyn2-2/kikuyu-vocab/internal/database"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/audit"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/entries"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/social"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/tags"
	http_controllers "github.com/phyn2-2/kikuyu-vocab/internal/http"
	"github.com/phyn2-2/kikuyu-vocab/internal/media"
	"github.com/phyn2-2/kikuyu-vocab/internal/moderation"
	"github.com/phyn2-2/kikuyu-vocab/internal/scheduler"
	"github.com/phyn2-2/kikuyu-vocab/internal/search"
	"github.com/phyn2-2/kikuyu-vocab/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before the listener so in-flight requests
	// can still enqueue work.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires all dependencies and serves the API.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting kikuyu-vocab v%s", version)
	if cfg.Global.DemoMode {
		log.Printf("Demo mode enabled: write operations are blocked")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	entriesRepo := entries.NewRepository(db.DB)
	tagsRepo := tags.NewRepository(db.DB)
	socialRepo := social.NewRepository(db.DB)
	auditRepo := audit.NewRepository(db.DB)

	mediaStore, err := media.NewLocalStore(cfg.Media.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}
	log.Printf("Media storage initialized at %s", cfg.Media.Dir)

	// Task queue for deferred media releases and periodic cleanup.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewReleaseMediaQueue(mediaStore, auditRepo),
			tasks.NewCleanupOrphanTagsQueue(tagsRepo),
			tasks.NewCleanupAuditEventsQueue(auditRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic maintenance rides on the task queue.
	var maintenance *scheduler.Maintenance
	if cfg.Maintenance.Enabled && taskClient != nil {
		maintenance = scheduler.NewMaintenance(taskClient, scheduler.Config{
			Schedule:           cfg.Maintenance.Schedule,
			AuditRetentionDays: cfg.Audit.RetentionDays,
		})
		if err := maintenance.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
	}

	// Authentication is always on; the public read surface simply allows
	// anonymous requests through.
	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	authMiddleware := auth.NewMiddleware(authService, sessionManager)

	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	hasUsers, _ := authService.HasUsers()
	if !hasUsers {
		log.Printf("No users found. Run 'create-user' to create an administrator account.")
	}

	engine := search.NewEngine(entriesRepo)
	workflow := moderation.NewWorkflow(entriesRepo, auditRepo)

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		EntryStore:     entriesRepo,
		Engine:         engine,
		Workflow:       workflow,
		TagResolver:    tagsRepo,
		TagStore:       tagsRepo,
		SocialStore:    socialRepo,
		Social:         socialRepo,
		MediaStore:     mediaStore,
		Auditor:        auditRepo,
		AuditReader:    auditRepo,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		DemoMode:       cfg.Global.DemoMode,
		Version:        version,
	}
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
