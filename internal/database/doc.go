// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, category seeding
//	├── entries/         # Vocabulary entry repository and invariants
//	├── tags/            # Tag registry and entry associations
//	├── social/          # Favorites and comments
//	└── audit/           # Audit event log
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./vocab.db")
//
//	// Create domain-specific repositories
//	entriesRepo := entries.NewRepository(db.DB)
//	tagsRepo := tags.NewRepository(db.DB)
//	socialRepo := social.NewRepository(db.DB)
//
// # Interface Implementations
//
// Store interfaces are declared next to their consumers (the HTTP
// controllers and the search engine); the repositories here satisfy them.
package database
