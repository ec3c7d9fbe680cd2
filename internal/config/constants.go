package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./kikuyu-vocab.db"

	// DefaultMediaDir is the default base directory for uploaded media
	DefaultMediaDir = "./media"
)
