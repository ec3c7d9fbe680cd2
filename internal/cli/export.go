package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/phyn2-2/kikuyu-vocab/internal/config"
	"github.com/phyn2-2/kikuyu-vocab/internal/database"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/entries"
	"github.com/phyn2-2/kikuyu-vocab/internal/exporters"
)

// ExportCommand exports approved vocabulary entries to markdown or CSV.
type ExportCommand struct {
	Format       string
	Output       string
	DatabasePath string
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

// ParseFlags parses command line flags
func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.Format, "format", "markdown", "Export format: markdown or csv")
	fs.StringVar(&cmd.Output, "out", "", "Output directory (markdown) or file path (csv)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export approved vocabulary entries.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export -format markdown -out ./export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -format csv -out ./vocab.csv\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Output == "" {
		fs.Usage()
		return fmt.Errorf("output path is required")
	}
	if cmd.Format != "markdown" && cmd.Format != "csv" {
		return fmt.Errorf("unknown format %q, expected markdown or csv", cmd.Format)
	}
	return nil
}

// Run executes the export command
func (cmd *ExportCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := entries.NewRepository(db.DB)

	var exporter exporters.EntryExporter
	switch cmd.Format {
	case "csv":
		exporter = exporters.NewCSVExporter(cmd.Output)
	default:
		exporter = exporters.NewMarkdownExporter(cmd.Output)
	}

	result, err := exporters.NewDatabaseExporter(repo, exporter).ExportApproved()
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d entries (%d files)\n", result.EntriesProcessed, result.FilesWritten)
	return nil
}
