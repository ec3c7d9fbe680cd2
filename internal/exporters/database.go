package exporters

import (
	"fmt"
	"log"

	"github.com/phyn2-2/kikuyu-vocab/internal/database/entries"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

const fetchBatchSize = 200

// DatabaseExporter streams approved entries out of the repository in
// batches and hands them to the configured exporter.
type DatabaseExporter struct {
	repo     *entries.Repository
	exporter EntryExporter
}

func NewDatabaseExporter(repo *entries.Repository, exporter EntryExporter) *DatabaseExporter {
	return &DatabaseExporter{
		repo:     repo,
		exporter: exporter,
	}
}

// ExportApproved exports every approved entry. Pending and rejected
// submissions never leave the database.
func (e *DatabaseExporter) ExportApproved() (ExportResult, error) {
	var all []entities.VocabEntry
	offset := 0
	for {
		batch, total, err := e.repo.ListByStatus(entities.StatusApproved, fetchBatchSize, offset)
		if err != nil {
			return ExportResult{}, fmt.Errorf("failed to load approved entries: %w", err)
		}
		all = append(all, batch...)
		offset += len(batch)
		if len(batch) == 0 || int64(offset) >= total {
			break
		}
	}

	result, err := e.exporter.Export(all)
	if err != nil {
		return result, err
	}

	log.Printf("Export completed: %d entries processed, %d files written, %d entries failed",
		result.EntriesProcessed, result.FilesWritten, result.EntriesFailed)
	return result, nil
}
