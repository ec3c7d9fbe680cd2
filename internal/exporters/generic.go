package exporters

import "github.com/phyn2-2/kikuyu-vocab/internal/entities"

type EntryExporter interface {
	Export(entries []entities.VocabEntry) (ExportResult, error)
}

type ExportResult struct {
	EntriesProcessed int `json:"entries_processed"`
	EntriesFailed    int `json:"entries_failed"`
	FilesWritten     int `json:"files_written"`
}
