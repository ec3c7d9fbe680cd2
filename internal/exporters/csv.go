package exporters

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

// CSVExporter writes all entries into a single CSV file.
type CSVExporter struct {
	OutputPath string
	Result     ExportResult
}

func NewCSVExporter(outputPath string) *CSVExporter {
	return &CSVExporter{OutputPath: outputPath}
}

var csvHeader = []string{
	"word", "translation", "language", "category", "difficulty",
	"example_sentence", "example_translation", "pronunciation_guide",
	"notes", "tags", "view_count",
}

func (exporter *CSVExporter) Export(entries []entities.VocabEntry) (ExportResult, error) {
	exporter.Result = ExportResult{}

	file, err := os.Create(exporter.OutputPath)
	if err != nil {
		return ExportResult{}, err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return ExportResult{}, err
	}

	for _, entry := range entries {
		category := ""
		if entry.Category != nil {
			category = entry.Category.Name
		}
		names := make([]string, 0, len(entry.Tags))
		for _, tag := range entry.Tags {
			names = append(names, tag.Name)
		}

		record := []string{
			entry.Word,
			entry.Translation,
			string(entry.Language),
			category,
			string(entry.Difficulty),
			entry.ExampleSentence,
			entry.ExampleTranslation,
			entry.PronunciationGuide,
			entry.Notes,
			strings.Join(names, ";"),
			strconv.FormatUint(entry.ViewCount, 10),
		}
		if err := writer.Write(record); err != nil {
			exporter.Result.EntriesFailed++
			return exporter.Result, err
		}
		exporter.Result.EntriesProcessed++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return exporter.Result, err
	}
	exporter.Result.FilesWritten = 1
	return exporter.Result, nil
}
