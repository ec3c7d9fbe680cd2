package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
	"github.com/phyn2-2/kikuyu-vocab/internal/utils"
)

// MarkdownExporter writes one markdown file per category into the target
// directory. Entries without a category land in "uncategorized.md".
type MarkdownExporter struct {
	TargetDir string
	Result    ExportResult
}

func NewMarkdownExporter(targetDir string) *MarkdownExporter {
	return &MarkdownExporter{
		TargetDir: targetDir,
		Result:    ExportResult{},
	}
}

func (exporter *MarkdownExporter) ensureDir() error {
	return os.MkdirAll(exporter.TargetDir, 0755)
}

// GenerateMarkdown renders a category's entries as a markdown document with
// frontmatter.
func GenerateMarkdown(categoryName string, entries []entities.VocabEntry) string {
	var builder strings.Builder

	currentDateTime := time.Now().Format("2006-01-02")
	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_type: vocabulary\n")
	fmt.Fprintf(&builder, "category: \"%s\"\n", strings.ReplaceAll(categoryName, "\"", "\\\""))
	fmt.Fprintf(&builder, "exported_at: %s\n", currentDateTime)
	fmt.Fprintf(&builder, "entries: %d\n", len(entries))
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "# %s\n\n", categoryName)

	for _, entry := range entries {
		fmt.Fprintf(&builder, "## %s\n\n", entry.Word)
		fmt.Fprintf(&builder, "**Translation:** %s (%s, %s)\n\n", entry.Translation, entry.Language, entry.Difficulty)
		if entry.PronunciationGuide != "" {
			fmt.Fprintf(&builder, "**Pronunciation:** %s\n\n", entry.PronunciationGuide)
		}
		if entry.ExampleSentence != "" {
			fmt.Fprintf(&builder, "> %s\n", strings.ReplaceAll(entry.ExampleSentence, "\n", "\n> "))
			if entry.ExampleTranslation != "" {
				fmt.Fprintf(&builder, ">\n> %s\n", strings.ReplaceAll(entry.ExampleTranslation, "\n", "\n> "))
			}
			fmt.Fprintf(&builder, "\n")
		}
		if entry.Notes != "" {
			fmt.Fprintf(&builder, "**Notes:** %s\n\n", entry.Notes)
		}
		if len(entry.Tags) > 0 {
			names := make([]string, 0, len(entry.Tags))
			for _, tag := range entry.Tags {
				names = append(names, tag.Name)
			}
			fmt.Fprintf(&builder, "Tags: %s\n\n", strings.Join(names, ", "))
		}
	}

	return builder.String()
}

func (exporter *MarkdownExporter) exportCategory(categoryName string, entries []entities.VocabEntry) (string, error) {
	outputPath := filepath.Join(exporter.TargetDir, utils.SanitizeFilename(categoryName)+".md")

	content := GenerateMarkdown(categoryName, entries)
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return outputPath, nil
}

func (exporter *MarkdownExporter) Export(entries []entities.VocabEntry) (ExportResult, error) {
	// Reset result state for each export
	exporter.Result = ExportResult{}

	if err := exporter.ensureDir(); err != nil {
		return ExportResult{}, err
	}

	byCategory := make(map[string][]entities.VocabEntry)
	for _, entry := range entries {
		name := "uncategorized"
		if entry.Category != nil {
			name = entry.Category.Name
		}
		byCategory[name] = append(byCategory[name], entry)
	}

	for name, group := range byCategory {
		if _, err := exporter.exportCategory(name, group); err != nil {
			exporter.Result.EntriesFailed += len(group)
			return exporter.Result, err
		}
		exporter.Result.FilesWritten++
		exporter.Result.EntriesProcessed += len(group)
	}

	return exporter.Result, nil
}
