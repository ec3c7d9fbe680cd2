// Package search builds the filtered, sorted, paginated views over
// vocabulary entries and owns the read-path policy: the visibility rule,
// sort fallback, page clamping and once-per-session view counting.
package search

import (
	"github.com/phyn2-2/kikuyu-vocab/internal/database/entries"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

// PageSize is the fixed listing page size.
const PageSize = 20

// RelatedLimit caps the related-entries strip on the detail view.
const RelatedLimit = 6

// Sort names accepted from callers. Anything else falls back to newest.
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortPopular      = "popular"
	SortAlphabetical = "alphabetical"
)

var sortOrder = map[string]string{
	SortNewest:       "created_at DESC",
	SortOldest:       "created_at ASC",
	SortPopular:      "view_count DESC",
	SortAlphabetical: "word ASC",
}

// EntryLister is the slice of the entry repository the engine reads from.
type EntryLister interface {
	List(q entries.ListQuery) ([]entities.VocabEntry, int64, error)
	GetVisible(id, viewerID uint) (*entities.VocabEntry, error)
	IncrementViewCount(id uint) error
	Related(categoryID, excludeID uint, limit int) ([]entities.VocabEntry, error)
	CategoriesWithApprovedCounts() ([]entries.CategoryCount, error)
	GetApprovedCount() (int64, error)
}

// ViewerSession tracks which entries a viewer session has already counted,
// so repeat views within one session do not inflate view counts.
type ViewerSession interface {
	HasViewed(entryID uint) bool
	MarkViewed(entryID uint)
}

// Filter holds the optional, conjunctive listing filters.
type Filter struct {
	Query        string
	CategorySlug string
	Difficulty   entities.Difficulty
	Language     entities.Language
}

// Page is one page of listing results.
type Page struct {
	Entries    []entities.VocabEntry `json:"entries"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
}

// Engine is the search and listing engine.
type Engine struct {
	lister EntryLister
}

// NewEngine creates an engine over the given lister.
func NewEngine(lister EntryLister) *Engine {
	return &Engine{lister: lister}
}

// List returns one page of entries visible to viewerID. The page number is
// 1-based and clamps to the available range; out-of-range pages return an
// empty page, never an error. Unrecognized sort names fall back to newest.
func (e *Engine) List(filter Filter, sort string, page int, viewerID uint) (Page, error) {
	orderBy, ok := sortOrder[sort]
	if !ok {
		orderBy = sortOrder[SortNewest]
	}
	if page < 1 {
		page = 1
	}

	list, total, err := e.lister.List(entries.ListQuery{
		ViewerID:     viewerID,
		Search:       filter.Query,
		CategorySlug: filter.CategorySlug,
		Difficulty:   filter.Difficulty,
		Language:     filter.Language,
		OrderBy:      orderBy,
		Limit:        PageSize,
		Offset:       (page - 1) * PageSize,
	})
	if err != nil {
		return Page{}, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	return Page{
		Entries:    list,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// View fetches one entry under the visibility rule and increments its view
// count at most once per viewer session. The entry is returned either way.
func (e *Engine) View(id, viewerID uint, session ViewerSession) (*entities.VocabEntry, error) {
	entry, err := e.lister.GetVisible(id, viewerID)
	if err != nil {
		return nil, err
	}

	if session != nil && !session.HasViewed(id) {
		if err := e.lister.IncrementViewCount(id); err != nil {
			return nil, err
		}
		session.MarkViewed(id)
		entry.ViewCount++
	}
	return entry, nil
}

// Related returns up to RelatedLimit other approved entries in the same
// category, empty when the entry has no category.
func (e *Engine) Related(entry *entities.VocabEntry) ([]entities.VocabEntry, error) {
	if entry.CategoryID == nil {
		return nil, nil
	}
	return e.lister.Related(*entry.CategoryID, entry.ID, RelatedLimit)
}

// Stats summarizes the public corpus for the listing page.
type Stats struct {
	TotalWords int64                   `json:"total_words"`
	Categories []entries.CategoryCount `json:"categories"`
}

// Stats returns the approved word count and per-category counts.
func (e *Engine) Stats() (Stats, error) {
	total, err := e.lister.GetApprovedCount()
	if err != nil {
		return Stats{}, err
	}
	categories, err := e.lister.CategoriesWithApprovedCounts()
	if err != nil {
		return Stats{}, err
	}
	return Stats{TotalWords: total, Categories: categories}, nil
}
