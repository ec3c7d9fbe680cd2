package entries

import (
	"gorm.io/gorm"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

// ListQuery describes one page of the public listing. OrderBy must be one
// of the fragments the search engine maps from its sort names; it is never
// built from raw user input.
type ListQuery struct {
	ViewerID     uint // 0 = anonymous
	Search       string
	CategorySlug string
	Difficulty   entities.Difficulty
	Language     entities.Language
	OrderBy      string
	Limit        int
	Offset       int
}

// List returns one page of entries visible to the viewer plus the total
// match count. Anonymous callers see approved entries only; authenticated
// callers additionally see their own entries in any status.
//
// The tag match uses an IN subquery instead of a join, so an entry with
// several matching tags still yields a single row.
func (r *Repository) List(q ListQuery) ([]entities.VocabEntry, int64, error) {
	base := func() *gorm.DB {
		query := r.db.Model(&entities.VocabEntry{})

		if q.ViewerID > 0 {
			query = query.Where("status = ? OR user_id = ?", entities.StatusApproved, q.ViewerID)
		} else {
			query = query.Where("status = ?", entities.StatusApproved)
		}

		if q.Search != "" {
			pattern := "%" + q.Search + "%"
			query = query.Where(`(LOWER(word) LIKE LOWER(?)
				OR LOWER(translation) LIKE LOWER(?)
				OR LOWER(example_sentence) LIKE LOWER(?)
				OR id IN (
					SELECT entry_tags.vocab_entry_id FROM entry_tags
					JOIN tags ON tags.id = entry_tags.tag_id
					WHERE LOWER(tags.name) LIKE LOWER(?)
				))`, pattern, pattern, pattern, pattern)
		}
		if q.CategorySlug != "" {
			query = query.Where("category_id IN (SELECT id FROM categories WHERE slug = ?)", q.CategorySlug)
		}
		if q.Difficulty != "" {
			query = query.Where("difficulty = ?", q.Difficulty)
		}
		if q.Language != "" {
			query = query.Where("language = ?", q.Language)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base().Preload("Tags").Preload("Category")
	if q.OrderBy != "" {
		query = query.Order(q.OrderBy)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var list []entities.VocabEntry
	err := query.Find(&list).Error
	return list, total, err
}

// Related returns up to limit other approved entries sharing a category.
func (r *Repository) Related(categoryID, excludeID uint, limit int) ([]entities.VocabEntry, error) {
	var list []entities.VocabEntry
	err := r.db.Preload("Category").
		Where("category_id = ? AND status = ? AND id <> ?", categoryID, entities.StatusApproved, excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// CategoryCount pairs a category with its approved entry count, for the
// filter dropdown on the listing page.
type CategoryCount struct {
	entities.Category
	WordCount int64 `json:"word_count"`
}

// CategoriesWithApprovedCounts returns categories that have at least one
// approved entry, with their counts.
func (r *Repository) CategoriesWithApprovedCounts() ([]CategoryCount, error) {
	var counts []CategoryCount
	err := r.db.Raw(`
		SELECT categories.*, COUNT(entries.id) AS word_count
		FROM categories
		JOIN entries ON entries.category_id = categories.id AND entries.status = ?
		GROUP BY categories.id
		HAVING COUNT(entries.id) > 0
		ORDER BY categories.name ASC
	`, entities.StatusApproved).Scan(&counts).Error
	return counts, err
}

// ListByStatus returns entries in a given status, oldest first, for the
// review queue.
func (r *Repository) ListByStatus(status entities.EntryStatus, limit, offset int) ([]entities.VocabEntry, int64, error) {
	var total int64
	if err := r.db.Model(&entities.VocabEntry{}).Where("status = ?", status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []entities.VocabEntry
	query := r.db.Preload("Tags").Preload("Category").
		Where("status = ?", status).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&list).Error
	return list, total, err
}

// GetApprovedCount returns the number of publicly visible entries.
func (r *Repository) GetApprovedCount() (int64, error) {
	var count int64
	err := r.db.Model(&entities.VocabEntry{}).
		Where("status = ?", entities.StatusApproved).
		Count(&count).Error
	return count, err
}
