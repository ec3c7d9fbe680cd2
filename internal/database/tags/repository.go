// Package tags is the tag registry: it normalizes and deduplicates
// free-text tags into canonical records and owns the entry/tag
// associations.
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	resolved, err := repo.Resolve([]string{"Food", " food ", "greetings"})
package tags

import (
	"regexp"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize returns the canonical form of a raw tag name: trimmed and
// lower-cased. An empty result means the input carries no tag.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Slugify derives the URL slug for a canonical tag name.
func Slugify(name string) string {
	slug := slugInvalid.ReplaceAllString(name, "-")
	return strings.Trim(slug, "-")
}

// Resolve normalizes the raw names, drops empties, deduplicates and
// get-or-creates a canonical tag per distinct name. Input order does not
// affect the resulting set; the result is sorted by name for stable output.
func (r *Repository) Resolve(raw []string) ([]entities.Tag, error) {
	seen := make(map[string]bool, len(raw))
	var names []string
	for _, name := range raw {
		normalized := Normalize(name)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		names = append(names, normalized)
	}
	sort.Strings(names)

	resolved := make([]entities.Tag, 0, len(names))
	for _, name := range names {
		tag, err := r.GetOrCreate(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *tag)
	}
	return resolved, nil
}

// GetOrCreate retrieves the tag with the given canonical name, creating it
// on first use. Creation races fall back to a re-read so concurrent
// resolvers of the same name converge on one record.
func (r *Repository) GetOrCreate(name string) (*entities.Tag, error) {
	name = Normalize(name)

	var tag entities.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	tag = entities.Tag{Name: name, Slug: Slugify(name)}
	if createErr := r.db.Create(&tag).Error; createErr != nil {
		// Lost the creation race; the row exists now.
		if findErr := r.db.Where("name = ?", name).First(&tag).Error; findErr == nil {
			return &tag, nil
		}
		return nil, createErr
	}
	return &tag, nil
}

// ReplaceEntryTags atomically replaces the full tag set on an entry.
// Tags are whatever was last submitted; no diffing.
func (r *Repository) ReplaceEntryTags(entryID uint, tags []entities.Tag) error {
	var entry entities.VocabEntry
	if err := r.db.First(&entry, entryID).Error; err != nil {
		return err
	}
	return r.db.Model(&entry).Association("Tags").Replace(tags)
}

// GetAll returns every tag ordered by name.
func (r *Repository) GetAll() ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

// GetByID retrieves a tag by ID.
func (r *Repository) GetByID(id uint) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Search finds tags by case-insensitive partial name match, for
// autocomplete suggestions.
func (r *Repository) Search(query string) ([]entities.Tag, error) {
	var tags []entities.Tag
	pattern := "%" + Normalize(query) + "%"
	err := r.db.Where("name LIKE ?", pattern).Order("name ASC").Find(&tags).Error
	return tags, err
}

// DeleteOrphanTags removes tags no entry references. Tags are never
// deleted automatically on unlink; this runs as an explicit admin task.
func (r *Repository) DeleteOrphanTags() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT tag_id FROM entry_tags)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
