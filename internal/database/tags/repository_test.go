package tags

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_tags_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Tag{},
		&entities.VocabEntry{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "food", Normalize("Food"))
	assert.Equal(t, "food", Normalize("  FOOD  "))
	assert.Equal(t, "", Normalize("   "))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "food", Slugify("food"))
	assert.Equal(t, "daily-life", Slugify("daily life"))
	assert.Equal(t, "greetings", Slugify("greetings!"))
}

func TestRepository_Resolve_Deduplicates(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	resolved, err := repo.Resolve([]string{"Food", " food ", "FOOD", "", "greetings"})
	require.NoError(t, err)

	require.Len(t, resolved, 2)
	assert.Equal(t, "food", resolved[0].Name)
	assert.Equal(t, "greetings", resolved[1].Name)

	var count int64
	db.Model(&entities.Tag{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRepository_Resolve_ReusesExisting(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.Resolve([]string{"food"})
	require.NoError(t, err)

	second, err := repo.Resolve([]string{"Food"})
	require.NoError(t, err)

	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestRepository_GetOrCreate(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	tag, err := repo.GetOrCreate("Daily Life")
	require.NoError(t, err)
	assert.Equal(t, "daily life", tag.Name)
	assert.Equal(t, "daily-life", tag.Slug)

	again, err := repo.GetOrCreate("daily life")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, again.ID)
}

func TestRepository_Search(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Resolve([]string{"greetings", "grammar", "food"})
	require.NoError(t, err)

	found, err := repo.Search("gr")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "grammar", found[0].Name)
	assert.Equal(t, "greetings", found[1].Name)
}

func TestRepository_ReplaceEntryTags(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := entities.User{Username: "wanjiku", Email: "wanjiku@example.com"}
	require.NoError(t, db.Create(&user).Error)
	entry := entities.VocabEntry{Word: "irio", Translation: "food", UserID: user.ID}
	require.NoError(t, db.Create(&entry).Error)

	first, err := repo.Resolve([]string{"staple", "common"})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceEntryTags(entry.ID, first))

	second, err := repo.Resolve([]string{"ceremony"})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceEntryTags(entry.ID, second))

	var got entities.VocabEntry
	require.NoError(t, db.Preload("Tags").First(&got, entry.ID).Error)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "ceremony", got.Tags[0].Name)
}

func TestRepository_DeleteOrphanTags(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := entities.User{Username: "wanjiku", Email: "wanjiku@example.com"}
	require.NoError(t, db.Create(&user).Error)

	linked, err := repo.Resolve([]string{"staple"})
	require.NoError(t, err)
	_, err = repo.Resolve([]string{"orphan-one", "orphan-two"})
	require.NoError(t, err)

	entry := entities.VocabEntry{Word: "irio", Translation: "food", UserID: user.ID}
	require.NoError(t, db.Create(&entry).Error)
	require.NoError(t, repo.ReplaceEntryTags(entry.ID, linked))

	deleted, err := repo.DeleteOrphanTags()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "staple", remaining[0].Name)
}
