package entries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

// seedListing creates two users, two categories and a small corpus with
// mixed statuses for the listing tests.
func seedListing(t *testing.T, repo *Repository, db *gorm.DB) (owner, stranger *entities.User) {
	t.Helper()

	owner = createTestUser(t, db, "wanjiku")
	stranger = createTestUser(t, db, "kamau")
	greetings := createTestCategory(t, db, "Greetings", "greetings")
	food := createTestCategory(t, db, "Food", "food")

	tag := entities.Tag{Name: "polite", Slug: "polite"}
	require.NoError(t, db.Create(&tag).Error)

	approve := func(id uint) {
		require.NoError(t, db.Model(&entities.VocabEntry{}).
			Where("id = ?", id).
			Update("status", entities.StatusApproved).Error)
	}

	e1, err := repo.Create(Draft{
		Word:        "wĩmwega",
		Translation: "how are you",
		CategoryID:  &greetings.ID,
		Difficulty:  entities.DifficultyBeginner,
		Tags:        []entities.Tag{tag},
	}, owner.ID)
	require.NoError(t, err)
	approve(e1.ID)

	e2, err := repo.Create(Draft{
		Word:            "irio",
		Translation:     "food",
		CategoryID:      &food.ID,
		Difficulty:      entities.DifficultyIntermediate,
		ExampleSentence: "Irio nĩ njega.",
	}, owner.ID)
	require.NoError(t, err)
	approve(e2.ID)

	// Owner's pending entry: visible to the owner only.
	_, err = repo.Create(Draft{
		Word:        "tigwo na wega",
		Translation: "goodbye",
		CategoryID:  &greetings.ID,
	}, owner.ID)
	require.NoError(t, err)

	return owner, stranger
}

func TestRepository_List_Visibility(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	owner, stranger := seedListing(t, repo, db)

	// Anonymous viewers see approved entries only.
	list, total, err := repo.List(ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	// A stranger sees the same.
	_, total, err = repo.List(ListQuery{ViewerID: stranger.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// The owner additionally sees their own pending entry.
	_, total, err = repo.List(ListQuery{ViewerID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRepository_List_Search(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedListing(t, repo, db)

	// Word match, case-insensitive.
	list, _, err := repo.List(ListQuery{Search: "IRIO"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "irio", list[0].Word)

	// Translation match.
	list, _, err = repo.List(ListQuery{Search: "how are"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "wĩmwega", list[0].Word)

	// Example sentence match.
	list, _, err = repo.List(ListQuery{Search: "njega"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Tag match yields a single row, not one per tag link.
	list, total, err := repo.List(ListQuery{Search: "polite"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "wĩmwega", list[0].Word)

	// No match.
	_, total, err = repo.List(ListQuery{Search: "zebra"})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRepository_List_Filters(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedListing(t, repo, db)

	list, _, err := repo.List(ListQuery{CategorySlug: "food"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "irio", list[0].Word)

	list, _, err = repo.List(ListQuery{Difficulty: entities.DifficultyIntermediate})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "irio", list[0].Word)

	list, _, err = repo.List(ListQuery{Language: entities.LanguageSwahili})
	require.NoError(t, err)
	assert.Empty(t, list)

	// Filters are conjunctive.
	list, _, err = repo.List(ListQuery{
		CategorySlug: "greetings",
		Difficulty:   entities.DifficultyIntermediate,
	})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_List_OrderAndPaging(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedListing(t, repo, db)

	list, total, err := repo.List(ListQuery{OrderBy: "word ASC", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, "irio", list[0].Word)

	list, _, err = repo.List(ListQuery{OrderBy: "word ASC", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "wĩmwega", list[0].Word)
}

func TestRepository_Related(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	owner := createTestUser(t, db, "wanjiku")
	greetings := createTestCategory(t, db, "Greetings", "greetings")

	approve := func(id uint) {
		require.NoError(t, db.Model(&entities.VocabEntry{}).
			Where("id = ?", id).
			Update("status", entities.StatusApproved).Error)
	}

	first, err := repo.Create(Draft{Word: "wĩmwega", Translation: "how are you", CategoryID: &greetings.ID}, owner.ID)
	require.NoError(t, err)
	approve(first.ID)

	second, err := repo.Create(Draft{Word: "nĩ kwega", Translation: "I am fine", CategoryID: &greetings.ID}, owner.ID)
	require.NoError(t, err)
	approve(second.ID)

	// A pending sibling never shows up as related.
	_, err = repo.Create(Draft{Word: "tigwo na wega", Translation: "goodbye", CategoryID: &greetings.ID}, owner.ID)
	require.NoError(t, err)

	related, err := repo.Related(greetings.ID, first.ID, 6)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, second.ID, related[0].ID)
}

func TestRepository_CategoriesWithApprovedCounts(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedListing(t, repo, db)
	// An empty category never shows up.
	createTestCategory(t, db, "Animals", "animals")

	counts, err := repo.CategoriesWithApprovedCounts()
	require.NoError(t, err)
	require.Len(t, counts, 2)

	// Alphabetical by name: Food before Greetings.
	assert.Equal(t, "Food", counts[0].Name)
	assert.Equal(t, int64(1), counts[0].WordCount)
	assert.Equal(t, "Greetings", counts[1].Name)
	// The pending greetings entry is not counted.
	assert.Equal(t, int64(1), counts[1].WordCount)
}

func TestRepository_ListByStatus(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedListing(t, repo, db)

	pending, total, err := repo.ListByStatus(entities.StatusPending, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, "tigwo na wega", pending[0].Word)

	approved, total, err := repo.ListByStatus(entities.StatusApproved, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	// Oldest first for the review queue.
	assert.Equal(t, "wĩmwega", approved[0].Word)
}

func TestRepository_GetApprovedCount(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedListing(t, repo, db)

	count, err := repo.GetApprovedCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
