package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
)

var defaultCategories = []entities.Category{
	{Name: "Greetings", Slug: "greetings", Description: "Everyday greetings and pleasantries"},
	{Name: "Food", Slug: "food", Description: "Food, drink and cooking"},
	{Name: "Family", Slug: "family", Description: "Family members and relations"},
	{Name: "Animals", Slug: "animals", Description: "Domestic and wild animals"},
	{Name: "Numbers", Slug: "numbers", Description: "Counting and quantities"},
	{Name: "Proverbs", Slug: "proverbs", Description: "Sayings and proverbs"},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surface UNIQUE violations as gorm.ErrDuplicatedKey so the
		// (word, language) constraint is enforced at the storage layer.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Tag{},
		&entities.VocabEntry{},
		&entities.Favorite{},
		&entities.Comment{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedCategories(); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedCategories() error {
	for _, category := range defaultCategories {
		var existing entities.Category
		result := d.DB.Where("slug = ?", category.Slug).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := d.DB.Create(&category).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", category.Slug, err)
			}
			log.Printf("Created category: %s", category.Name)
		}
	}
	return nil
}

func (d *Database) GetCategoryBySlug(slug string) (*entities.Category, error) {
	var category entities.Category
	err := d.DB.Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (d *Database) GetAllCategories() ([]entities.Category, error) {
	var categories []entities.Category
	err := d.DB.Order("name ASC").Find(&categories).Error
	return categories, err
}

// DeleteCategory removes a category. Entries referencing it keep existing
// with a nulled category; the update is explicit because SQLite AutoMigrate
// does not reliably rebuild ON DELETE constraints on existing tables.
func (d *Database) DeleteCategory(id uint) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.VocabEntry{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Category{}, id).Error
	})
}
