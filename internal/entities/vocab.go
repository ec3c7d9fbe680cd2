package entities

import (
	"time"

	"gorm.io/gorm"
)

type Language string

const (
	LanguageKikuyu  Language = "kikuyu"
	LanguageEnglish Language = "english"
	LanguageSwahili Language = "swahili"
)

// ValidLanguage reports whether l is one of the supported languages.
func ValidLanguage(l Language) bool {
	switch l {
	case LanguageKikuyu, LanguageEnglish, LanguageSwahili:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

type EntryStatus string

const (
	StatusPending  EntryStatus = "pending"
	StatusApproved EntryStatus = "approved"
	StatusRejected EntryStatus = "rejected"
)

type UserRole string

const (
	RoleContributor UserRole = "contributor"
	RoleReviewer    UserRole = "reviewer"
	RoleAdmin       UserRole = "admin"
)

// CanReview reports whether the role carries moderation authority.
func (r UserRole) CanReview() bool {
	return r == RoleReviewer || r == RoleAdmin
}

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string         `gorm:"size:100" json:"-"`
	Role         UserRole       `gorm:"size:20;default:'contributor'" json:"role"`
	// API token hash. Indexed but not unique: users without a token all
	// store the empty string. Lookups hash the presented token first, so
	// an empty stored value can never match.
	Token string `gorm:"index;size:64" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Category groups entries thematically (greetings, food, family...).
// Deleting a category must never delete its entries; the FK is nulled.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:100" json:"slug"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Tag is a canonical, case-normalized label. Created lazily on first use,
// never deleted automatically (orphan cleanup is an explicit admin task).
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:60" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// VocabEntry is a single vocabulary submission. It is created in pending
// status by its owner and transitions only through the approval workflow.
type VocabEntry struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Word        string   `gorm:"size:100;not null;uniqueIndex:idx_entries_word_language;index:idx_entries_word_translation" json:"word"`
	Translation string   `gorm:"size:100;not null;index:idx_entries_word_translation" json:"translation"`
	Language    Language `gorm:"size:20;not null;default:'kikuyu';uniqueIndex:idx_entries_word_language;index:idx_entries_status_language" json:"language"`

	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`

	Difficulty Difficulty `gorm:"size:20;default:'beginner'" json:"difficulty"`

	ExampleSentence    string `gorm:"type:text" json:"example_sentence,omitempty"`
	ExampleTranslation string `gorm:"type:text" json:"example_translation,omitempty"`
	PronunciationGuide string `gorm:"size:256" json:"pronunciation_guide,omitempty"`
	Notes              string `gorm:"type:text" json:"notes,omitempty"`

	// Opaque media refs handed out by the media store. Independently optional.
	AudioRef string `gorm:"size:512" json:"audio_ref,omitempty"`
	ImageRef string `gorm:"size:512" json:"image_ref,omitempty"`

	Status          EntryStatus `gorm:"size:20;default:'pending';index:idx_entries_status_language" json:"status"`
	RejectionReason string      `gorm:"size:500" json:"rejection_reason,omitempty"`

	UserID uint `gorm:"index;not null" json:"user_id"` // owner, immutable after creation
	User   User `gorm:"foreignKey:UserID" json:"-"`

	ReviewedByID *uint      `gorm:"index" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`

	Tags []Tag `gorm:"many2many:entry_tags;" json:"tags,omitempty"`

	ViewCount uint64 `gorm:"default:0" json:"view_count"`

	CreatedAt time.Time `gorm:"index:,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Favorite links a user to an entry they favorited. Modeled as an explicit
// association entity so (entry, user) uniqueness is enforced by the schema.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EntryID   uint      `gorm:"uniqueIndex:idx_favorites_entry_user;index" json:"entry_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorites_entry_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment belongs to exactly one approved entry and one author. It never
// transitions state; IsFlagged is a moderation flag independent of the
// entry's own status.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EntryID   uint      `gorm:"index;not null" json:"entry_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsFlagged bool      `gorm:"default:false" json:"is_flagged"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Category) TableName() string {
	return "categories"
}

func (Tag) TableName() string {
	return "tags"
}

func (VocabEntry) TableName() string {
	return "entries"
}

func (Favorite) TableName() string {
	return "favorites"
}

func (Comment) TableName() string {
	return "comments"
}
