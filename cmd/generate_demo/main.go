// Command generate_demo creates a demo database with sample vocabulary data.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/phyn2-2/kikuyu-vocab/internal/auth"
	"github.com/phyn2-2/kikuyu-vocab/internal/config"
	"github.com/phyn2-2/kikuyu-vocab/internal/database"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/audit"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/entries"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/social"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/tags"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
	"github.com/phyn2-2/kikuyu-vocab/internal/moderation"
)

const defaultDemoDatabasePath = "./demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	entriesRepo := entries.NewRepository(db.DB)
	tagsRepo := tags.NewRepository(db.DB)
	socialRepo := social.NewRepository(db.DB)
	auditRepo := audit.NewRepository(db.DB)
	workflow := moderation.NewWorkflow(entriesRepo, auditRepo)

	authService := auth.NewService(db.DB, config.Auth{BcryptCost: 10})

	users := createUsers(authService)
	admin := users["admin"]
	contributor := users["wanjiku"]
	learner := users["kamau"]

	approved := 0
	for _, sample := range demoEntries() {
		draft := sample.draft

		if category, err := db.GetCategoryBySlug(sample.categorySlug); err == nil {
			draft.CategoryID = &category.ID
		}

		if len(sample.tagNames) > 0 {
			resolved, err := tagsRepo.Resolve(sample.tagNames)
			if err != nil {
				log.Printf("Failed to resolve tags for %s: %v", draft.Word, err)
			} else {
				draft.Tags = resolved
			}
		}

		entry, err := entriesRepo.Create(draft, contributor.ID)
		if err != nil {
			log.Printf("Failed to create entry %s: %v", draft.Word, err)
			continue
		}
		log.Printf("Created entry: %s (%s)", entry.Word, entry.Translation)

		switch sample.outcome {
		case entities.StatusApproved:
			if _, err := workflow.Approve(entry.ID, admin.ID); err != nil {
				log.Printf("Failed to approve %s: %v", entry.Word, err)
				continue
			}
			approved++

			if sample.favorite {
				if _, err := socialRepo.ToggleFavorite(entry.ID, learner.ID); err != nil {
					log.Printf("Failed to favorite %s: %v", entry.Word, err)
				}
			}
			if sample.comment != "" {
				if _, err := socialRepo.AddComment(entry.ID, learner.ID, sample.comment); err != nil {
					log.Printf("Failed to comment on %s: %v", entry.Word, err)
				}
			}

		case entities.StatusRejected:
			if _, err := workflow.Reject(entry.ID, admin.ID, sample.rejectionReason); err != nil {
				log.Printf("Failed to reject %s: %v", entry.Word, err)
			}
		}
	}

	log.Printf("Demo database generated successfully! (%d approved entries)", approved)
}

func createUsers(service *auth.Service) map[string]*entities.User {
	configs := []struct {
		username string
		email    string
		role     entities.UserRole
	}{
		{"admin", "admin@example.com", entities.RoleAdmin},
		{"njeri", "njeri@example.com", entities.RoleReviewer},
		{"wanjiku", "wanjiku@example.com", entities.RoleContributor},
		{"kamau", "kamau@example.com", entities.RoleContributor},
	}

	users := make(map[string]*entities.User)
	for _, cfg := range configs {
		user, err := service.CreateUser(cfg.username, cfg.email, "demopassword", cfg.role)
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", cfg.username, err)
		}
		users[cfg.username] = user
		log.Printf("Created user: %s (%s)", user.Username, user.Role)
	}
	return users
}

type demoEntry struct {
	draft           entries.Draft
	categorySlug    string
	tagNames        []string
	outcome         entities.EntryStatus
	rejectionReason string
	favorite        bool
	comment         string
}

func demoEntries() []demoEntry {
	return []demoEntry{
		{
			categorySlug: "greetings",
			tagNames:     []string{"common", "polite"},
			outcome:      entities.StatusApproved,
			favorite:     true,
			comment:      "This is usually the first phrase visitors learn.",
			draft: entries.Draft{
				Word:               "wĩmwega",
				Translation:        "how are you",
				Language:           entities.LanguageKikuyu,
				Difficulty:         entities.DifficultyBeginner,
				ExampleSentence:    "Wĩmwega mũno?",
				ExampleTranslation: "How are you doing?",
				PronunciationGuide: "wee-mweh-gah",
			},
		},
		{
			categorySlug: "greetings",
			tagNames:     []string{"common"},
			outcome:      entities.StatusApproved,
			draft: entries.Draft{
				Word:               "nĩ kwega",
				Translation:        "I am fine",
				Language:           entities.LanguageKikuyu,
				Difficulty:         entities.DifficultyBeginner,
				ExampleSentence:    "Nĩ kwega, nĩ wega mũno.",
				ExampleTranslation: "I am fine, thank you very much.",
			},
		},
		{
			categorySlug: "family",
			tagNames:     []string{"common"},
			outcome:      entities.StatusApproved,
			favorite:     true,
			draft: entries.Draft{
				Word:               "maitũ",
				Translation:        "mother",
				Language:           entities.LanguageKikuyu,
				Difficulty:         entities.DifficultyBeginner,
				ExampleSentence:    "Maitũ nĩ mwega.",
				ExampleTranslation: "My mother is well.",
				PronunciationGuide: "mah-ee-too",
			},
		},
		{
			categorySlug: "family",
			outcome:      entities.StatusApproved,
			draft: entries.Draft{
				Word:        "baba",
				Translation: "father",
				Language:    entities.LanguageKikuyu,
				Difficulty:  entities.DifficultyBeginner,
			},
		},
		{
			categorySlug: "food",
			tagNames:     []string{"staple"},
			outcome:      entities.StatusApproved,
			comment:      "Also the name of a popular dish made with maize and beans.",
			draft: entries.Draft{
				Word:               "mũtura",
				Translation:        "traditional sausage",
				Language:           entities.LanguageKikuyu,
				Difficulty:         entities.DifficultyIntermediate,
				Notes:              "A roasted delicacy served at ceremonies and roadside grills.",
				PronunciationGuide: "moo-too-rah",
			},
		},
		{
			categorySlug: "food",
			tagNames:     []string{"staple"},
			outcome:      entities.StatusApproved,
			draft: entries.Draft{
				Word:               "irio",
				Translation:        "food",
				Language:           entities.LanguageKikuyu,
				Difficulty:         entities.DifficultyBeginner,
				ExampleSentence:    "Irio nĩ njega.",
				ExampleTranslation: "The food is good.",
			},
		},
		{
			categorySlug: "animals",
			outcome:      entities.StatusApproved,
			draft: entries.Draft{
				Word:        "ngombe",
				Translation: "cow",
				Language:    entities.LanguageKikuyu,
				Difficulty:  entities.DifficultyBeginner,
			},
		},
		{
			categorySlug: "numbers",
			tagNames:     []string{"counting"},
			outcome:      entities.StatusApproved,
			draft: entries.Draft{
				Word:        "ĩmwe",
				Translation: "one",
				Language:    entities.LanguageKikuyu,
				Difficulty:  entities.DifficultyBeginner,
			},
		},
		{
			categorySlug: "proverbs",
			tagNames:     []string{"wisdom"},
			outcome:      entities.StatusApproved,
			favorite:     true,
			comment:      "A favorite proverb about unity.",
			draft: entries.Draft{
				Word:               "kamũingĩ koyaga ndĩrĩ",
				Translation:        "many hands lift the mortar",
				Language:           entities.LanguageKikuyu,
				Difficulty:         entities.DifficultyAdvanced,
				Notes:              "Spoken of work that succeeds through cooperation.",
				ExampleTranslation: "Unity is strength.",
			},
		},
		{
			categorySlug: "greetings",
			outcome:      entities.StatusPending,
			draft: entries.Draft{
				Word:        "tigwo na wega",
				Translation: "stay well (goodbye)",
				Language:    entities.LanguageKikuyu,
				Difficulty:  entities.DifficultyBeginner,
			},
		},
		{
			categorySlug:    "food",
			outcome:         entities.StatusRejected,
			rejectionReason: "Duplicate of an existing entry with a clearer example.",
			draft: entries.Draft{
				Word:        "chakula",
				Translation: "food",
				Language:    entities.LanguageSwahili,
				Difficulty:  entities.DifficultyBeginner,
			},
		},
	}
}
