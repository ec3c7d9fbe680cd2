package http

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/phyn2-2/kikuyu-vocab/internal/auth"
	"github.com/phyn2-2/kikuyu-vocab/internal/database/entries"
	"github.com/phyn2-2/kikuyu-vocab/internal/entities"
	"github.com/phyn2-2/kikuyu-vocab/internal/media"
	"github.com/phyn2-2/kikuyu-vocab/internal/search"
	"github.com/phyn2-2/kikuyu-vocab/internal/tasks"
)

// EntryStore defines the entry repository operations the controller needs.
type EntryStore interface {
	Create(draft entries.Draft, ownerID uint) (*entities.VocabEntry, error)
	Update(id uint, patch entries.Patch, actingUser uint) (*entities.VocabEntry, []media.Ref, error)
	Delete(id, actingUser uint, isAdmin bool) ([]media.Ref, error)
	GetEntriesForOwner(userID uint, limit, offset int) ([]entities.VocabEntry, int64, error)
	GetOwnerStats(userID uint) (entries.OwnerStats, error)
}

// TagResolver turns raw tag names into canonical tag rows.
type TagResolver interface {
	Resolve(raw []string) ([]entities.Tag, error)
}

// SocialCounter provides the per-entry social aggregates for detail views.
type SocialCounter interface {
	FavoriteCount(entryID uint) (int64, error)
	CommentCount(entryID uint) (int64, error)
	IsFavorited(entryID, userID uint) (bool, error)
}

// TaskEnqueuer enqueues background work.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// Auditor records entry lifecycle events.
type Auditor interface {
	LogEvent(event *entities.AuditEvent) error
}

// EntriesController handles the vocabulary entry API: submission, editing,
// deletion, the public listing and the detail view.
type EntriesController struct {
	store      EntryStore
	engine     *search.Engine
	tags       TagResolver
	social     SocialCounter
	mediaStore media.Store
	sessions   *auth.SessionManager
	taskClient TaskEnqueuer
	auditor    Auditor
}

// NewEntriesController creates the entries controller. sessions, taskClient
// and auditor may be nil (views are then counted per request, releases run
// inline, lifecycle events are unrecorded).
func NewEntriesController(
	store EntryStore,
	engine *search.Engine,
	tags TagResolver,
	social SocialCounter,
	mediaStore media.Store,
	sessions *auth.SessionManager,
	taskClient TaskEnqueuer,
	auditor Auditor,
) *EntriesController {
	return &EntriesController{
		store:      store,
		engine:     engine,
		tags:       tags,
		social:     social,
		mediaStore: mediaStore,
		sessions:   sessions,
		taskClient: taskClient,
		auditor:    auditor,
	}
}

// EntryRequest is the request body for creating or updating an entry.
// Media is uploaded via multipart form fields "audio" and "image" instead.
type EntryRequest struct {
	Word               string   `json:"word" form:"word"`
	Translation        string   `json:"translation" form:"translation"`
	Language           string   `json:"language" form:"language"`
	CategoryID         *uint    `json:"category_id" form:"category_id"`
	Difficulty         string   `json:"difficulty" form:"difficulty"`
	ExampleSentence    string   `json:"example_sentence" form:"example_sentence"`
	ExampleTranslation string   `json:"example_translation" form:"example_translation"`
	PronunciationGuide string   `json:"pronunciation_guide" form:"pronunciation_guide"`
	Notes              string   `json:"notes" form:"notes"`
	Tags               []string `json:"tags" form:"tags"`
}

// List returns one page of the public listing.
// GET /api/entries
func (ec *EntriesController) List(c *gin.Context) {
	filter := search.Filter{
		Query:        strings.TrimSpace(c.Query("q")),
		CategorySlug: c.Query("category"),
		Difficulty:   entities.Difficulty(c.Query("difficulty")),
		Language:     entities.Language(c.Query("language")),
	}

	page, err := ec.engine.List(filter, c.Query("sort"), parsePage(c), GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list entries")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Stats returns the public corpus statistics.
// GET /api/entries/stats
func (ec *EntriesController) Stats(c *gin.Context) {
	stats, err := ec.engine.Stats()
	if err != nil {
		respondInternalError(c, err, "entry stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get returns the detail view of one entry: the entry itself under the
// visibility rule, its social aggregates and the related strip. The view
// counter increments at most once per session.
// GET /api/entries/:id
func (ec *EntriesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var viewer search.ViewerSession
	if ec.sessions != nil {
		viewer = ec.sessions.Viewer(c.Request)
	}

	entry, err := ec.engine.View(id, GetUserID(c), viewer)
	if err != nil {
		respondDomainError(c, err, "get entry")
		return
	}

	related, err := ec.engine.Related(entry)
	if err != nil {
		respondInternalError(c, err, "related entries")
		return
	}

	response := gin.H{
		"entry":   entry,
		"related": related,
	}
	if ec.social != nil {
		if favorites, err := ec.social.FavoriteCount(id); err == nil {
			response["favorite_count"] = favorites
		}
		if comments, err := ec.social.CommentCount(id); err == nil {
			response["comment_count"] = comments
		}
		if userID := GetUserID(c); userID != 0 {
			if favorited, err := ec.social.IsFavorited(id, userID); err == nil {
				response["favorited"] = favorited
			}
		}
	}
	c.JSON(http.StatusOK, response)
}

// Create submits a new entry in pending status.
// POST /api/entries
func (ec *EntriesController) Create(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	req.Word = strings.TrimSpace(req.Word)
	req.Translation = strings.TrimSpace(req.Translation)
	if req.Word == "" || req.Translation == "" {
		respondBadRequest(c, "word and translation are required")
		return
	}

	tags, err := ec.tags.Resolve(req.Tags)
	if err != nil {
		respondInternalError(c, err, "resolve tags")
		return
	}

	audioRef, ok := ec.storeUpload(c, "audio", media.KindAudio)
	if !ok {
		return
	}
	imageRef, ok := ec.storeUpload(c, "image", media.KindImage)
	if !ok {
		ec.discardUncommitted(audioRef)
		return
	}

	userID := GetUserID(c)
	entry, err := ec.store.Create(entries.Draft{
		Word:               req.Word,
		Translation:        req.Translation,
		Language:           entities.Language(req.Language),
		CategoryID:         req.CategoryID,
		Difficulty:         entities.Difficulty(req.Difficulty),
		ExampleSentence:    req.ExampleSentence,
		ExampleTranslation: req.ExampleTranslation,
		PronunciationGuide: req.PronunciationGuide,
		Notes:              req.Notes,
		AudioRef:           string(audioRef),
		ImageRef:           string(imageRef),
		Tags:               tags,
	}, userID)
	if err != nil {
		// The refs were never committed to an entry; reclaim them now.
		ec.discardUncommitted(audioRef)
		ec.discardUncommitted(imageRef)
		respondDomainError(c, err, "create entry")
		return
	}

	ec.logEvent(userID, entry.ID, entities.AuditEventSubmit,
		fmt.Sprintf("submitted %q (%s)", entry.Word, entry.Language))
	respondCreated(c, entry)
}

// Update edits an entry's fields and media. Only the owner may edit;
// editing a rejected entry sends it back to the review queue.
// PATCH /api/entries/:id
func (ec *EntriesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	patch, ok := ec.buildPatch(c)
	if !ok {
		return
	}

	userID := GetUserID(c)
	entry, replaced, err := ec.store.Update(id, patch, userID)
	if err != nil {
		if patch.AudioRef != nil {
			ec.discardUncommitted(media.Ref(*patch.AudioRef))
		}
		if patch.ImageRef != nil {
			ec.discardUncommitted(media.Ref(*patch.ImageRef))
		}
		respondDomainError(c, err, "update entry")
		return
	}

	// The displaced assets are only released now that the new refs are
	// committed; the queue retries transient storage failures.
	ec.enqueueReleases(userID, replaced)

	ec.logEvent(userID, entry.ID, entities.AuditEventUpdate,
		fmt.Sprintf("updated %q (%s)", entry.Word, entry.Language))
	c.JSON(http.StatusOK, entry)
}

// Delete removes an entry with its comments, favorites and media.
// DELETE /api/entries/:id
func (ec *EntriesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID := GetUserID(c)
	refs, err := ec.store.Delete(id, userID, auth.IsAdmin(c))
	if err != nil {
		respondDomainError(c, err, "delete entry")
		return
	}

	ec.enqueueReleases(userID, refs)
	ec.logEvent(userID, id, entities.AuditEventDelete, fmt.Sprintf("deleted entry %d", id))
	respondSuccess(c, "entry deleted")
}

// MyEntries lists the authenticated user's own submissions in any status.
// GET /api/my/entries
func (ec *EntriesController) MyEntries(c *gin.Context) {
	limit, offset := parsePagination(c, 50, 100)
	list, total, err := ec.store.GetEntriesForOwner(GetUserID(c), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list own entries")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": list,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// MyStats returns the authenticated user's contribution dashboard.
// GET /api/my/stats
func (ec *EntriesController) MyStats(c *gin.Context) {
	stats, err := ec.store.GetOwnerStats(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "owner stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ServeAudio streams an entry's audio asset.
// GET /api/entries/:id/audio
func (ec *EntriesController) ServeAudio(c *gin.Context) {
	ec.serveMedia(c, func(entry *entities.VocabEntry) string { return entry.AudioRef })
}

// ServeImage streams an entry's image asset.
// GET /api/entries/:id/image
func (ec *EntriesController) ServeImage(c *gin.Context) {
	ec.serveMedia(c, func(entry *entities.VocabEntry) string { return entry.ImageRef })
}

func (ec *EntriesController) serveMedia(c *gin.Context, pick func(*entities.VocabEntry) string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := ec.engine.View(id, GetUserID(c), nil)
	if err != nil {
		respondDomainError(c, err, "serve media")
		return
	}

	ref := pick(entry)
	if ref == "" {
		respondNotFound(c, "media")
		return
	}

	reader, err := ec.mediaStore.Open(media.Ref(ref))
	if err != nil {
		respondDomainError(c, err, "open media")
		return
	}
	defer reader.Close()

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		log.Printf("Failed to stream media %s: %v", ref, err)
	}
}

// storeUpload reads an optional multipart file field, validates it against
// the media limits before writing, and stores it. Responds on failure.
func (ec *EntriesController) storeUpload(c *gin.Context, field string, kind media.Kind) (media.Ref, bool) {
	if c.ContentType() != "multipart/form-data" {
		return "", true
	}
	file, err := c.FormFile(field)
	if err != nil {
		return "", true // field absent
	}

	if err := media.Validate(kind, file.Filename, file.Size); err != nil {
		respondDomainError(c, err, "validate upload")
		return "", false
	}

	data, err := readMultipartFile(file)
	if err != nil {
		respondInternalError(c, err, "read upload")
		return "", false
	}

	ref, err := ec.mediaStore.Store(data, kind, file.Filename)
	if err != nil {
		respondDomainError(c, err, "store upload")
		return "", false
	}
	return ref, true
}

// buildPatch assembles an update patch from the request. Absent fields stay
// untouched; for multipart requests only present form fields are applied.
func (ec *EntriesController) buildPatch(c *gin.Context) (entries.Patch, bool) {
	var patch entries.Patch

	if c.ContentType() == "multipart/form-data" {
		if err := c.Request.ParseMultipartForm(media.MaxAudioSize + media.MaxImageSize); err != nil {
			respondBadRequest(c, "invalid multipart form")
			return patch, false
		}
		form := c.Request.MultipartForm.Value

		setString := func(field string, dest **string) {
			if values, ok := form[field]; ok && len(values) > 0 {
				v := values[0]
				*dest = &v
			}
		}
		setString("word", &patch.Word)
		setString("translation", &patch.Translation)
		setString("example_sentence", &patch.ExampleSentence)
		setString("example_translation", &patch.ExampleTranslation)
		setString("pronunciation_guide", &patch.PronunciationGuide)
		setString("notes", &patch.Notes)

		if values, ok := form["language"]; ok && len(values) > 0 {
			lang := entities.Language(values[0])
			patch.Language = &lang
		}
		if values, ok := form["difficulty"]; ok && len(values) > 0 {
			diff := entities.Difficulty(values[0])
			patch.Difficulty = &diff
		}
		if values, ok := form["category_id"]; ok && len(values) > 0 {
			if values[0] == "" {
				patch.ClearCategory = true
			} else {
				var id uint
				if _, err := fmt.Sscanf(values[0], "%d", &id); err != nil {
					respondBadRequest(c, "invalid category_id")
					return patch, false
				}
				patch.CategoryID = &id
			}
		}
		if values, ok := form["tags"]; ok {
			tags, err := ec.tags.Resolve(values)
			if err != nil {
				respondInternalError(c, err, "resolve tags")
				return patch, false
			}
			patch.Tags = &tags
		}

		audioRef, ok := ec.storeUpload(c, "audio", media.KindAudio)
		if !ok {
			return patch, false
		}
		if audioRef != "" {
			ref := string(audioRef)
			patch.AudioRef = &ref
		}
		imageRef, ok := ec.storeUpload(c, "image", media.KindImage)
		if !ok {
			ec.discardUncommitted(audioRef)
			return patch, false
		}
		if imageRef != "" {
			ref := string(imageRef)
			patch.ImageRef = &ref
		}
		return patch, true
	}

	// JSON path: field presence is modeled with pointers directly.
	var req struct {
		Word               *string   `json:"word"`
		Translation        *string   `json:"translation"`
		Language           *string   `json:"language"`
		CategoryID         *uint     `json:"category_id"`
		ClearCategory      bool      `json:"clear_category"`
		Difficulty         *string   `json:"difficulty"`
		ExampleSentence    *string   `json:"example_sentence"`
		ExampleTranslation *string   `json:"example_translation"`
		PronunciationGuide *string   `json:"pronunciation_guide"`
		Notes              *string   `json:"notes"`
		Tags               *[]string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return patch, false
	}

	patch.Word = req.Word
	patch.Translation = req.Translation
	if req.Language != nil {
		lang := entities.Language(*req.Language)
		patch.Language = &lang
	}
	patch.CategoryID = req.CategoryID
	patch.ClearCategory = req.ClearCategory
	if req.Difficulty != nil {
		diff := entities.Difficulty(*req.Difficulty)
		patch.Difficulty = &diff
	}
	patch.ExampleSentence = req.ExampleSentence
	patch.ExampleTranslation = req.ExampleTranslation
	patch.PronunciationGuide = req.PronunciationGuide
	patch.Notes = req.Notes
	if req.Tags != nil {
		tags, err := ec.tags.Resolve(*req.Tags)
		if err != nil {
			respondInternalError(c, err, "resolve tags")
			return patch, false
		}
		patch.Tags = &tags
	}
	return patch, true
}

// enqueueReleases hands displaced media refs to the task queue. Without a
// queue they are released inline, best-effort.
func (ec *EntriesController) enqueueReleases(userID uint, refs []media.Ref) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if ec.taskClient != nil {
			if _, err := ec.taskClient.Add(tasks.ReleaseMediaTask{
				Ref:    string(ref),
				UserID: userID,
			}).Save(); err != nil {
				log.Printf("Failed to enqueue media release for %s: %v", ref, err)
			}
			continue
		}
		if err := ec.mediaStore.Release(ref); err != nil {
			log.Printf("Failed to release media %s: %v", ref, err)
		}
	}
}

// discardUncommitted reclaims an asset that was stored but never attached
// to an entry.
func (ec *EntriesController) discardUncommitted(ref media.Ref) {
	if ref == "" {
		return
	}
	if err := ec.mediaStore.Release(ref); err != nil {
		log.Printf("Failed to discard uncommitted media %s: %v", ref, err)
	}
}

func (ec *EntriesController) logEvent(userID, entryID uint, eventType entities.AuditEventType, description string) {
	if ec.auditor == nil {
		return
	}
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   eventType,
		Description: description,
		EntryID:     &entryID,
		Status:      entities.AuditStatusSuccess,
	}
	if err := ec.auditor.LogEvent(event); err != nil {
		log.Printf("Audit log failed: %v", err)
	}
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
