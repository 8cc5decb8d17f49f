package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inkwell-notes/inkwell/broker"
	"inkwell-notes/inkwell/database"
	"inkwell-notes/inkwell/models"
	"inkwell-notes/inkwell/security"
)

// EncryptedContentUnavailable replaces content that can no longer be
// decrypted. One corrupt row must not fail a whole listing.
const EncryptedContentUnavailable = "[content unavailable]"

// How many share ids to try before giving up on a unique one.
const shareIDAttempts = 3

type NoteServiceInterface interface {
	CreateNote(db *database.Database, ownerID uuid.UUID, noteData map[string]interface{}) (models.Note, error)
	GetNoteById(db *database.Database, ownerID uuid.UUID, id string) (models.Note, error)
	GetNotes(db *database.Database, ownerID uuid.UUID, params map[string]interface{}) (models.NotePage, error)
	GetNotesWithTags(db *database.Database, ownerID uuid.UUID, params map[string]interface{}) ([]models.Note, error)
	UpdateNote(db *database.Database, ownerID uuid.UUID, id string, updatedData map[string]interface{}) (models.Note, error)
	AutosaveNote(db *database.Database, ownerID uuid.UUID, id string, autosaveData map[string]interface{}) (models.Note, error)
	DeleteNote(db *database.Database, ownerID uuid.UUID, id string) error
	GetPublicNote(db *database.Database, shareID string) (models.Note, error)
	GetNoteStats(db *database.Database, ownerID uuid.UUID) (models.NoteStats, error)
}

type NoteService struct {
	codec *security.ContentCodec
}

func NewNoteService(codec *security.ContentCodec) NoteServiceInterface {
	return &NoteService{codec: codec}
}

var NoteServiceInstance NoteServiceInterface

// storeContent routes plaintext into the column selected by the encryption
// flag and clears the other one, keeping the two mutually exclusive.
func (s *NoteService) storeContent(note *models.Note, plaintext string, encrypted bool) error {
	note.IsEncrypted = encrypted
	if encrypted {
		ciphertext, err := s.codec.Encrypt(plaintext)
		if err != nil {
			return err
		}
		note.EncryptedContent = &ciphertext
		note.Content = nil
		return nil
	}

	note.Content = &plaintext
	note.EncryptedContent = nil
	return nil
}

// currentPlaintext returns the stored content decrypted, for paths that need
// to re-encode it under a different encryption flag.
func (s *NoteService) currentPlaintext(note *models.Note) (string, error) {
	if note.IsEncrypted {
		if note.EncryptedContent == nil {
			return "", nil
		}
		return s.codec.Decrypt(*note.EncryptedContent)
	}
	if note.Content == nil {
		return "", nil
	}
	return *note.Content, nil
}

// presentNote prepares a note for a response: content decrypted for the
// caller, ciphertext stripped. Decryption failures degrade to a sentinel
// value so a corrupt note never blocks a read.
func (s *NoteService) presentNote(note *models.Note) {
	if note.IsEncrypted {
		if note.EncryptedContent != nil {
			plaintext, err := s.codec.Decrypt(*note.EncryptedContent)
			if err != nil {
				log.Printf("Failed to decrypt note %s: %v", note.ID, err)
				plaintext = EncryptedContentUnavailable
			}
			note.Content = &plaintext
		}
		note.EncryptedContent = nil
	}
}

// allocateShareID draws random share ids until one is unused. The unique
// constraint on public_share_id remains the final safety net against a
// concurrent insert of the same id.
func allocateShareID(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < shareIDAttempts; attempt++ {
		shareID, err := security.NewShareID()
		if err != nil {
			return "", err
		}

		var count int64
		if err := tx.Model(&models.Note{}).Where("public_share_id = ?", shareID).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return shareID, nil
		}
	}
	return "", ErrShareIDConflict
}

func tagsFromParam(raw interface{}) ([]string, error) {
	switch value := raw.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return value, nil
	case []interface{}:
		tags := make([]string, 0, len(value))
		for _, item := range value {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: tags must be strings", ErrInvalidInput)
			}
			tags = append(tags, str)
		}
		return tags, nil
	}
	return nil, fmt.Errorf("%w: tags must be an array of strings", ErrInvalidInput)
}

func recordNoteEvent(tx *gorm.DB, eventType broker.EventType, operation string, note *models.Note) error {
	event, err := models.NewEvent(string(eventType), "note", operation, note.UserID.String(), map[string]interface{}{
		"note_id":   note.ID.String(),
		"user_id":   note.UserID.String(),
		"title":     note.Title,
		"is_draft":  note.IsDraft,
		"is_public": note.IsPublic,
	})
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}

func (s *NoteService) CreateNote(db *database.Database, ownerID uuid.UUID, noteData map[string]interface{}) (models.Note, error) {
	title, ok := noteData["title"].(string)
	if !ok || title == "" || len(title) > 255 {
		return models.Note{}, fmt.Errorf("%w: title must be 1-255 characters", ErrInvalidInput)
	}

	content := ""
	if raw, present := noteData["content"]; present && raw != nil {
		str, ok := raw.(string)
		if !ok {
			return models.Note{}, fmt.Errorf("%w: content must be a string", ErrInvalidInput)
		}
		content = str
	}

	isEncrypted, _ := paramBool(noteData, "is_encrypted")
	isPublic, _ := paramBool(noteData, "is_public")
	isDraft := true
	if value, ok := paramBool(noteData, "is_draft"); ok {
		isDraft = value
	}

	note := models.Note{
		ID:      uuid.New(),
		UserID:  ownerID,
		Title:   title,
		IsDraft: isDraft,
		Tags:    []string{},
	}

	if raw, present := noteData["tags"]; present {
		tags, err := tagsFromParam(raw)
		if err != nil {
			return models.Note{}, err
		}
		note.Tags = tags
	}

	if err := s.storeContent(&note, content, isEncrypted); err != nil {
		return models.Note{}, err
	}

	for attempt := 0; attempt < shareIDAttempts; attempt++ {
		tx := db.DB.Begin()
		if tx.Error != nil {
			return models.Note{}, tx.Error
		}

		now := time.Now().UTC()
		if isPublic {
			// Public implies published, whatever the draft flag said.
			shareID, err := allocateShareID(tx)
			if err != nil {
				tx.Rollback()
				return models.Note{}, err
			}
			note.PublicShareID = &shareID
			note.IsPublic = true
			note.IsDraft = false
			note.PublishedAt = &now
		} else if !isDraft {
			note.PublishedAt = &now
		}

		if err := tx.Create(&note).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrDuplicatedKey) && isPublic {
				// Lost the insert race for the share id; draw a fresh one
				// in a new transaction.
				continue
			}
			return models.Note{}, err
		}

		if err := recordNoteEvent(tx, broker.NoteCreated, "create", &note); err != nil {
			tx.Rollback()
			return models.Note{}, err
		}

		if err := tx.Commit().Error; err != nil {
			tx.Rollback()
			return models.Note{}, err
		}

		s.presentNote(&note)
		return note, nil
	}
	return models.Note{}, ErrShareIDConflict
}

func (s *NoteService) UpdateNote(db *database.Database, ownerID uuid.UUID, id string, updatedData map[string]interface{}) (models.Note, error) {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return models.Note{}, fmt.Errorf("%w: invalid note id", ErrInvalidInput)
	}

	for attempt := 0; attempt < shareIDAttempts; attempt++ {
		note, err := s.applyNoteUpdate(db, ownerID, noteID, updatedData)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the insert race for a freshly allocated share id; rerun
			// the whole transaction so a new id is drawn.
			continue
		}
		return note, err
	}
	return models.Note{}, ErrShareIDConflict
}

func (s *NoteService) applyNoteUpdate(db *database.Database, ownerID, noteID uuid.UUID, updatedData map[string]interface{}) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	var note models.Note
	if err := tx.First(&note, "id = ? AND user_id = ?", noteID, ownerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}
	wasDraft := note.IsDraft

	if raw, present := updatedData["title"]; present {
		title, ok := raw.(string)
		if !ok || title == "" || len(title) > 255 {
			tx.Rollback()
			return models.Note{}, fmt.Errorf("%w: title must be 1-255 characters", ErrInvalidInput)
		}
		note.Title = title
	}

	if raw, present := updatedData["tags"]; present {
		tags, err := tagsFromParam(raw)
		if err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
		note.Tags = tags
	}

	// Only fields present in the request are touched: an absent content key
	// leaves the stored content alone, an explicit null clears it.
	encrypted, encryptedPresent := paramBool(updatedData, "is_encrypted")
	effectiveEncrypted := note.IsEncrypted
	if encryptedPresent {
		effectiveEncrypted = encrypted
	}

	if raw, contentPresent := updatedData["content"]; contentPresent {
		content := ""
		if raw != nil {
			str, ok := raw.(string)
			if !ok {
				tx.Rollback()
				return models.Note{}, fmt.Errorf("%w: content must be a string", ErrInvalidInput)
			}
			content = str
		}
		if err := s.storeContent(&note, content, effectiveEncrypted); err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
	} else if encryptedPresent && encrypted != note.IsEncrypted {
		// Flag flipped without new content: re-encode what is stored.
		plaintext, err := s.currentPlaintext(&note)
		if err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
		if err := s.storeContent(&note, plaintext, encrypted); err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
	}

	becamePublic := false
	becamePrivate := false
	if value, ok := paramBool(updatedData, "is_public"); ok {
		if value && !note.IsPublic {
			// A previously cleared share id is never reused.
			shareID, err := allocateShareID(tx)
			if err != nil {
				tx.Rollback()
				return models.Note{}, err
			}
			note.PublicShareID = &shareID
			note.IsPublic = true
			becamePublic = true
		} else if !value && note.IsPublic {
			// Clearing the id invalidates the link immediately.
			note.IsPublic = false
			note.PublicShareID = nil
			becamePrivate = true
		}
	}

	if value, ok := paramBool(updatedData, "is_draft"); ok {
		if value && note.IsPublic {
			tx.Rollback()
			return models.Note{}, fmt.Errorf("%w: a public note cannot be a draft", ErrInvalidInput)
		}
		note.IsDraft = value
	}
	if note.IsPublic {
		note.IsDraft = false
	}

	// published_at is stamped on the draft-to-published transition only,
	// and never re-stamped once set.
	becamePublished := false
	if wasDraft && !note.IsDraft && note.PublishedAt == nil {
		now := time.Now().UTC()
		note.PublishedAt = &now
		becamePublished = true
	}

	if err := tx.Save(&note).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := recordNoteEvent(tx, broker.NoteUpdated, "update", &note); err != nil {
		tx.Rollback()
		return models.Note{}, err
	}
	if becamePublished {
		if err := recordNoteEvent(tx, broker.NotePublished, "publish", &note); err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
	}
	if becamePublic {
		if err := recordNoteEvent(tx, broker.NoteShared, "share", &note); err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
	}
	if becamePrivate {
		if err := recordNoteEvent(tx, broker.NoteUnshared, "unshare", &note); err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	s.presentNote(&note)
	return note, nil
}

// AutosaveNote updates only title and content and stamps auto_saved_at.
// The encryption, visibility and draft flags are never renegotiated here;
// content is encoded under the note's current flag.
func (s *NoteService) AutosaveNote(db *database.Database, ownerID uuid.UUID, id string, autosaveData map[string]interface{}) (models.Note, error) {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return models.Note{}, fmt.Errorf("%w: invalid note id", ErrInvalidInput)
	}

	var note models.Note
	if err := db.DB.First(&note, "id = ? AND user_id = ?", noteID, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}

	if raw, present := autosaveData["title"]; present {
		title, ok := raw.(string)
		if !ok || title == "" || len(title) > 255 {
			return models.Note{}, fmt.Errorf("%w: title must be 1-255 characters", ErrInvalidInput)
		}
		note.Title = title
	}

	if raw, present := autosaveData["content"]; present {
		content := ""
		if raw != nil {
			str, ok := raw.(string)
			if !ok {
				return models.Note{}, fmt.Errorf("%w: content must be a string", ErrInvalidInput)
			}
			content = str
		}
		if err := s.storeContent(&note, content, note.IsEncrypted); err != nil {
			return models.Note{}, err
		}
	}

	now := time.Now().UTC()
	note.AutoSavedAt = &now

	if err := db.DB.Save(&note).Error; err != nil {
		return models.Note{}, err
	}

	s.presentNote(&note)
	return note, nil
}

func (s *NoteService) DeleteNote(db *database.Database, ownerID uuid.UUID, id string) error {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid note id", ErrInvalidInput)
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var note models.Note
	if err := tx.First(&note, "id = ? AND user_id = ?", noteID, ownerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	// Tag assignments are fully owned by the note; remove them with it.
	if err := tx.Where("note_id = ?", note.ID).Delete(&models.NoteLabel{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("note_id = ?", note.ID).Delete(&models.NoteCategory{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&note).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := recordNoteEvent(tx, broker.NoteDeleted, "delete", &note); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *NoteService) GetNoteById(db *database.Database, ownerID uuid.UUID, id string) (models.Note, error) {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return models.Note{}, fmt.Errorf("%w: invalid note id", ErrInvalidInput)
	}

	var note models.Note
	if err := db.DB.First(&note, "id = ? AND user_id = ?", noteID, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}

	s.presentNote(&note)
	return note, nil
}

// GetPublicNote serves the anonymous share link. Only published public notes
// are reachable; there is no ownership check.
func (s *NoteService) GetPublicNote(db *database.Database, shareID string) (models.Note, error) {
	var note models.Note
	err := db.DB.First(&note, "public_share_id = ? AND is_public = ? AND is_draft = ?", shareID, true, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}

	s.presentNote(&note)
	return note, nil
}

// GetNotes lists the owner's notes. The count and page queries run inside
// one transaction so the total can never disagree with the page just read.
func (s *NoteService) GetNotes(db *database.Database, ownerID uuid.UUID, params map[string]interface{}) (models.NotePage, error) {
	page, limit, offset := notePagination(params)

	var notes []models.Note
	var total int64
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		countQuery := applyNoteFilters(tx.Model(&models.Note{}).Where("notes.user_id = ?", ownerID), params)
		if err := countQuery.Count(&total).Error; err != nil {
			return err
		}

		pageQuery := applyNoteFilters(tx.Model(&models.Note{}).Where("notes.user_id = ?", ownerID), params)
		pageQuery = applyNoteSort(pageQuery, params)
		return pageQuery.Limit(limit).Offset(offset).Find(&notes).Error
	})
	if err != nil {
		return models.NotePage{}, err
	}

	for i := range notes {
		s.presentNote(&notes[i])
	}

	return models.NotePage{
		Notes:   notes,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasNext: int64(page*limit) < total,
		HasPrev: page > 1 && total > 0,
	}, nil
}

// GetNotesWithTags returns the joined view with labels and categories
// preloaded, filtered by the same parameter set as GetNotes.
func (s *NoteService) GetNotesWithTags(db *database.Database, ownerID uuid.UUID, params map[string]interface{}) ([]models.Note, error) {
	query := db.DB.Model(&models.Note{}).
		Preload("Labels").
		Preload("Categories").
		Where("notes.user_id = ?", ownerID)

	query = applyNoteSort(applyNoteFilters(query, params), params)

	var notes []models.Note
	if err := query.Find(&notes).Error; err != nil {
		return nil, err
	}

	for i := range notes {
		s.presentNote(&notes[i])
	}
	return notes, nil
}

func (s *NoteService) GetNoteStats(db *database.Database, ownerID uuid.UUID) (models.NoteStats, error) {
	var stats models.NoteStats
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		owned := func() *gorm.DB {
			return tx.Model(&models.Note{}).Where("user_id = ?", ownerID)
		}

		if err := owned().Count(&stats.Total).Error; err != nil {
			return err
		}
		if err := owned().Where("is_draft = ?", true).Count(&stats.Drafts).Error; err != nil {
			return err
		}
		if err := owned().Where("is_draft = ?", false).Count(&stats.Published).Error; err != nil {
			return err
		}
		if err := owned().Where("is_public = ?", true).Count(&stats.Public).Error; err != nil {
			return err
		}
		return owned().Where("is_encrypted = ?", true).Count(&stats.Encrypted).Error
	})
	if err != nil {
		return models.NoteStats{}, err
	}
	return stats, nil
}
