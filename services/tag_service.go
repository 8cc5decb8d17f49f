package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inkwell-notes/inkwell/broker"
	"inkwell-notes/inkwell/database"
	"inkwell-notes/inkwell/models"
)

type TagServiceInterface interface {
	ReplaceNoteLabels(db *database.Database, ownerID uuid.UUID, noteID string, labelIDs []string) ([]models.Label, error)
	ReplaceNoteCategories(db *database.Database, ownerID uuid.UUID, noteID string, categoryIDs []string) ([]models.Category, error)
}

// TagService manages the many-to-many links between notes and tags with
// replace semantics: every call swaps the full assignment set for one kind
// inside a single transaction, so a concurrent reader never observes the
// note half-tagged.
type TagService struct{}

func NewTagService() TagServiceInterface {
	return &TagService{}
}

var TagServiceInstance TagServiceInterface

func parseTagIDs(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid tag id %q", ErrInvalidInput, value)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func verifyNoteOwned(tx *gorm.DB, ownerID uuid.UUID, noteID string) (uuid.UUID, error) {
	id, err := uuid.Parse(noteID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid note id", ErrInvalidInput)
	}

	var note models.Note
	if err := tx.Select("id", "user_id", "title").First(&note, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrNoteNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}

func (s *TagService) ReplaceNoteLabels(db *database.Database, ownerID uuid.UUID, noteID string, labelIDs []string) ([]models.Label, error) {
	ids, err := parseTagIDs(labelIDs)
	if err != nil {
		return nil, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	note, err := verifyNoteOwned(tx, ownerID, noteID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(ids) > 0 {
		var count int64
		if err := tx.Model(&models.Label{}).Where("user_id = ? AND id IN ?", ownerID, ids).Count(&count).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if count != int64(len(ids)) {
			tx.Rollback()
			return nil, ErrLabelNotFound
		}
	}

	// Replace semantics: drop the old set, insert the new one. The empty set
	// simply clears all assignments.
	if err := tx.Where("note_id = ?", note).Delete(&models.NoteLabel{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(ids) > 0 {
		rows := make([]models.NoteLabel, 0, len(ids))
		for _, labelID := range ids {
			rows = append(rows, models.NoteLabel{NoteID: note, LabelID: labelID})
		}
		if err := tx.Create(&rows).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	event, err := models.NewEvent(string(broker.LabelAssigned), "note", "assign", ownerID.String(), map[string]interface{}{
		"note_id":   note.String(),
		"user_id":   ownerID.String(),
		"label_ids": labelIDs,
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	var labels []models.Label
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Find(&labels).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return labels, nil
}

func (s *TagService) ReplaceNoteCategories(db *database.Database, ownerID uuid.UUID, noteID string, categoryIDs []string) ([]models.Category, error) {
	ids, err := parseTagIDs(categoryIDs)
	if err != nil {
		return nil, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	note, err := verifyNoteOwned(tx, ownerID, noteID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(ids) > 0 {
		var count int64
		if err := tx.Model(&models.Category{}).Where("user_id = ? AND id IN ?", ownerID, ids).Count(&count).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if count != int64(len(ids)) {
			tx.Rollback()
			return nil, ErrCategoryNotFound
		}
	}

	if err := tx.Where("note_id = ?", note).Delete(&models.NoteCategory{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(ids) > 0 {
		rows := make([]models.NoteCategory, 0, len(ids))
		for _, categoryID := range ids {
			rows = append(rows, models.NoteCategory{NoteID: note, CategoryID: categoryID})
		}
		if err := tx.Create(&rows).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	event, err := models.NewEvent(string(broker.CategoryAssigned), "note", "assign", ownerID.String(), map[string]interface{}{
		"note_id":      note.String(),
		"user_id":      ownerID.String(),
		"category_ids": categoryIDs,
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	var categories []models.Category
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Find(&categories).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return categories, nil
}
