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

type LabelServiceInterface interface {
	CreateLabel(db *database.Database, ownerID uuid.UUID, labelData map[string]interface{}) (models.Label, error)
	GetLabelById(db *database.Database, ownerID uuid.UUID, id string) (models.Label, error)
	GetLabels(db *database.Database, ownerID uuid.UUID, params map[string]interface{}) ([]models.Label, error)
	UpdateLabel(db *database.Database, ownerID uuid.UUID, id string, updatedData map[string]interface{}) (models.Label, error)
	DeleteLabel(db *database.Database, ownerID uuid.UUID, id string) error
}

type LabelService struct{}

func NewLabelService() LabelServiceInterface {
	return &LabelService{}
}

var LabelServiceInstance LabelServiceInterface

func labelNameTaken(tx *gorm.DB, ownerID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := tx.Model(&models.Label{}).Where("user_id = ? AND name = ?", ownerID, name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func recordLabelEvent(tx *gorm.DB, eventType broker.EventType, operation string, label *models.Label) error {
	event, err := models.NewEvent(string(eventType), "label", operation, label.UserID.String(), map[string]interface{}{
		"label_id": label.ID.String(),
		"user_id":  label.UserID.String(),
		"name":     label.Name,
	})
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}

func (s *LabelService) CreateLabel(db *database.Database, ownerID uuid.UUID, labelData map[string]interface{}) (models.Label, error) {
	name, ok := labelData["name"].(string)
	if !ok || name == "" || len(name) > 100 {
		return models.Label{}, fmt.Errorf("%w: name must be 1-100 characters", ErrInvalidInput)
	}

	label := models.Label{
		ID:     uuid.New(),
		UserID: ownerID,
		Name:   name,
	}
	if color, ok := labelData["color"].(string); ok {
		label.Color = color
	}
	if icon, ok := labelData["icon"].(string); ok {
		label.Icon = icon
	}
	if description, ok := labelData["description"].(string); ok {
		label.Description = description
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Label{}, tx.Error
	}

	taken, err := labelNameTaken(tx, ownerID, name, nil)
	if err != nil {
		tx.Rollback()
		return models.Label{}, err
	}
	if taken {
		tx.Rollback()
		return models.Label{}, ErrLabelNameExists
	}

	if err := tx.Create(&label).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Label{}, ErrLabelNameExists
		}
		return models.Label{}, err
	}

	if err := recordLabelEvent(tx, broker.LabelCreated, "create", &label); err != nil {
		tx.Rollback()
		return models.Label{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Label{}, err
	}
	return label, nil
}

func (s *LabelService) GetLabelById(db *database.Database, ownerID uuid.UUID, id string) (models.Label, error) {
	labelID, err := uuid.Parse(id)
	if err != nil {
		return models.Label{}, fmt.Errorf("%w: invalid label id", ErrInvalidInput)
	}

	var label models.Label
	if err := db.DB.First(&label, "id = ? AND user_id = ?", labelID, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Label{}, ErrLabelNotFound
		}
		return models.Label{}, err
	}
	return label, nil
}

func (s *LabelService) GetLabels(db *database.Database, ownerID uuid.UUID, params map[string]interface{}) ([]models.Label, error) {
	query := db.DB.Where("user_id = ?", ownerID).Order("name ASC")

	if search := paramString(params, "search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var labels []models.Label
	if err := query.Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

func (s *LabelService) UpdateLabel(db *database.Database, ownerID uuid.UUID, id string, updatedData map[string]interface{}) (models.Label, error) {
	labelID, err := uuid.Parse(id)
	if err != nil {
		return models.Label{}, fmt.Errorf("%w: invalid label id", ErrInvalidInput)
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Label{}, tx.Error
	}

	var label models.Label
	if err := tx.First(&label, "id = ? AND user_id = ?", labelID, ownerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Label{}, ErrLabelNotFound
		}
		return models.Label{}, err
	}

	if raw, present := updatedData["name"]; present {
		name, ok := raw.(string)
		if !ok || name == "" || len(name) > 100 {
			tx.Rollback()
			return models.Label{}, fmt.Errorf("%w: name must be 1-100 characters", ErrInvalidInput)
		}
		taken, err := labelNameTaken(tx, ownerID, name, &label.ID)
		if err != nil {
			tx.Rollback()
			return models.Label{}, err
		}
		if taken {
			tx.Rollback()
			return models.Label{}, ErrLabelNameExists
		}
		label.Name = name
	}
	if raw, present := updatedData["color"]; present {
		if color, ok := raw.(string); ok {
			label.Color = color
		}
	}
	if raw, present := updatedData["icon"]; present {
		if icon, ok := raw.(string); ok {
			label.Icon = icon
		}
	}
	if raw, present := updatedData["description"]; present {
		if description, ok := raw.(string); ok {
			label.Description = description
		}
	}

	if err := tx.Save(&label).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Label{}, ErrLabelNameExists
		}
		return models.Label{}, err
	}

	if err := recordLabelEvent(tx, broker.LabelUpdated, "update", &label); err != nil {
		tx.Rollback()
		return models.Label{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Label{}, err
	}
	return label, nil
}

func (s *LabelService) DeleteLabel(db *database.Database, ownerID uuid.UUID, id string) error {
	labelID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid label id", ErrInvalidInput)
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var label models.Label
	if err := tx.First(&label, "id = ? AND user_id = ?", labelID, ownerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLabelNotFound
		}
		return err
	}

	// Deleting a label cascades to its note assignments.
	if err := tx.Where("label_id = ?", label.ID).Delete(&models.NoteLabel{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&label).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := recordLabelEvent(tx, broker.LabelDeleted, "delete", &label); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
