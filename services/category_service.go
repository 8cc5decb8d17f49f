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

// Hard cap on ancestor-chain walks. A well-formed tree never gets close.
const maxCategoryDepth = 100

type CategoryServiceInterface interface {
	CreateCategory(db *database.Database, ownerID uuid.UUID, categoryData map[string]interface{}) (models.Category, error)
	GetCategoryById(db *database.Database, ownerID uuid.UUID, id string) (models.Category, error)
	GetCategories(db *database.Database, ownerID uuid.UUID, params map[string]interface{}) ([]models.Category, error)
	UpdateCategory(db *database.Database, ownerID uuid.UUID, id string, updatedData map[string]interface{}) (models.Category, error)
	DeleteCategory(db *database.Database, ownerID uuid.UUID, id string) error
}

type CategoryService struct{}

func NewCategoryService() CategoryServiceInterface {
	return &CategoryService{}
}

var CategoryServiceInstance CategoryServiceInterface

func categoryNameTaken(tx *gorm.DB, ownerID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := tx.Model(&models.Category{}).Where("user_id = ? AND name = ?", ownerID, name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// resolveParent validates that the parent exists, belongs to the owner, and
// that pointing categoryID at it does not close a cycle. The walk follows
// ParentID links toward the root.
func resolveParent(tx *gorm.DB, ownerID, categoryID uuid.UUID, parentRaw interface{}) (*uuid.UUID, error) {
	if parentRaw == nil {
		return nil, nil
	}

	parentStr, ok := parentRaw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: parent_category_id must be a string", ErrInvalidInput)
	}
	parentID, err := uuid.Parse(parentStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid parent_category_id", ErrInvalidInput)
	}
	if parentID == categoryID {
		return nil, ErrCategoryCycle
	}

	current := parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		var ancestor models.Category
		if err := tx.Select("id", "parent_id").First(&ancestor, "id = ? AND user_id = ?", current, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		if ancestor.ParentID == nil {
			return &parentID, nil
		}
		if *ancestor.ParentID == categoryID {
			return nil, ErrCategoryCycle
		}
		current = *ancestor.ParentID
	}
	return nil, ErrCategoryCycle
}

func recordCategoryEvent(tx *gorm.DB, eventType broker.EventType, operation string, category *models.Category) error {
	event, err := models.NewEvent(string(eventType), "category", operation, category.UserID.String(), map[string]interface{}{
		"category_id": category.ID.String(),
		"user_id":     category.UserID.String(),
		"name":        category.Name,
	})
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}

func (s *CategoryService) CreateCategory(db *database.Database, ownerID uuid.UUID, categoryData map[string]interface{}) (models.Category, error) {
	name, ok := categoryData["name"].(string)
	if !ok || name == "" || len(name) > 100 {
		return models.Category{}, fmt.Errorf("%w: name must be 1-100 characters", ErrInvalidInput)
	}

	category := models.Category{
		ID:     uuid.New(),
		UserID: ownerID,
		Name:   name,
	}
	if color, ok := categoryData["color"].(string); ok {
		category.Color = color
	}
	if icon, ok := categoryData["icon"].(string); ok {
		category.Icon = icon
	}
	if description, ok := categoryData["description"].(string); ok {
		category.Description = description
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Category{}, tx.Error
	}

	taken, err := categoryNameTaken(tx, ownerID, name, nil)
	if err != nil {
		tx.Rollback()
		return models.Category{}, err
	}
	if taken {
		tx.Rollback()
		return models.Category{}, ErrCategoryNameExists
	}

	if raw, present := categoryData["parent_category_id"]; present {
		parentID, err := resolveParent(tx, ownerID, category.ID, raw)
		if err != nil {
			tx.Rollback()
			return models.Category{}, err
		}
		category.ParentID = parentID
	}

	if err := tx.Create(&category).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Category{}, ErrCategoryNameExists
		}
		return models.Category{}, err
	}

	if err := recordCategoryEvent(tx, broker.CategoryCreated, "create", &category); err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) GetCategoryById(db *database.Database, ownerID uuid.UUID, id string) (models.Category, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return models.Category{}, fmt.Errorf("%w: invalid category id", ErrInvalidInput)
	}

	var category models.Category
	if err := db.DB.Preload("Children").First(&category, "id = ? AND user_id = ?", categoryID, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) GetCategories(db *database.Database, ownerID uuid.UUID, params map[string]interface{}) ([]models.Category, error) {
	query := db.DB.Where("user_id = ?", ownerID).Order("name ASC")

	if search := paramString(params, "search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if rootOnly, ok := paramBool(params, "root_only"); ok && rootOnly {
		query = query.Where("parent_id IS NULL")
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) UpdateCategory(db *database.Database, ownerID uuid.UUID, id string, updatedData map[string]interface{}) (models.Category, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return models.Category{}, fmt.Errorf("%w: invalid category id", ErrInvalidInput)
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Category{}, tx.Error
	}

	var category models.Category
	if err := tx.First(&category, "id = ? AND user_id = ?", categoryID, ownerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}

	if raw, present := updatedData["name"]; present {
		name, ok := raw.(string)
		if !ok || name == "" || len(name) > 100 {
			tx.Rollback()
			return models.Category{}, fmt.Errorf("%w: name must be 1-100 characters", ErrInvalidInput)
		}
		taken, err := categoryNameTaken(tx, ownerID, name, &category.ID)
		if err != nil {
			tx.Rollback()
			return models.Category{}, err
		}
		if taken {
			tx.Rollback()
			return models.Category{}, ErrCategoryNameExists
		}
		category.Name = name
	}
	if raw, present := updatedData["color"]; present {
		if color, ok := raw.(string); ok {
			category.Color = color
		}
	}
	if raw, present := updatedData["icon"]; present {
		if icon, ok := raw.(string); ok {
			category.Icon = icon
		}
	}
	if raw, present := updatedData["description"]; present {
		if description, ok := raw.(string); ok {
			category.Description = description
		}
	}
	if raw, present := updatedData["parent_category_id"]; present {
		parentID, err := resolveParent(tx, ownerID, category.ID, raw)
		if err != nil {
			tx.Rollback()
			return models.Category{}, err
		}
		category.ParentID = parentID
	}

	if err := tx.Save(&category).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Category{}, ErrCategoryNameExists
		}
		return models.Category{}, err
	}

	if err := recordCategoryEvent(tx, broker.CategoryUpdated, "update", &category); err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(db *database.Database, ownerID uuid.UUID, id string) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid category id", ErrInvalidInput)
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var category models.Category
	if err := tx.First(&category, "id = ? AND user_id = ?", categoryID, ownerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	// Children are detached, not deleted with their parent.
	if err := tx.Model(&models.Category{}).Where("parent_id = ?", category.ID).Update("parent_id", nil).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("category_id = ?", category.ID).Delete(&models.NoteCategory{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&category).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := recordCategoryEvent(tx, broker.CategoryDeleted, "delete", &category); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
