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

type UserServiceInterface interface {
	Register(db *database.Database, userData map[string]interface{}) (models.User, error)
	GetUserById(db *database.Database, id string) (models.User, error)
}

type UserService struct {
	authService AuthServiceInterface
}

func NewUserService(authService AuthServiceInterface) UserServiceInterface {
	return &UserService{authService: authService}
}

var UserServiceInstance UserServiceInterface

func (s *UserService) Register(db *database.Database, userData map[string]interface{}) (models.User, error) {
	email, ok := userData["email"].(string)
	if !ok || email == "" {
		return models.User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	password, ok := userData["password"].(string)
	if !ok || len(password) < 8 {
		return models.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
	if displayName, ok := userData["display_name"].(string); ok {
		user.DisplayName = displayName
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrResourceExists
		}
		return models.User{}, err
	}

	event, err := models.NewEvent(string(broker.UserCreated), "user", "create", user.ID.String(), map[string]interface{}{
		"user_id": user.ID.String(),
		"email":   user.Email,
	})
	if err != nil {
		tx.Rollback()
		return models.User{}, err
	}
	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetUserById(db *database.Database, id string) (models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
