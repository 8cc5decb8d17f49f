package testutils

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"inkwell-notes/inkwell/database"
	"inkwell-notes/inkwell/models"
)

// MockNoteService mocks the NoteServiceInterface for testing
type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) CreateNote(db *database.Database, ownerID uuid.UUID, noteData map[string]interface{}) (models.Note, error) {
	args := m.Called(db, ownerID, noteData)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) GetNoteById(db *database.Database, ownerID uuid.UUID, id string) (models.Note, error) {
	args := m.Called(db, ownerID, id)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) GetNotes(db *database.Database, ownerID uuid.UUID, params map[string]interface{}) (models.NotePage, error) {
	args := m.Called(db, ownerID, params)
	return args.Get(0).(models.NotePage), args.Error(1)
}

func (m *MockNoteService) GetNotesWithTags(db *database.Database, ownerID uuid.UUID, params map[string]interface{}) ([]models.Note, error) {
	args := m.Called(db, ownerID, params)
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockNoteService) UpdateNote(db *database.Database, ownerID uuid.UUID, id string, updatedData map[string]interface{}) (models.Note, error) {
	args := m.Called(db, ownerID, id, updatedData)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) AutosaveNote(db *database.Database, ownerID uuid.UUID, id string, autosaveData map[string]interface{}) (models.Note, error) {
	args := m.Called(db, ownerID, id, autosaveData)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) DeleteNote(db *database.Database, ownerID uuid.UUID, id string) error {
	args := m.Called(db, ownerID, id)
	return args.Error(0)
}

func (m *MockNoteService) GetPublicNote(db *database.Database, shareID string) (models.Note, error) {
	args := m.Called(db, shareID)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) GetNoteStats(db *database.Database, ownerID uuid.UUID) (models.NoteStats, error) {
	args := m.Called(db, ownerID)
	return args.Get(0).(models.NoteStats), args.Error(1)
}

// MockTagService mocks the TagServiceInterface for testing
type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) ReplaceNoteLabels(db *database.Database, ownerID uuid.UUID, noteID string, labelIDs []string) ([]models.Label, error) {
	args := m.Called(db, ownerID, noteID, labelIDs)
	return args.Get(0).([]models.Label), args.Error(1)
}

func (m *MockTagService) ReplaceNoteCategories(db *database.Database, ownerID uuid.UUID, noteID string, categoryIDs []string) ([]models.Category, error) {
	args := m.Called(db, ownerID, noteID, categoryIDs)
	return args.Get(0).([]models.Category), args.Error(1)
}

// MockUserService is a mock implementation of UserServiceInterface
type MockUserService struct{}

func (m *MockUserService) Register(db *database.Database, userData map[string]interface{}) (models.User, error) {
	email, _ := userData["email"].(string)
	return models.User{ID: uuid.New(), Email: email}, nil
}

func (m *MockUserService) GetUserById(db *database.Database, id string) (models.User, error) {
	return models.User{
		ID:    uuid.MustParse(id),
		Email: "test@example.com",
	}, nil
}
