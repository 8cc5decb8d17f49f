package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"inkwell-notes/inkwell/database"
	"inkwell-notes/inkwell/models"
	"inkwell-notes/inkwell/services"
	"inkwell-notes/inkwell/testutils"
)

var testUserID = uuid.MustParse("90a12345-f12a-98c4-a456-513432930000")

// newNoteTestRouter wires the note routes behind a stub of the auth
// middleware that injects a fixed owner identity.
func newNoteTestRouter(db *database.Database, noteService services.NoteServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authed := router.Group("/api/v1")
	authed.Use(func(c *gin.Context) {
		c.Set("userID", testUserID)
		c.Next()
	})
	RegisterNoteRoutes(authed, db, noteService)

	public := router.Group("/api/v1")
	RegisterPublicNoteRoutes(public, db, noteService)

	return router
}

func TestCreateNoteRoute(t *testing.T) {
	db := &database.Database{}
	mockService := &testutils.MockNoteService{}
	router := newNoteTestRouter(db, mockService)

	t.Run("Invalid JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/notes", bytes.NewBufferString("invalid json"))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Title", func(t *testing.T) {
		mockService.On("CreateNote", db, testUserID, mock.Anything).
			Return(models.Note{}, services.ErrInvalidInput).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/notes", bytes.NewBufferString(`{"content":"no title"}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Valid JSON", func(t *testing.T) {
		content := "Test Content"
		mockService.On("CreateNote", db, testUserID, mock.Anything).
			Return(models.Note{
				ID:      uuid.New(),
				UserID:  testUserID,
				Title:   "Test Note",
				Content: &content,
				IsDraft: true,
			}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/notes", bytes.NewBufferString(`{"title":"Test Note","content":"Test Content"}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		var note models.Note
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
		assert.Equal(t, "Test Note", note.Title)
	})

	mockService.AssertExpectations(t)
}

func TestGetNoteByIdRoute(t *testing.T) {
	db := &database.Database{}
	mockService := &testutils.MockNoteService{}
	router := newNoteTestRouter(db, mockService)

	t.Run("Note Not Found", func(t *testing.T) {
		missingID := uuid.New().String()
		mockService.On("GetNoteById", db, testUserID, missingID).
			Return(models.Note{}, services.ErrNoteNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/notes/"+missingID, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Note Found", func(t *testing.T) {
		noteID := uuid.New()
		mockService.On("GetNoteById", db, testUserID, noteID.String()).
			Return(models.Note{ID: noteID, UserID: testUserID, Title: "Found"}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/notes/"+noteID.String(), nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	mockService.AssertExpectations(t)
}

func TestUpdateNoteRoute(t *testing.T) {
	db := &database.Database{}
	mockService := &testutils.MockNoteService{}
	router := newNoteTestRouter(db, mockService)

	t.Run("Share Conflict", func(t *testing.T) {
		noteID := uuid.New().String()
		mockService.On("UpdateNote", db, testUserID, noteID, mock.Anything).
			Return(models.Note{}, services.ErrShareIDConflict).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/notes/"+noteID, bytes.NewBufferString(`{"is_public":true}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		noteID := uuid.New()
		mockService.On("UpdateNote", db, testUserID, noteID.String(), mock.Anything).
			Return(models.Note{ID: noteID, UserID: testUserID, Title: "Renamed"}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/notes/"+noteID.String(), bytes.NewBufferString(`{"title":"Renamed"}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	mockService.AssertExpectations(t)
}

func TestDeleteNoteRoute(t *testing.T) {
	db := &database.Database{}
	mockService := &testutils.MockNoteService{}
	router := newNoteTestRouter(db, mockService)

	noteID := uuid.New().String()
	mockService.On("DeleteNote", db, testUserID, noteID).Return(nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/v1/notes/"+noteID, nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	mockService.AssertExpectations(t)
}

func TestGetPublicNoteRoute(t *testing.T) {
	db := &database.Database{}
	mockService := &testutils.MockNoteService{}
	router := newNoteTestRouter(db, mockService)

	t.Run("Unknown Share ID", func(t *testing.T) {
		mockService.On("GetPublicNote", db, "000000000000").
			Return(models.Note{}, services.ErrNoteNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/notes/public/000000000000", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Shared Note", func(t *testing.T) {
		shareID := "a1b2c3d4e5f6"
		mockService.On("GetPublicNote", db, shareID).
			Return(models.Note{ID: uuid.New(), Title: "Shared", IsPublic: true, PublicShareID: &shareID}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/notes/public/"+shareID, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	mockService.AssertExpectations(t)
}

func TestGetNotesRoute_ForwardsQueryParams(t *testing.T) {
	db := &database.Database{}
	mockService := &testutils.MockNoteService{}
	router := newNoteTestRouter(db, mockService)

	mockService.On("GetNotes", db, testUserID, map[string]interface{}{
		"search":     "meeting",
		"visibility": "public",
		"page":       "2",
	}).Return(models.NotePage{Page: 2, Limit: 20}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/notes?search=meeting&visibility=public&page=2", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestGetNotesRoute_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	db := &database.Database{}
	mockService := &testutils.MockNoteService{}

	group := router.Group("/api/v1")
	RegisterNoteRoutes(group, db, mockService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/notes", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetNoteStatsRoute(t *testing.T) {
	db := &database.Database{}
	mockService := &testutils.MockNoteService{}
	router := newNoteTestRouter(db, mockService)

	mockService.On("GetNoteStats", db, testUserID).
		Return(models.NoteStats{Total: 5, Drafts: 2, Published: 3}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/notes/stats/overview", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats models.NoteStats
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(5), stats.Total)

	mockService.AssertExpectations(t)
}
