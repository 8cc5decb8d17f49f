package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-notes/inkwell/database"
	"inkwell-notes/inkwell/services"
)

func RegisterNoteRoutes(group *gin.RouterGroup, db *database.Database, noteService services.NoteServiceInterface) {
	// Collection endpoints with query parameters
	group.GET("/notes", func(c *gin.Context) { GetNotes(c, db, noteService) })
	group.POST("/notes", func(c *gin.Context) { CreateNote(c, db, noteService) })
	group.GET("/notes/stats/overview", func(c *gin.Context) { GetNoteStats(c, db, noteService) })
	group.GET("/notes-with-labels", func(c *gin.Context) { GetNotesWithTags(c, db, noteService) })

	// Resource-specific endpoints
	group.GET("/notes/:id", func(c *gin.Context) { GetNoteById(c, db, noteService) })
	group.PUT("/notes/:id", func(c *gin.Context) { UpdateNote(c, db, noteService) })
	group.PATCH("/notes/:id/autosave", func(c *gin.Context) { AutosaveNote(c, db, noteService) })
	group.DELETE("/notes/:id", func(c *gin.Context) { DeleteNote(c, db, noteService) })
}

// RegisterPublicNoteRoutes exposes the anonymous share-link endpoint. It is
// registered outside the authenticated group on purpose.
func RegisterPublicNoteRoutes(group *gin.RouterGroup, db *database.Database, noteService services.NoteServiceInterface) {
	group.GET("/notes/public/:shareId", func(c *gin.Context) { GetPublicNote(c, db, noteService) })
}

func CreateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var noteData map[string]interface{}
	if err := c.ShouldBindJSON(&noteData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdNote, err := noteService.CreateNote(db, userID, noteData)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdNote)
}

func GetNoteById(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	note, err := noteService.GetNoteById(db, userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func UpdateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var noteData map[string]interface{}
	if err := c.ShouldBindJSON(&noteData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updatedNote, err := noteService.UpdateNote(db, userID, c.Param("id"), noteData)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updatedNote)
}

func AutosaveNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var autosaveData map[string]interface{}
	if err := c.ShouldBindJSON(&autosaveData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := noteService.AutosaveNote(db, userID, c.Param("id"), autosaveData)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func DeleteNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := noteService.DeleteNote(db, userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}

func GetPublicNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	note, err := noteService.GetPublicNote(db, c.Param("shareId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// listParamKeys are the query parameters forwarded to the filter builder.
var listParamKeys = []string{
	"search", "tag", "draft_only", "visibility",
	"date_from", "date_to", "label_id", "category_id",
	"sort_by", "sort_order", "page", "limit",
}

func collectListParams(c *gin.Context) map[string]interface{} {
	params := make(map[string]interface{})
	for _, key := range listParamKeys {
		if value := c.Query(key); value != "" {
			params[key] = value
		}
	}
	return params
}

func GetNotes(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, err := noteService.GetNotes(db, userID, collectListParams(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func GetNotesWithTags(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notes, err := noteService.GetNotesWithTags(db, userID, collectListParams(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func GetNoteStats(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := noteService.GetNoteStats(db, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
