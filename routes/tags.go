package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-notes/inkwell/database"
	"inkwell-notes/inkwell/services"
)

type assignLabelsRequest struct {
	LabelIDs []string `json:"labelIds"`
}

type assignCategoriesRequest struct {
	CategoryIDs []string `json:"categoryIds"`
}

// RegisterTagRoutes wires the full-replace assignment endpoints. The body
// carries the complete new set; an empty array clears all assignments of
// that kind.
func RegisterTagRoutes(group *gin.RouterGroup, db *database.Database, tagService services.TagServiceInterface) {
	group.POST("/notes/:id/labels", func(c *gin.Context) { AssignNoteLabels(c, db, tagService) })
	group.POST("/notes/:id/categories", func(c *gin.Context) { AssignNoteCategories(c, db, tagService) })
}

func AssignNoteLabels(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request assignLabelsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	labels, err := tagService.ReplaceNoteLabels(db, userID, c.Param("id"), request.LabelIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

func AssignNoteCategories(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request assignCategoriesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categories, err := tagService.ReplaceNoteCategories(db, userID, c.Param("id"), request.CategoryIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
