package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-notes/inkwell/database"
	"inkwell-notes/inkwell/services"
)

func RegisterLabelRoutes(group *gin.RouterGroup, db *database.Database, labelService services.LabelServiceInterface) {
	group.GET("/labels", func(c *gin.Context) { GetLabels(c, db, labelService) })
	group.POST("/labels", func(c *gin.Context) { CreateLabel(c, db, labelService) })
	group.GET("/labels/:id", func(c *gin.Context) { GetLabelById(c, db, labelService) })
	group.PUT("/labels/:id", func(c *gin.Context) { UpdateLabel(c, db, labelService) })
	group.DELETE("/labels/:id", func(c *gin.Context) { DeleteLabel(c, db, labelService) })
}

func CreateLabel(c *gin.Context, db *database.Database, labelService services.LabelServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var labelData map[string]interface{}
	if err := c.ShouldBindJSON(&labelData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label, err := labelService.CreateLabel(db, userID, labelData)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, label)
}

func GetLabels(c *gin.Context, db *database.Database, labelService services.LabelServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := make(map[string]interface{})
	if search := c.Query("search"); search != "" {
		params["search"] = search
	}

	labels, err := labelService.GetLabels(db, userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, labels)
}

func GetLabelById(c *gin.Context, db *database.Database, labelService services.LabelServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	label, err := labelService.GetLabelById(db, userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

func UpdateLabel(c *gin.Context, db *database.Database, labelService services.LabelServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var labelData map[string]interface{}
	if err := c.ShouldBindJSON(&labelData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label, err := labelService.UpdateLabel(db, userID, c.Param("id"), labelData)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

func DeleteLabel(c *gin.Context, db *database.Database, labelService services.LabelServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := labelService.DeleteLabel(db, userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}
