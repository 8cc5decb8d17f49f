package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-notes/inkwell/database"
	"inkwell-notes/inkwell/services"
)

func RegisterCategoryRoutes(group *gin.RouterGroup, db *database.Database, categoryService services.CategoryServiceInterface) {
	group.GET("/categories", func(c *gin.Context) { GetCategories(c, db, categoryService) })
	group.POST("/categories", func(c *gin.Context) { CreateCategory(c, db, categoryService) })
	group.GET("/categories/:id", func(c *gin.Context) { GetCategoryById(c, db, categoryService) })
	group.PUT("/categories/:id", func(c *gin.Context) { UpdateCategory(c, db, categoryService) })
	group.DELETE("/categories/:id", func(c *gin.Context) { DeleteCategory(c, db, categoryService) })
}

func CreateCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var categoryData map[string]interface{}
	if err := c.ShouldBindJSON(&categoryData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := categoryService.CreateCategory(db, userID, categoryData)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func GetCategories(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := make(map[string]interface{})
	if search := c.Query("search"); search != "" {
		params["search"] = search
	}
	if rootOnly := c.Query("root_only"); rootOnly != "" {
		params["root_only"] = rootOnly
	}

	categories, err := categoryService.GetCategories(db, userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func GetCategoryById(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	category, err := categoryService.GetCategoryById(db, userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func UpdateCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var categoryData map[string]interface{}
	if err := c.ShouldBindJSON(&categoryData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := categoryService.UpdateCategory(db, userID, c.Param("id"), categoryData)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func DeleteCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := categoryService.DeleteCategory(db, userID, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}
