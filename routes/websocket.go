package routes

import (
	"github.com/gin-gonic/gin"

	"inkwell-notes/inkwell/services"
)

func RegisterWebSocketRoutes(group *gin.RouterGroup, notifier services.NotifierServiceInterface) {
	group.GET("/ws", notifier.HandleConnection)
}
