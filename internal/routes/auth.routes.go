package routes

import (
	"machmon/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterStreamRoutes wires token issuance and the live snapshot stream
func RegisterStreamRoutes(r *gin.Engine, sc *controllers.StreamController) {
	r.POST("/auth/token", sc.HandleGetToken)

	// WebSocket endpoint for real-time snapshots; token goes in the query
	r.GET("/ws", sc.HandleWebSocket)
}
