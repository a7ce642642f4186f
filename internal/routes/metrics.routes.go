package routes

import (
	"machmon/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterMetricRoutes wires the snapshot endpoints under /metrics
func RegisterMetricRoutes(r *gin.Engine, mc *controllers.MetricsController, auth gin.HandlerFunc) {
	r.GET("/healthz", mc.GetHealth)

	metrics := r.Group("/metrics", auth)
	{
		metrics.GET("/", mc.GetSnapshot)
		metrics.GET("/cpu", mc.GetCPU)
		metrics.GET("/memory", mc.GetMemory)
		metrics.GET("/disk", mc.GetDisk)
		metrics.GET("/processes", mc.GetProcesses)
	}
}
