package controllers

import (
	"net/http"

	"machmon/internal/services"

	"github.com/gin-gonic/gin"
)

// MetricsController serves the current snapshot and individual categories
type MetricsController struct {
	producer *services.Producer
	include  services.Categories
}

// NewMetricsController creates a controller over the given producer
func NewMetricsController(producer *services.Producer, include services.Categories) *MetricsController {
	return &MetricsController{producer: producer, include: include}
}

// GetSnapshot returns a fresh full snapshot honoring the configured categories
func (mc *MetricsController) GetSnapshot(c *gin.Context) {
	snap, failures := mc.producer.Produce(mc.include)
	if len(failures) > 0 {
		degraded := make([]string, 0, len(failures))
		for _, f := range failures {
			degraded = append(degraded, f.Category)
		}
		c.JSON(http.StatusOK, gin.H{"data": snap, "degraded": degraded})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

func (mc *MetricsController) GetCPU(c *gin.Context) {
	cpuInfo, err := services.ExtractCPU()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cpuInfo)
}

func (mc *MetricsController) GetMemory(c *gin.Context) {
	memInfo, err := services.ExtractMemory()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, memInfo)
}

func (mc *MetricsController) GetDisk(c *gin.Context) {
	diskInfo, err := services.ExtractDisk()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, diskInfo)
}

func (mc *MetricsController) GetProcesses(c *gin.Context) {
	procInfo, err := services.ExtractProcesses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, procInfo)
}

// GetHealth reports process liveness
func (mc *MetricsController) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
