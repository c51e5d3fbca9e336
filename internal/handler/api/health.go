package api

import (
	"net/http"

	"hotel-booking/internal/infra/health"

	"github.com/gin-gonic/gin"
)

// HealthReporter is satisfied by *health.Monitor.
type HealthReporter interface {
	Last() (health.Report, bool)
}

type HealthHandler struct {
	reporter HealthReporter
}

func NewHealthHandler(reporter HealthReporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

// @Summary Health report
// @Description Result of the last scheduled check: store reachability, process usage and subscriber count
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} health.Report
// @Success 503 {object} health.Report
// @Router /api/admin/health [get]
func (h *HealthHandler) Report(c *gin.Context) {
	report, ok := h.reporter.Last()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	status := http.StatusOK
	if report.Status != health.StatusOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
