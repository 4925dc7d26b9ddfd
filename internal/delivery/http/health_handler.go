package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the process liveness check.
type HealthHandler struct{}

// NewHealthHandler builds a HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck reports the service as healthy once the router is serving.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "minute-empire-backend",
	})
}
