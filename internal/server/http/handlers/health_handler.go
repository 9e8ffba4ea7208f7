package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness.
type HealthHandler struct{}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Live handles GET /healthz.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
