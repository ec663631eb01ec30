package handler

import (
	"context"
	"net/http"

	"clinicmap-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GazetteerHandler exposes the gazetteer readiness state and reload trigger
type GazetteerHandler struct {
	service GazetteerService
}

// Service interface for dependency injection
type GazetteerService interface {
	Status() service.Status
	LoadGazetteers(context.Context) error
}

// NewGazetteerHandler creates a new gazetteer handler
func NewGazetteerHandler(svc GazetteerService) *GazetteerHandler {
	return &GazetteerHandler{service: svc}
}

// Status handles GET /status requests
// @Summary      Gazetteer readiness
// @Produce      json
// @Success      200 {object} service.Status
// @Router       /status [get]
func (h *GazetteerHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status())
}

// Reload handles POST /gazetteer/reload requests. Until a load succeeds the
// engine stays in its retryable resolution-unavailable state.
// @Summary      Retry loading the gazetteer datasets
// @Produce      json
// @Success      200 {object} service.Status
// @Failure      503 {object} map[string]string
// @Router       /gazetteer/reload [post]
func (h *GazetteerHandler) Reload(c *gin.Context) {
	if err := h.service.LoadGazetteers(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "resolution unavailable: gazetteer load failed"})
		return
	}
	c.JSON(http.StatusOK, h.service.Status())
}
