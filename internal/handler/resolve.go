package handler

import (
	"context"
	"net/http"

	"clinicmap-api/internal/aggregate"
	"clinicmap-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ResolveHandler handles record resolution requests
type ResolveHandler struct {
	service ResolveService
}

// Service interface for dependency injection
type ResolveService interface {
	Resolve(context.Context, []models.RawVisitRecord) (aggregate.Result, error)
}

// ResolveRequest is the request body for POST /resolve: the host dashboard's
// already-filtered visit records.
type ResolveRequest struct {
	Records []models.RawVisitRecord `json:"records" binding:"required"`
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(svc ResolveService) *ResolveHandler {
	return &ResolveHandler{service: svc}
}

// Resolve handles POST /resolve requests
// @Summary      Resolve visit records to map points
// @Description  Normalizes each record's address, aggregates by resolved neighborhood and returns plottable points with a coverage summary.
// @Accept       json
// @Produce      json
// @Param        request body ResolveRequest true "filtered visit records"
// @Success      200 {object} aggregate.Result
// @Failure      400 {object} map[string]string
// @Router       /resolve [post]
func (h *ResolveHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: expected {\"records\": [...]}"})
		return
	}

	result, err := h.service.Resolve(c.Request.Context(), req.Records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}
