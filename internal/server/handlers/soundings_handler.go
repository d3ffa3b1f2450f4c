package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
	"github.com/mamadbah2/tanksounding/internal/service/soundings"
)

type soundingRequest struct {
	Soundings map[string]models.RawSounding `json:"soundings"`
	Date      string                        `json:"date"`
}

func (r soundingRequest) raw() map[string]string {
	out := make(map[string]string, len(r.Soundings))
	for id, value := range r.Soundings {
		out[id] = string(value)
	}
	return out
}

type calculationResponse struct {
	Results     map[models.TankID]models.TankReading `json:"results"`
	TotalVolume float64                              `json:"totalVolume"`
	Errors      map[models.TankID]string             `json:"errors"`
}

func newCalculationResponse(calc soundings.Calculation) calculationResponse {
	return calculationResponse{
		Results:     calc.Results,
		TotalVolume: calc.TotalVolume,
		Errors:      calc.Errors(),
	}
}

// Calculate converts soundings to volumes without saving them.
func (h *Handler) Calculate(c *gin.Context) {
	var req soundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid calculate payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	calc, err := h.soundings.Calculate(req.raw())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCalculationResponse(calc))
}

// SaveRecord calculates and stores a new sounding record.
func (h *Handler) SaveRecord(c *gin.Context) {
	var req soundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid record payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, calc, err := h.soundings.Save(c.Request.Context(), req.raw(), req.Date)
	if errors.Is(err, soundings.ErrNoReadings) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "errors": calc.Errors()})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"record": record, "errors": calc.Errors()})
}
