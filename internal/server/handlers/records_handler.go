package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
	"github.com/mamadbah2/tanksounding/internal/service/records"
)

// ListRecords returns stored records, newest first unless order=oldest.
// An optional date (dd/mm/yyyy) narrows the list to one day.
func (h *Handler) ListRecords(c *gin.Context) {
	order := models.NewestFirst
	switch c.DefaultQuery("order", "newest") {
	case "newest":
	case "oldest":
		order = models.OldestFirst
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "order must be newest or oldest"})
		return
	}

	var list []models.SoundingRecord
	if date := c.Query("date"); date != "" {
		list = h.records.ListByDate(c.Request.Context(), date, order)
	} else {
		list = h.records.ListAll(c.Request.Context(), order)
	}

	c.JSON(http.StatusOK, gin.H{"records": list})
}

// RecordDates lists the distinct record dates, newest first.
func (h *Handler) RecordDates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dates": h.records.UniqueDates(c.Request.Context())})
}

// DeleteRecord removes one record by id.
func (h *Handler) DeleteRecord(c *gin.Context) {
	id := models.RecordID(c.Param("id"))

	removed, err := h.records.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type restoreRequest struct {
	Records []models.SoundingRecord `json:"records"`
}

// RestoreRecords replaces the stored list, e.g. from a backup.
func (h *Handler) RestoreRecords(c *gin.Context) {
	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid restore payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.records.ReplaceAll(c.Request.Context(), req.Records); err != nil {
		if errors.Is(err, records.ErrPersist) {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"restored": len(req.Records)})
}
