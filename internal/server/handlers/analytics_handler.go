package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Analytics returns the usage summary for ?period=N days (default 7). The
// summary is null when no record falls inside the period.
func (h *Handler) Analytics(c *gin.Context) {
	period, err := strconv.Atoi(c.DefaultQuery("period", "7"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be a whole number of days"})
		return
	}

	summary, err := h.analytics.UsageSummary(c.Request.Context(), period)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
