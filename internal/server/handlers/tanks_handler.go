package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

// ListTanks returns every tank with its limits in display order.
func (h *Handler) ListTanks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tanks": h.tanks.Tanks()})
}

// TankTable returns the calibration table of one tank.
func (h *Handler) TankTable(c *gin.Context) {
	id := models.TankID(c.Param("id"))

	info, err := h.tanks.Info(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	table, err := h.tanks.Table(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tank": info, "table": table})
}
