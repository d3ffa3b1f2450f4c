package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/tanksounding/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportCSV downloads every record as CSV.
func (h *Handler) ExportCSV(c *gin.Context) {
	content, err := h.exports.CSV(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", attachment(export.DefaultFileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}

// ExportXLSX downloads every record as a workbook.
func (h *Handler) ExportXLSX(c *gin.Context) {
	data, err := h.exports.XLSX(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	name := strings.TrimSuffix(export.DefaultFileName, ".csv") + ".xlsx"
	c.Header("Content-Disposition", attachment(name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

type saveRequest struct {
	FileName string `json:"fileName"`
}

// SaveCSV writes the CSV export to the configured export location.
func (h *Handler) SaveCSV(c *gin.Context) {
	var req saveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	path, err := h.exports.SaveCSV(c.Request.Context(), req.FileName)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}
