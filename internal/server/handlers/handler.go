package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/calibration"
	"github.com/mamadbah2/tanksounding/internal/domain/models"
	"github.com/mamadbah2/tanksounding/internal/export"
	"github.com/mamadbah2/tanksounding/internal/service/records"
	"github.com/mamadbah2/tanksounding/internal/service/reporting"
	"github.com/mamadbah2/tanksounding/internal/service/soundings"
)

// TankCatalog exposes the calibration set.
type TankCatalog interface {
	Tanks() []models.TankInfo
	Info(id models.TankID) (models.TankInfo, error)
	Table(id models.TankID) (models.CalibrationTable, error)
}

// SoundingService converts and saves soundings.
type SoundingService interface {
	Calculate(raw map[string]string) (soundings.Calculation, error)
	Save(ctx context.Context, raw map[string]string, date string) (models.SoundingRecord, soundings.Calculation, error)
}

// RecordService reads and mutates the stored records.
type RecordService interface {
	ListAll(ctx context.Context, order models.SortOrder) []models.SoundingRecord
	ListByDate(ctx context.Context, date string, order models.SortOrder) []models.SoundingRecord
	Delete(ctx context.Context, id models.RecordID) (bool, error)
	ReplaceAll(ctx context.Context, records []models.SoundingRecord) error
	UniqueDates(ctx context.Context) []string
}

// AnalyticsService computes usage summaries.
type AnalyticsService interface {
	UsageSummary(ctx context.Context, periodDays int) (*models.AnalyticsSummary, error)
}

// ExportService renders and saves exports.
type ExportService interface {
	CSV(ctx context.Context) (string, error)
	XLSX(ctx context.Context) ([]byte, error)
	SaveCSV(ctx context.Context, suggestedName string) (string, error)
}

// Handler serves the sounding API.
type Handler struct {
	tanks     TankCatalog
	soundings SoundingService
	records   RecordService
	analytics AnalyticsService
	exports   ExportService
	logger    *zap.Logger
}

// NewHandler constructs the HTTP handler adapter.
func NewHandler(tanks TankCatalog, soundingSvc SoundingService, recordSvc RecordService, analytics AnalyticsService, exports ExportService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		tanks:     tanks,
		soundings: soundingSvc,
		records:   recordSvc,
		analytics: analytics,
		exports:   exports,
		logger:    logger,
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps domain errors onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var unknown *calibration.UnknownTankError
	var invalid *calibration.InvalidSoundingError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &unknown):
		status = http.StatusBadRequest
	case errors.As(err, &invalid):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, soundings.ErrInvalidDate),
		errors.Is(err, reporting.ErrInvalidPeriod),
		errors.Is(err, records.ErrDuplicateID),
		errors.Is(err, records.ErrInvalidRecord):
		status = http.StatusBadRequest
	case errors.Is(err, export.ErrNoRecords):
		status = http.StatusNotFound
	case errors.Is(err, export.ErrCancelled):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	h.logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}
