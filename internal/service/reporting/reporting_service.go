package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
	"github.com/mamadbah2/tanksounding/internal/export"
)

// WeeklyPeriodDays is the period covered by the scheduled report.
const WeeklyPeriodDays = 7

// RecordLister supplies the stored sounding records.
type RecordLister interface {
	ListAll(ctx context.Context, order models.SortOrder) []models.SoundingRecord
}

// TankLister supplies the tanks to report on.
type TankLister interface {
	Tanks() []models.TankInfo
}

// Service exposes usage analytics over the record store.
type Service struct {
	records RecordLister
	tanks   TankLister
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(records RecordLister, tanks TankLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, tanks: tanks, logger: logger, now: time.Now}
}

// UsageSummary summarises the last periodDays days. A nil summary means no
// sounding was taken in that period.
func (s *Service) UsageSummary(ctx context.Context, periodDays int) (*models.AnalyticsSummary, error) {
	records := s.records.ListAll(ctx, models.OldestFirst)
	summary, err := Summarize(records, s.tanks.Tanks(), periodDays, s.now())
	if err != nil {
		return nil, err
	}

	if summary == nil {
		s.logger.Debug("no records in analytics period", zap.Int("period_days", periodDays), zap.Int("records", len(records)))
	}
	return summary, nil
}

// WeeklyReport renders the last week's usage as plain text for notifications.
func (s *Service) WeeklyReport(ctx context.Context) (string, error) {
	summary, err := s.UsageSummary(ctx, WeeklyPeriodDays)
	if err != nil {
		return "", err
	}
	if summary == nil {
		return fmt.Sprintf("Fresh water usage (last %d days): no soundings recorded.", WeeklyPeriodDays), nil
	}
	return FormatSummary(summary), nil
}

// FormatSummary renders a summary as a short multi-line digest.
func FormatSummary(summary *models.AnalyticsSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Fresh water usage %s - %s (%s days, %d records on %d days)\n",
		summary.StartDate, summary.EndDate, export.Fixed(summary.ElapsedDays, 1), summary.RecordCount, summary.UniqueDays)
	fmt.Fprintf(&b, "Total: %s t -> %s t, used %s t (%s t/day), average %s t\n",
		export.Fixed(summary.FirstTotalVolume, 3),
		export.Fixed(summary.LastTotalVolume, 3),
		export.Fixed(summary.TotalUsage, 3),
		export.Fixed(summary.DailyUsage, 3),
		export.Fixed(summary.AverageTotalVolume, 3))

	for _, tank := range summary.Tanks {
		fmt.Fprintf(&b, "%s: used %s t (%s t/day), %s%% of capacity\n",
			tank.Name,
			export.Fixed(tank.TotalUsage, 3),
			export.Fixed(tank.DailyUsage, 3),
			export.Fixed(tank.CapacityPercent, 1))
	}

	return strings.TrimRight(b.String(), "\n")
}
