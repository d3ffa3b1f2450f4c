package reporting

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

// ErrInvalidPeriod is returned for analytics periods shorter than one day.
var ErrInvalidPeriod = errors.New("analytics period must be at least one day")

const day = 24 * time.Hour

// Summarize computes usage over the records taken in the last periodDays days
// before now. It returns nil when no record falls inside the period. tanks lists
// every tank to report; a tank missing from a record counts as empty.
func Summarize(records []models.SoundingRecord, tanks []models.TankInfo, periodDays int, now time.Time) (*models.AnalyticsSummary, error) {
	if periodDays <= 0 {
		return nil, ErrInvalidPeriod
	}

	cutoff := now.AddDate(0, 0, -periodDays)
	period := make([]models.SoundingRecord, 0, len(records))
	for _, record := range records {
		if !record.Timestamp.Before(cutoff) {
			period = append(period, record)
		}
	}
	if len(period) == 0 {
		return nil, nil
	}

	sort.SliceStable(period, func(i, j int) bool {
		return period[i].Timestamp.Before(period[j].Timestamp)
	})

	first := period[0]
	last := period[len(period)-1]
	elapsed := math.Max(1, float64(last.Timestamp.Sub(first.Timestamp))/float64(day))
	count := float64(len(period))

	days := make(map[string]bool)
	for _, record := range period {
		days[record.Date] = true
	}

	summary := &models.AnalyticsSummary{
		PeriodDays:  periodDays,
		StartDate:   first.Date,
		EndDate:     last.Date,
		ElapsedDays: elapsed,
		UniqueDays:  len(days),
		RecordCount: len(period),
		Tanks:       make([]models.TankUsage, 0, len(tanks)),
		Records:     period,
	}

	for _, tank := range tanks {
		var sum float64
		for _, record := range period {
			sum += record.Volume(tank.ID)
		}

		usage := models.TankUsage{
			TankID:        tank.ID,
			Name:          tank.Name,
			FirstVolume:   first.Volume(tank.ID),
			LastVolume:    last.Volume(tank.ID),
			AverageVolume: sum / count,
			MaxCapacity:   tank.MaxVolumeTonnes,
		}
		usage.TotalUsage = usage.FirstVolume - usage.LastVolume
		usage.DailyUsage = usage.TotalUsage / elapsed
		if tank.MaxVolumeTonnes > 0 {
			usage.CapacityPercent = math.Abs(usage.TotalUsage/tank.MaxVolumeTonnes) * 100
		}
		summary.Tanks = append(summary.Tanks, usage)
	}

	var totalSum float64
	for _, record := range period {
		totalSum += record.SumVolumes()
	}
	summary.FirstTotalVolume = first.SumVolumes()
	summary.LastTotalVolume = last.SumVolumes()
	summary.AverageTotalVolume = totalSum / count
	summary.TotalUsage = summary.FirstTotalVolume - summary.LastTotalVolume
	summary.DailyUsage = summary.TotalUsage / elapsed

	return summary, nil
}
