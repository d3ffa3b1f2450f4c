package models

// TankUsage summarises one tank over an analytics period.
type TankUsage struct {
	TankID          TankID  `json:"tankId"`
	Name            string  `json:"name"`
	FirstVolume     float64 `json:"firstVolume"`
	LastVolume      float64 `json:"lastVolume"`
	AverageVolume   float64 `json:"averageVolume"`
	TotalUsage      float64 `json:"totalUsage"`
	DailyUsage      float64 `json:"dailyUsage"`
	MaxCapacity     float64 `json:"maxCapacity"`
	CapacityPercent float64 `json:"capacityPercent"`
}

// AnalyticsSummary is derived on demand from the records of a period and never persisted.
// TotalUsage is positive for consumption and negative for a refill.
type AnalyticsSummary struct {
	PeriodDays         int              `json:"periodDays"`
	StartDate          string           `json:"startDate"`
	EndDate            string           `json:"endDate"`
	ElapsedDays        float64          `json:"elapsedDays"`
	UniqueDays         int              `json:"uniqueDays"`
	RecordCount        int              `json:"recordCount"`
	Tanks              []TankUsage      `json:"tanks"`
	FirstTotalVolume   float64          `json:"firstTotalVolume"`
	LastTotalVolume    float64          `json:"lastTotalVolume"`
	AverageTotalVolume float64          `json:"averageTotalVolume"`
	TotalUsage         float64          `json:"totalUsage"`
	DailyUsage         float64          `json:"dailyUsage"`
	Records            []SoundingRecord `json:"-"`
}

// Tank returns the usage entry for id.
func (s *AnalyticsSummary) Tank(id TankID) (TankUsage, bool) {
	for _, usage := range s.Tanks {
		if usage.TankID == id {
			return usage, true
		}
	}
	return TankUsage{}, false
}
