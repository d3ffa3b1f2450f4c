package calibration

import (
	"math"
	"sort"
	"strconv"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

// Interpolate converts a sounding into a volume using linear interpolation between
// the two surrounding table rows. Soundings outside the table are clamped to the
// first or last row; the curve is never extrapolated.
func Interpolate(table models.CalibrationTable, soundingCm float64) (float64, error) {
	if math.IsNaN(soundingCm) || math.IsInf(soundingCm, 0) {
		return 0, &InvalidSoundingError{Input: formatSounding(soundingCm), Reason: "must be a finite number"}
	}
	if soundingCm < 0 {
		return 0, &InvalidSoundingError{Input: formatSounding(soundingCm), Reason: "must not be negative"}
	}
	if len(table) == 0 {
		return 0, ErrEmptyTable
	}

	first := table[0]
	if soundingCm <= first.SoundingCm {
		return first.VolumeTonnes, nil
	}
	last := table[len(table)-1]
	if soundingCm >= last.SoundingCm {
		return last.VolumeTonnes, nil
	}

	i := sort.Search(len(table), func(i int) bool { return table[i].SoundingCm >= soundingCm })
	upper := table[i]
	if upper.SoundingCm == soundingCm {
		return upper.VolumeTonnes, nil
	}

	lower := table[i-1]
	ratio := (soundingCm - lower.SoundingCm) / (upper.SoundingCm - lower.SoundingCm)
	return lower.VolumeTonnes + (upper.VolumeTonnes-lower.VolumeTonnes)*ratio, nil
}

func formatSounding(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
