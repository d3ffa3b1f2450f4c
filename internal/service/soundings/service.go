// Package soundings turns operator input into tank volumes and saved records.
package soundings

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/calibration"
	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

// InputDateLayout is the layout of the optional date submitted with a sounding.
const InputDateLayout = "2006-01-02"

var (
	// ErrNoReadings is returned when no submitted tank has a valid sounding.
	ErrNoReadings = errors.New("no valid tank readings to save")
	// ErrInvalidDate is returned for a malformed or future sounding date.
	ErrInvalidDate = errors.New("invalid sounding date")
)

// Tables resolves tank limits and volumes.
type Tables interface {
	Info(id models.TankID) (models.TankInfo, error)
	Volume(id models.TankID, soundingCm float64) (float64, error)
}

// Store persists sounding records.
type Store interface {
	Append(ctx context.Context, record models.SoundingRecord) (models.SoundingRecord, error)
}

// Calculation is the outcome of converting one set of soundings.
type Calculation struct {
	Results     map[models.TankID]models.TankReading
	Invalid     map[models.TankID]*calibration.InvalidSoundingError
	TotalVolume float64

	entered map[models.TankID]models.RawSounding
}

// Errors renders the per-tank validation failures.
func (c Calculation) Errors() map[models.TankID]string {
	out := make(map[models.TankID]string, len(c.Invalid))
	for id, err := range c.Invalid {
		out[id] = err.Reason
	}
	return out
}

// Service computes volumes and records soundings.
type Service struct {
	tables   Tables
	store    Store
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a sounding service. Dates and times are shown in loc.
func NewService(tables Tables, store Store, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		tables:   tables,
		store:    store,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Calculate converts the entered soundings. Blank entries are tanks that were
// not measured. An unknown tank rejects the whole input; a bad value for a known
// tank is reported in Calculation.Invalid while the other tanks are computed.
func (s *Service) Calculate(raw map[string]string) (Calculation, error) {
	calc := Calculation{
		Results: make(map[models.TankID]models.TankReading),
		Invalid: make(map[models.TankID]*calibration.InvalidSoundingError),
		entered: make(map[models.TankID]models.RawSounding),
	}

	for key := range raw {
		if _, err := s.tables.Info(models.TankID(key)); err != nil {
			return Calculation{}, err
		}
	}

	for _, id := range models.TankOrder {
		text, ok := raw[string(id)]
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}

		info, err := s.tables.Info(id)
		if err != nil {
			return Calculation{}, err
		}

		sounding, invalid := parseSounding(id, text, info.MaxSoundingCm)
		if invalid != nil {
			calc.Invalid[id] = invalid
			continue
		}

		volume, err := s.tables.Volume(id, sounding)
		if err != nil {
			var soundingErr *calibration.InvalidSoundingError
			if errors.As(err, &soundingErr) {
				calc.Invalid[id] = soundingErr
				continue
			}
			return Calculation{}, err
		}

		calc.Results[id] = models.TankReading{
			SoundingCm:   sounding,
			VolumeTonnes: volume,
			TankInfo:     models.TankInfo{Name: info.Name, MaxSoundingCm: info.MaxSoundingCm, MaxVolumeTonnes: info.MaxVolumeTonnes},
		}
		calc.entered[id] = models.RawSounding(text)
	}

	calc.TotalVolume = models.SumReadings(calc.Results)
	return calc, nil
}

// Save calculates the soundings and stores them as a new record. date is
// optional (YYYY-MM-DD); the record then carries that day at the current clock
// time.
func (s *Service) Save(ctx context.Context, raw map[string]string, date string) (models.SoundingRecord, Calculation, error) {
	calc, err := s.Calculate(raw)
	if err != nil {
		return models.SoundingRecord{}, Calculation{}, err
	}
	if len(calc.Results) == 0 {
		return models.SoundingRecord{}, calc, ErrNoReadings
	}

	at, err := s.recordTime(date)
	if err != nil {
		return models.SoundingRecord{}, calc, err
	}

	record := models.SoundingRecord{
		Timestamp:   at.UTC().Truncate(time.Millisecond),
		Date:        at.Format(models.DateLayout),
		Time:        at.Format(models.TimeLayout),
		Soundings:   calc.entered,
		Results:     calc.Results,
		TotalVolume: calc.TotalVolume,
	}

	saved, err := s.store.Append(ctx, record)
	if err != nil {
		return models.SoundingRecord{}, calc, err
	}

	if len(calc.Invalid) > 0 {
		s.logger.Warn("record saved with rejected tanks", zap.String("id", string(saved.ID)), zap.Int("rejected", len(calc.Invalid)))
	}
	return saved, calc, nil
}

func (s *Service) recordTime(date string) (time.Time, error) {
	now := s.now().In(s.location)
	date = strings.TrimSpace(date)
	if date == "" {
		return now, nil
	}

	day, err := time.ParseInLocation(InputDateLayout, date, s.location)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	if day.After(today) {
		return time.Time{}, ErrInvalidDate
	}

	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), s.location), nil
}

func parseSounding(id models.TankID, text string, maxCm float64) (float64, *calibration.InvalidSoundingError) {
	trimmed := strings.TrimSpace(text)
	value, err := strconv.ParseFloat(trimmed, 64)
	switch {
	case err != nil:
		return 0, &calibration.InvalidSoundingError{TankID: id, Input: text, Reason: "not a number"}
	case math.IsNaN(value) || math.IsInf(value, 0):
		return 0, &calibration.InvalidSoundingError{TankID: id, Input: text, Reason: "not a finite number"}
	case value < 0:
		return 0, &calibration.InvalidSoundingError{TankID: id, Input: text, Reason: "must not be negative"}
	case value > maxCm:
		return 0, &calibration.InvalidSoundingError{TankID: id, Input: text, Reason: "exceeds maximum sounding " + strconv.FormatFloat(maxCm, 'f', -1, 64) + " cm"}
	}
	return value, nil
}
