package soundings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tanksounding/internal/calibration"
	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

type recordingStore struct {
	saved []models.SoundingRecord
	err   error
}

func (s *recordingStore) Append(_ context.Context, record models.SoundingRecord) (models.SoundingRecord, error) {
	if s.err != nil {
		return models.SoundingRecord{}, s.err
	}
	record.ID = "1"
	s.saved = append(s.saved, record)
	return record, nil
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Colombo")
	require.NoError(t, err)

	svc := NewService(calibration.MustLoad(), store, loc, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 4, 30, 15, 123456789, time.UTC) }
	return svc
}

func TestCalculate(t *testing.T) {
	svc := newTestService(t, &recordingStore{})

	calc, err := svc.Calculate(map[string]string{
		"TANK_2_PORT":      "50",
		"TANK_2_STARBOARD": " ",
		"TANK_3_PORT":      "abc",
		"TANK_3_CENTER":    "-4",
		"TANK_3_STARBOARD": "181",
		"TANK_1_PORT":      "438",
	})
	require.NoError(t, err)

	require.Len(t, calc.Results, 2)
	assert.InDelta(t, 2.6, calc.Results[models.Tank2Port].VolumeTonnes, 1e-9)
	assert.Equal(t, "Tank No. 2 - Port", calc.Results[models.Tank2Port].TankInfo.Name)
	assert.InDelta(t, 24.615, calc.Results[models.Tank1Port].VolumeTonnes, 1e-9)
	assert.InDelta(t, 2.6+24.615, calc.TotalVolume, 1e-9)

	require.Len(t, calc.Invalid, 3)
	assert.Equal(t, "not a number", calc.Invalid[models.Tank3Port].Reason)
	assert.Equal(t, "must not be negative", calc.Invalid[models.Tank3Center].Reason)
	assert.Contains(t, calc.Invalid[models.Tank3Starboard].Reason, "exceeds maximum")
	assert.Equal(t, models.Tank3Starboard, calc.Invalid[models.Tank3Starboard].TankID)
	assert.Len(t, calc.Errors(), 3)
}

func TestCalculate_NonFinite(t *testing.T) {
	svc := newTestService(t, &recordingStore{})

	calc, err := svc.Calculate(map[string]string{"TANK_2_PORT": "NaN", "TANK_2_STARBOARD": "+Inf"})
	require.NoError(t, err)
	assert.Empty(t, calc.Results)
	assert.Len(t, calc.Invalid, 2)
}

func TestCalculate_UnknownTankRejectsInput(t *testing.T) {
	svc := newTestService(t, &recordingStore{})

	_, err := svc.Calculate(map[string]string{"TANK_2_PORT": "50", "TANK_9": "10"})

	var unknown *calibration.UnknownTankError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, models.TankID("TANK_9"), unknown.TankID)
}

func TestSave(t *testing.T) {
	store := &recordingStore{}
	svc := newTestService(t, store)

	record, calc, err := svc.Save(context.Background(), map[string]string{"TANK_2_PORT": "50", "TANK_3_PORT": "x"}, "")
	require.NoError(t, err)
	require.Len(t, store.saved, 1)

	assert.Equal(t, models.RecordID("1"), record.ID)
	assert.Equal(t, "10/03/2024", record.Date)
	assert.Equal(t, "10:00", record.Time)
	assert.Equal(t, time.Date(2024, 3, 10, 4, 30, 15, 123000000, time.UTC), record.Timestamp)
	assert.Equal(t, map[models.TankID]models.RawSounding{models.Tank2Port: "50"}, record.Soundings)
	assert.InDelta(t, 2.6, record.TotalVolume, 1e-9)
	assert.Len(t, calc.Invalid, 1)
}

func TestSave_WithPastDate(t *testing.T) {
	store := &recordingStore{}
	svc := newTestService(t, store)

	record, _, err := svc.Save(context.Background(), map[string]string{"TANK_2_PORT": "100"}, "2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, "01/03/2024", record.Date)
	assert.Equal(t, "10:00", record.Time)
	assert.Equal(t, time.Date(2024, 3, 1, 4, 30, 15, 123000000, time.UTC), record.Timestamp)
}

func TestSave_RejectsBadDates(t *testing.T) {
	svc := newTestService(t, &recordingStore{})

	for _, date := range []string{"2024-03-11", "10/03/2024", "tomorrow"} {
		_, _, err := svc.Save(context.Background(), map[string]string{"TANK_2_PORT": "100"}, date)
		assert.ErrorIs(t, err, ErrInvalidDate, date)
	}
}

func TestSave_NoValidReadings(t *testing.T) {
	store := &recordingStore{}
	svc := newTestService(t, store)

	_, calc, err := svc.Save(context.Background(), map[string]string{"TANK_2_PORT": "-1", "TANK_3_PORT": ""}, "")
	assert.ErrorIs(t, err, ErrNoReadings)
	assert.Len(t, calc.Invalid, 1)
	assert.Empty(t, store.saved)
}

func TestSave_StoreFailure(t *testing.T) {
	storeErr := errors.New("disk full")
	svc := newTestService(t, &recordingStore{err: storeErr})

	_, _, err := svc.Save(context.Background(), map[string]string{"TANK_2_PORT": "100"}, "")
	assert.ErrorIs(t, err, storeErr)
}
