package calibration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

func TestLoad_AllTanksPresent(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	tanks := reg.Tanks()
	require.Len(t, tanks, len(models.TankOrder))
	for i, info := range tanks {
		assert.Equal(t, models.TankOrder[i], info.ID)
		assert.NotEmpty(t, info.Name)
	}
}

func TestLoad_MaxSoundings(t *testing.T) {
	reg := MustLoad()

	want := map[models.TankID]float64{
		models.Tank1Port:      438,
		models.Tank1Starboard: 436,
		models.Tank2Port:      170,
		models.Tank2Starboard: 170,
		models.Tank3Port:      180,
		models.Tank3Center:    298,
		models.Tank3Starboard: 180,
	}
	for id, maxCm := range want {
		info, err := reg.Info(id)
		require.NoError(t, err)
		assert.Equal(t, maxCm, info.MaxSoundingCm, id)
	}
}

func TestRegistry_BoundaryVolumes(t *testing.T) {
	reg := MustLoad()

	for _, info := range reg.Tanks() {
		table, err := reg.Table(info.ID)
		require.NoError(t, err)

		atMax, err := Interpolate(table, info.MaxSoundingCm)
		require.NoError(t, err)
		assert.Equal(t, info.MaxVolumeTonnes, atMax, info.ID)

		atZero, err := Interpolate(table, 0)
		require.NoError(t, err)
		assert.Equal(t, table[0].VolumeTonnes, atZero, info.ID)
	}
}

func TestRegistry_Tank2PortMidpoint(t *testing.T) {
	reg := MustLoad()

	got, err := reg.Volume(models.Tank2Port, 50)
	require.NoError(t, err)
	assert.InDelta(t, 2.6, got, 1e-9)
}

func TestRegistry_UnknownTank(t *testing.T) {
	reg := MustLoad()
	var unknown *UnknownTankError

	_, err := reg.Table("TANK_9_AFT")
	require.Error(t, err)
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, models.TankID("TANK_9_AFT"), unknown.TankID)

	_, err = reg.Info("TANK_9_AFT")
	assert.True(t, errors.As(err, &unknown))

	_, err = reg.Volume("TANK_9_AFT", 10)
	assert.True(t, errors.As(err, &unknown))
}

func TestRegistry_VolumeTagsInvalidSounding(t *testing.T) {
	reg := MustLoad()

	_, err := reg.Volume(models.Tank3Center, -4)
	var invalid *InvalidSoundingError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, models.Tank3Center, invalid.TankID)
}

func TestRegistry_TableIsCopy(t *testing.T) {
	reg := MustLoad()

	table, err := reg.Table(models.Tank1Port)
	require.NoError(t, err)
	table[0].VolumeTonnes = 99

	again, err := reg.Table(models.Tank1Port)
	require.NoError(t, err)
	assert.Equal(t, 0.0, again[0].VolumeTonnes)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown tank",
			yaml: "tanks:\n  - id: TANK_9_AFT\n    points:\n      - [0, 0]\n",
		},
		{
			name: "not increasing",
			yaml: "tanks:\n  - id: TANK_1_PORT\n    points:\n      - [0, 0]\n      - [10, 1]\n      - [10, 2]\n",
		},
		{
			name: "missing tanks",
			yaml: "tanks:\n  - id: TANK_1_PORT\n    points:\n      - [0, 0]\n      - [10, 1]\n",
		},
		{
			name: "malformed row",
			yaml: "tanks:\n  - id: TANK_1_PORT\n    points:\n      - [0]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
