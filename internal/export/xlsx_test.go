package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []models.SoundingRecord{fullRecord()}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "14/11/2023", rows[1][0])
	assert.Equal(t, "22:13", rows[1][1])
	assert.Equal(t, "50.0", rows[1][4])
	assert.Equal(t, "35.400", rows[1][9])

	raw, err := f.GetCellValue(xlsxSheet, "J2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "35.4", raw)
}

func TestWriteXLSX_MissingTank(t *testing.T) {
	record := models.SoundingRecord{
		Date:        "15/11/2023",
		Time:        "08:00",
		Results:     map[models.TankID]models.TankReading{models.Tank3Center: {SoundingCm: 100, VolumeTonnes: 6}},
		TotalVolume: 6,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []models.SoundingRecord{record}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	value, err := f.GetCellValue(xlsxSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, MissingReading, value)
}
