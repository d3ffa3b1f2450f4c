package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

const xlsxSheet = "Soundings"

// WriteXLSX writes records as a workbook with the CSV columns. Soundings and
// totals are numeric cells; missing readings hold MissingReading.
func WriteXLSX(w io.Writer, records []models.SoundingRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, header := range Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(xlsxSheet, cell, header); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}

	soundingFmt := "0.0"
	soundingStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &soundingFmt})
	if err != nil {
		return fmt.Errorf("create sounding style: %w", err)
	}
	volumeFmt := "0.000"
	volumeStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &volumeFmt})
	if err != nil {
		return fmt.Errorf("create volume style: %w", err)
	}

	for rowIdx, record := range records {
		values := make([]interface{}, 0, len(Header))
		values = append(values, record.Date, record.Time)
		for _, id := range models.TankOrder {
			if reading, ok := record.Results[id]; ok {
				values = append(values, reading.SoundingCm)
			} else {
				values = append(values, MissingReading)
			}
		}
		values = append(values, record.TotalVolume)

		rowNum := rowIdx + 2
		start, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(xlsxSheet, start, &values); err != nil {
			return fmt.Errorf("write row %d: %w", rowNum, err)
		}

		firstTank, _ := excelize.CoordinatesToCellName(3, rowNum)
		lastTank, _ := excelize.CoordinatesToCellName(2+len(models.TankOrder), rowNum)
		if err := f.SetCellStyle(xlsxSheet, firstTank, lastTank, soundingStyle); err != nil {
			return err
		}
		total, _ := excelize.CoordinatesToCellName(len(Header), rowNum)
		if err := f.SetCellStyle(xlsxSheet, total, total, volumeStyle); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Header))
	if err := f.SetColWidth(xlsxSheet, "A", lastCol, 20); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
