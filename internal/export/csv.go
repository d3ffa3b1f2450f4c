// Package export renders sounding records for operators: CSV and XLSX files,
// saved copies in an export directory and a published Google Sheet.
package export

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

// DefaultFileName is the suggested name of a CSV export.
const DefaultFileName = "maria_leader.csv"

// MissingReading is rendered for tanks without a reading.
const MissingReading = "-"

// Header lists the export columns in their fixed order.
var Header = []string{
	"Date",
	"Time",
	"Tank 1 Port (cm)",
	"Tank 1 Starboard (cm)",
	"Tank 2 Port (cm)",
	"Tank 2 Starboard (cm)",
	"Tank 3 Port (cm)",
	"Tank 3 Center (cm)",
	"Tank 3 Starboard (cm)",
	"Total Volume (tonnes)",
}

// Rows formats records as text cells, one row per record, without the header.
func Rows(records []models.SoundingRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, 0, len(Header))
		row = append(row, record.Date, record.Time)
		for _, id := range models.TankOrder {
			reading, ok := record.Results[id]
			if !ok {
				row = append(row, MissingReading)
				continue
			}
			row = append(row, Fixed(reading.SoundingCm, 1))
		}
		row = append(row, Fixed(record.TotalVolume, 3))
		rows = append(rows, row)
	}
	return rows
}

// CSV joins the header and record rows with commas and newlines. Fields are
// never quoted; every column is a date, a time or a number.
func CSV(records []models.SoundingRecord) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(Header, ","))
	for _, row := range Rows(records) {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}

// Fixed formats v with the given number of decimals, rounding halves away from zero.
func Fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
