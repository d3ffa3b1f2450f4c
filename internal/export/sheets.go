package export

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
	"github.com/mamadbah2/tanksounding/internal/repository/sheets"
)

// SheetPublisher mirrors the record export into a spreadsheet range.
type SheetPublisher struct {
	repo       sheets.Repository
	sheetRange string
	logger     *zap.Logger
}

// NewSheetPublisher builds a publisher writing from sheetRange (e.g. "Soundings!A1").
func NewSheetPublisher(repo sheets.Repository, sheetRange string, logger *zap.Logger) *SheetPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetPublisher{repo: repo, sheetRange: sheetRange, logger: logger}
}

// Publish replaces the sheet contents with the header and record rows. It
// skips the write when the sheet already holds exactly those rows.
func (p *SheetPublisher) Publish(ctx context.Context, records []models.SoundingRecord) (bool, error) {
	rows := append([][]string{Header}, Rows(records)...)
	sheetName := p.sheetName()

	current, err := p.repo.ReadRange(ctx, sheetName)
	if err != nil {
		return false, fmt.Errorf("read published sheet: %w", err)
	}
	if sameRows(current, rows) {
		p.logger.Debug("sheet already up to date", zap.Int("rows", len(rows)))
		return false, nil
	}

	if err := p.repo.ClearRange(ctx, sheetName); err != nil {
		return false, err
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		values = append(values, cells)
	}
	if err := p.repo.WriteRows(ctx, p.sheetRange, values); err != nil {
		return false, err
	}

	p.logger.Info("records published to sheet", zap.Int("records", len(records)))
	return true, nil
}

func (p *SheetPublisher) sheetName() string {
	name, _, _ := strings.Cut(p.sheetRange, "!")
	return name
}

func sameRows(current [][]interface{}, rows [][]string) bool {
	if len(current) != len(rows) {
		return false
	}
	for i, row := range rows {
		if len(current[i]) != len(row) {
			return false
		}
		for j, cell := range row {
			if fmt.Sprint(current[i][j]) != cell {
				return false
			}
		}
	}
	return true
}
