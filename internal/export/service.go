package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

// ErrNoRecords is returned when there is nothing to export.
var ErrNoRecords = errors.New("no records to export")

// RecordLister supplies the records to export.
type RecordLister interface {
	ListAll(ctx context.Context, order models.SortOrder) []models.SoundingRecord
}

// Publisher pushes the export somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, records []models.SoundingRecord) (bool, error)
}

// Service produces exports of the record store.
type Service struct {
	records   RecordLister
	locator   SaveLocator
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService builds an export service. locator and publisher may be nil.
func NewService(records RecordLister, locator SaveLocator, publisher Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		records:   records,
		locator:   locator,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CSV renders every record oldest first.
func (s *Service) CSV(ctx context.Context) (string, error) {
	records := s.records.ListAll(ctx, models.OldestFirst)
	if len(records) == 0 {
		return "", ErrNoRecords
	}
	return CSV(records), nil
}

// XLSX renders every record oldest first as a workbook.
func (s *Service) XLSX(ctx context.Context) ([]byte, error) {
	records := s.records.ListAll(ctx, models.OldestFirst)
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveCSV writes the CSV export to the location chosen by the locator and
// returns its path.
func (s *Service) SaveCSV(ctx context.Context, suggestedName string) (string, error) {
	content, err := s.CSV(ctx)
	if err != nil {
		return "", err
	}
	if s.locator == nil {
		return "", ErrCancelled
	}
	if strings.TrimSpace(suggestedName) == "" {
		suggestedName = DefaultFileName
	}

	path, err := s.locator.PromptSaveLocation(suggestedName)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write export %s: %w", path, err)
	}

	s.logger.Info("records exported", zap.String("path", path))
	return path, nil
}

// Snapshot saves a dated CSV copy and publishes the records when a publisher
// is configured. An empty store produces no snapshot.
func (s *Service) Snapshot(ctx context.Context) error {
	records := s.records.ListAll(ctx, models.OldestFirst)
	if len(records) == 0 {
		s.logger.Info("snapshot skipped, no records")
		return nil
	}

	var errs []error

	if s.locator != nil {
		name := fmt.Sprintf("soundings_%s.csv", s.now().Format("20060102"))
		path, err := s.locator.PromptSaveLocation(name)
		switch {
		case errors.Is(err, ErrCancelled):
		case err != nil:
			errs = append(errs, err)
		default:
			if err := os.WriteFile(path, []byte(CSV(records)), 0o644); err != nil {
				errs = append(errs, fmt.Errorf("write snapshot %s: %w", filepath.Base(path), err))
			} else {
				s.logger.Info("snapshot saved", zap.String("path", path), zap.Int("records", len(records)))
			}
		}
	}

	if s.publisher != nil {
		if _, err := s.publisher.Publish(ctx, records); err != nil {
			errs = append(errs, fmt.Errorf("publish snapshot: %w", err))
		}
	}

	return errors.Join(errs...)
}
