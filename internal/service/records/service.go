package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/tanksounding/internal/calibration"
	"github.com/mamadbah2/tanksounding/internal/domain/models"
	"github.com/mamadbah2/tanksounding/internal/export"
)

// ErrPersist wraps failures to write the record list to the primary backend.
var ErrPersist = errors.New("failed to persist sounding records")

// ErrDuplicateID indicates an appended record reuses an existing id.
var ErrDuplicateID = errors.New("record id already exists")

// ErrInvalidRecord indicates a restored record whose contents are inconsistent.
var ErrInvalidRecord = errors.New("invalid sounding record")

// totalTolerance absorbs float summation noise when checking restored totals.
const totalTolerance = 0.0005

// Backend stores the full record list as one payload.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Option customises a Service.
type Option func(*Service)

// WithCache adds a secondary backend that is refreshed from the primary on load
// and used only when the primary has nothing to offer.
func WithCache(cache Backend) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithClock overrides the time source used for id assignment.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service owns the persisted list of sounding records. Every operation loads the
// list, and mutations rewrite it in full while holding mu, so interleaved
// appends and deletes never overwrite each other.
type Service struct {
	primary Backend
	cache   Backend
	logger  *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	lastID int64
}

// NewService wires a record store over the primary backend.
func NewService(primary Backend, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		primary: primary,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append stores a new record, assigning an id when it has none.
func (s *Service) Append(ctx context.Context, record models.SoundingRecord) (models.SoundingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)

	if record.ID == "" {
		record.ID = s.nextID(records)
	} else {
		for _, existing := range records {
			if existing.ID == record.ID {
				return models.SoundingRecord{}, fmt.Errorf("%w: %s", ErrDuplicateID, record.ID)
			}
		}
	}

	records = append(records, record)
	if err := s.persist(ctx, records); err != nil {
		return models.SoundingRecord{}, err
	}

	s.logger.Info("sounding record saved",
		zap.String("id", string(record.ID)),
		zap.String("date", record.Date),
		zap.Int("tanks", len(record.Results)),
		zap.Float64("total_volume", record.TotalVolume))

	return record, nil
}

// ListAll returns every record in insertion order, or reversed for NewestFirst.
func (s *Service) ListAll(ctx context.Context, order models.SortOrder) []models.SoundingRecord {
	s.mu.Lock()
	records := s.load(ctx)
	s.mu.Unlock()

	if order == models.NewestFirst {
		reverse(records)
	}
	return records
}

// ListByDate returns the records whose display date equals date.
func (s *Service) ListByDate(ctx context.Context, date string, order models.SortOrder) []models.SoundingRecord {
	all := s.ListAll(ctx, order)

	filtered := make([]models.SoundingRecord, 0, len(all))
	for _, record := range all {
		if record.Date == date {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// Delete removes the record with id. It reports false without writing anything
// when no such record exists.
func (s *Service) Delete(ctx context.Context, id models.RecordID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)

	kept := make([]models.SoundingRecord, 0, len(records))
	for _, record := range records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}

	if err := s.persist(ctx, kept); err != nil {
		return false, err
	}

	s.logger.Info("sounding record deleted", zap.String("id", string(id)))
	return true, nil
}

// ReplaceAll overwrites the stored list with records. Every record needs a
// unique id, tank keys from the calibration set and a total matching its readings.
func (s *Service) ReplaceAll(ctx context.Context, records []models.SoundingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[models.RecordID]bool, len(records))
	for _, record := range records {
		if record.ID == "" {
			return fmt.Errorf("%w: every record needs an id", ErrInvalidRecord)
		}
		if seen[record.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, record.ID)
		}
		seen[record.ID] = true

		if err := validateRecord(record); err != nil {
			return fmt.Errorf("record %s: %w", record.ID, err)
		}
	}

	return s.persist(ctx, records)
}

// UniqueDates lists the distinct display dates, newest first.
func (s *Service) UniqueDates(ctx context.Context) []string {
	records := s.ListAll(ctx, models.OldestFirst)

	seen := make(map[string]bool)
	dates := make([]string, 0)
	for _, record := range records {
		if !seen[record.Date] {
			seen[record.Date] = true
			dates = append(dates, record.Date)
		}
	}

	sort.SliceStable(dates, func(i, j int) bool {
		di, errI := time.Parse(models.DateLayout, dates[i])
		dj, errJ := time.Parse(models.DateLayout, dates[j])
		switch {
		case errI == nil && errJ == nil:
			return di.After(dj)
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return dates[i] > dates[j]
		}
	})
	return dates
}

// ToCSV renders every record, oldest first, in the export format.
func (s *Service) ToCSV(ctx context.Context) string {
	return export.CSV(s.ListAll(ctx, models.OldestFirst))
}

// load reads the record list. A readable primary backend is authoritative, even
// when it holds no records, and the cache is refreshed from it. The cache is
// consulted only when the primary cannot be read or holds corrupted data, which
// otherwise degrades to an empty list. Callers must hold mu.
func (s *Service) load(ctx context.Context) []models.SoundingRecord {
	primaryRecords, primaryRaw, ok := s.readFrom(ctx, s.primary, "primary")
	if ok {
		if primaryRecords == nil {
			primaryRecords = []models.SoundingRecord{}
		}
		s.refreshCache(ctx, primaryRaw, primaryRecords)
		return primaryRecords
	}

	if s.cache != nil {
		cached, _, cacheOK := s.readFrom(ctx, s.cache, "cache")
		if cacheOK && len(cached) > 0 {
			s.logger.Warn("primary storage unavailable, serving cached copy", zap.Int("records", len(cached)))
			return cached
		}
	}

	return []models.SoundingRecord{}
}

func (s *Service) readFrom(ctx context.Context, backend Backend, source string) ([]models.SoundingRecord, []byte, bool) {
	raw, err := backend.Read(ctx)
	if err != nil {
		s.logger.Error("failed to read sounding records", zap.String("source", source), zap.Error(err))
		return nil, nil, false
	}

	records, err := decode(raw)
	if err != nil {
		s.logger.Error("sounding records are corrupted and will be ignored; the next save overwrites them",
			zap.String("source", source),
			zap.Int("bytes", len(raw)),
			zap.Error(err))
		return nil, nil, false
	}
	return records, raw, true
}

func (s *Service) refreshCache(ctx context.Context, raw []byte, records []models.SoundingRecord) {
	if s.cache == nil {
		return
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		encoded, err := encode(records)
		if err != nil {
			return
		}
		raw = encoded
	}

	current, err := s.cache.Read(ctx)
	if err == nil && bytes.Equal(current, raw) {
		return
	}
	if err := s.cache.Write(ctx, raw); err != nil {
		s.logger.Warn("failed to refresh records cache", zap.Error(err))
	}
}

func (s *Service) persist(ctx context.Context, records []models.SoundingRecord) error {
	data, err := encode(records)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if err := s.primary.Write(ctx, data); err != nil {
		s.logger.Error("failed to write sounding records", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if s.cache != nil {
		if err := s.cache.Write(ctx, data); err != nil {
			s.logger.Warn("failed to update records cache", zap.Error(err))
		}
	}
	return nil
}

// nextID returns a millisecond timestamp id that is strictly greater than any
// id issued before or present in records.
func (s *Service) nextID(records []models.SoundingRecord) models.RecordID {
	highest := s.lastID
	for _, record := range records {
		if n, err := strconv.ParseInt(string(record.ID), 10, 64); err == nil && n > highest {
			highest = n
		}
	}

	candidate := s.now().UnixMilli()
	if candidate <= highest {
		candidate = highest + 1
	}
	s.lastID = candidate
	return models.RecordID(strconv.FormatInt(candidate, 10))
}

func validateRecord(record models.SoundingRecord) error {
	for id := range record.Results {
		if !knownTanks[id] {
			return &calibration.UnknownTankError{TankID: id}
		}
	}
	for id := range record.Soundings {
		if !knownTanks[id] {
			return &calibration.UnknownTankError{TankID: id}
		}
	}

	if sum := record.SumVolumes(); math.Abs(sum-record.TotalVolume) > totalTolerance {
		return fmt.Errorf("%w: total volume %g does not match readings %g", ErrInvalidRecord, record.TotalVolume, sum)
	}
	return nil
}

var knownTanks = func() map[models.TankID]bool {
	known := make(map[models.TankID]bool, len(models.TankOrder))
	for _, id := range models.TankOrder {
		known[id] = true
	}
	return known
}()

func decode(raw []byte) ([]models.SoundingRecord, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var records []models.SoundingRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func encode(records []models.SoundingRecord) ([]byte, error) {
	if records == nil {
		records = []models.SoundingRecord{}
	}
	return json.MarshalIndent(records, "", "  ")
}

func reverse(records []models.SoundingRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}
