package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// RecordID uniquely identifies a sounding record. Legacy files store numeric
// ids, so digit-only ids are written back as JSON numbers.
type RecordID string

// MarshalJSON implements json.Marshaler.
func (id RecordID) MarshalJSON() ([]byte, error) {
	if isPlainInteger(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts both numeric and string ids.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode record id: %w", err)
		}
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode record id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

func isPlainInteger(s string) bool {
	if s == "" || len(s) > 18 {
		return false
	}
	if len(s) > 1 && s[0] == '0' {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RawSounding is the sounding text exactly as the operator entered it.
type RawSounding string

// UnmarshalJSON accepts a string, a number, or the legacy result object
// ({"sounding": 12.5, ...}) older files stored in place of the raw input.
func (r *RawSounding) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode sounding: %w", err)
		}
		*r = RawSounding(s)
	case '{':
		var legacy struct {
			Sounding json.Number `json:"sounding"`
		}
		if err := json.Unmarshal(data, &legacy); err != nil {
			return fmt.Errorf("decode legacy sounding: %w", err)
		}
		*r = RawSounding(legacy.Sounding.String())
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode sounding: %w", err)
		}
		*r = RawSounding(n.String())
	}
	return nil
}

// TankReading is the computed volume for one measured tank.
type TankReading struct {
	SoundingCm   float64  `json:"sounding"`
	VolumeTonnes float64  `json:"volume"`
	TankInfo     TankInfo `json:"tankInfo"`
}

// SoundingRecord is one saved set of tank soundings.
type SoundingRecord struct {
	ID          RecordID               `json:"id"`
	Timestamp   time.Time              `json:"timestamp"`
	Date        string                 `json:"date"`
	Time        string                 `json:"time"`
	Soundings   map[TankID]RawSounding `json:"soundings"`
	Results     map[TankID]TankReading `json:"results"`
	TotalVolume float64                `json:"totalVolume"`
}

// Volume returns the recorded volume of a tank, or 0 when the tank was not measured.
func (r SoundingRecord) Volume(id TankID) float64 {
	return r.Results[id].VolumeTonnes
}

// SumVolumes adds up every reading in a stable key order.
func (r SoundingRecord) SumVolumes() float64 {
	return SumReadings(r.Results)
}

// SumReadings adds reading volumes in sorted tank order so totals are reproducible.
func SumReadings(results map[TankID]TankReading) float64 {
	keys := make([]string, 0, len(results))
	for id := range results {
		keys = append(keys, string(id))
	}
	sort.Strings(keys)

	var total float64
	for _, k := range keys {
		total += results[TankID(k)].VolumeTonnes
	}
	return total
}

// Display layouts used for SoundingRecord.Date and SoundingRecord.Time.
const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"
)

// SortOrder selects how record listings are ordered.
type SortOrder int

const (
	OldestFirst SortOrder = iota
	NewestFirst
)
