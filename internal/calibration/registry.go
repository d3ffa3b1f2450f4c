// Package calibration holds the vessel's sounding tables and converts soundings
// into fresh water volumes.
package calibration

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

//go:embed tables.yaml
var embeddedTables []byte

type tableFile struct {
	Tanks []tankEntry `yaml:"tanks"`
}

type tankEntry struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Points [][]float64 `yaml:"points"`
}

// Registry is the immutable set of calibration tables, one per tank.
type Registry struct {
	tables map[models.TankID]models.CalibrationTable
	infos  map[models.TankID]models.TankInfo
}

// Load parses the tables compiled into the binary.
func Load() (*Registry, error) {
	return Parse(embeddedTables)
}

// MustLoad is like Load but panics when the embedded tables are invalid.
func MustLoad() *Registry {
	reg, err := Load()
	if err != nil {
		panic(err)
	}
	return reg
}

// Parse builds a registry from YAML table data. Every tank of models.TankOrder
// must be present exactly once.
func Parse(data []byte) (*Registry, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode calibration tables: %w", err)
	}

	known := make(map[models.TankID]bool, len(models.TankOrder))
	for _, id := range models.TankOrder {
		known[id] = true
	}

	reg := &Registry{
		tables: make(map[models.TankID]models.CalibrationTable, len(file.Tanks)),
		infos:  make(map[models.TankID]models.TankInfo, len(file.Tanks)),
	}

	for _, entry := range file.Tanks {
		id := models.TankID(entry.ID)
		if !known[id] {
			return nil, &UnknownTankError{TankID: id}
		}
		if _, dup := reg.tables[id]; dup {
			return nil, fmt.Errorf("duplicate calibration table for %s", id)
		}

		table, err := buildTable(entry.Points)
		if err != nil {
			return nil, fmt.Errorf("calibration table %s: %w", id, err)
		}

		last := table[len(table)-1]
		reg.tables[id] = table
		reg.infos[id] = models.TankInfo{
			ID:              id,
			Name:            entry.Name,
			MaxSoundingCm:   last.SoundingCm,
			MaxVolumeTonnes: last.VolumeTonnes,
		}
	}

	for _, id := range models.TankOrder {
		if _, ok := reg.tables[id]; !ok {
			return nil, fmt.Errorf("missing calibration table for %s", id)
		}
	}

	return reg, nil
}

func buildTable(points [][]float64) (models.CalibrationTable, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTable
	}

	table := make(models.CalibrationTable, 0, len(points))
	for i, p := range points {
		if len(p) != 2 {
			return nil, fmt.Errorf("row %d: expected [sounding, volume], got %d values", i, len(p))
		}
		point := models.CalibrationPoint{SoundingCm: p[0], VolumeTonnes: p[1]}
		if point.SoundingCm < 0 || point.VolumeTonnes < 0 {
			return nil, fmt.Errorf("row %d: negative value", i)
		}
		if i > 0 {
			prev := table[i-1]
			if point.SoundingCm <= prev.SoundingCm {
				return nil, fmt.Errorf("row %d: soundings must be strictly increasing", i)
			}
			if point.VolumeTonnes < prev.VolumeTonnes {
				return nil, fmt.Errorf("row %d: volumes must not decrease", i)
			}
		}
		table = append(table, point)
	}
	return table, nil
}

// Table returns the calibration table of a tank.
func (r *Registry) Table(id models.TankID) (models.CalibrationTable, error) {
	table, ok := r.tables[id]
	if !ok {
		return nil, &UnknownTankError{TankID: id}
	}
	out := make(models.CalibrationTable, len(table))
	copy(out, table)
	return out, nil
}

// Info returns the descriptive data and limits of a tank.
func (r *Registry) Info(id models.TankID) (models.TankInfo, error) {
	info, ok := r.infos[id]
	if !ok {
		return models.TankInfo{}, &UnknownTankError{TankID: id}
	}
	return info, nil
}

// Tanks lists every tank in display order.
func (r *Registry) Tanks() []models.TankInfo {
	out := make([]models.TankInfo, 0, len(models.TankOrder))
	for _, id := range models.TankOrder {
		out = append(out, r.infos[id])
	}
	return out
}

// Volume looks up the tank table and interpolates the sounding.
func (r *Registry) Volume(id models.TankID, soundingCm float64) (float64, error) {
	table, ok := r.tables[id]
	if !ok {
		return 0, &UnknownTankError{TankID: id}
	}
	volume, err := Interpolate(table, soundingCm)
	if err != nil {
		var invalid *InvalidSoundingError
		if errors.As(err, &invalid) {
			invalid.TankID = id
		}
		return 0, err
	}
	return volume, nil
}
