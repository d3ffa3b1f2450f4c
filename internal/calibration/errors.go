package calibration

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/tanksounding/internal/domain/models"
)

// ErrEmptyTable indicates a calibration table without any rows.
var ErrEmptyTable = errors.New("calibration table is empty")

// UnknownTankError reports a tank identifier outside the fixed calibration set.
type UnknownTankError struct {
	TankID models.TankID
}

func (e *UnknownTankError) Error() string {
	return fmt.Sprintf("unknown tank %q", string(e.TankID))
}

// InvalidSoundingError reports a sounding that cannot be converted to a volume.
type InvalidSoundingError struct {
	TankID models.TankID
	Input  string
	Reason string
}

func (e *InvalidSoundingError) Error() string {
	if e.TankID == "" {
		return fmt.Sprintf("invalid sounding %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid sounding %q for %s: %s", e.Input, e.TankID, e.Reason)
}
