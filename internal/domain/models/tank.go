package models

// TankID identifies one of the vessel's fresh water tanks.
type TankID string

const (
	Tank1Port      TankID = "TANK_1_PORT"
	Tank1Starboard TankID = "TANK_1_STARBOARD"
	Tank2Port      TankID = "TANK_2_PORT"
	Tank2Starboard TankID = "TANK_2_STARBOARD"
	Tank3Port      TankID = "TANK_3_PORT"
	Tank3Center    TankID = "TANK_3_CENTER"
	Tank3Starboard TankID = "TANK_3_STARBOARD"
)

// TankOrder is the fixed display and export order of the tanks.
var TankOrder = []TankID{
	Tank1Port,
	Tank1Starboard,
	Tank2Port,
	Tank2Starboard,
	Tank3Port,
	Tank3Center,
	Tank3Starboard,
}

// TankInfo describes a tank and its physical limits.
type TankInfo struct {
	ID              TankID  `json:"id,omitempty"`
	Name            string  `json:"name"`
	MaxSoundingCm   float64 `json:"maxSounding"`
	MaxVolumeTonnes float64 `json:"maxVolume"`
}

// CalibrationPoint is a single row of a sounding table.
type CalibrationPoint struct {
	SoundingCm   float64 `json:"sounding"`
	VolumeTonnes float64 `json:"volume"`
}

// CalibrationTable maps soundings to volumes, ordered by strictly increasing sounding.
type CalibrationTable []CalibrationPoint
