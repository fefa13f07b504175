package datastructure

import "github.com/cargoroute/guidance/pkg/geo"

const (
	HAZARD_SPEED_CAMERA = "speed_camera"
	HAZARD_RED_LIGHT    = "red_light_camera"
)

// HazardPoint. static reference data about a fixed warning location. A
// SpeedLimitKmh of 0 means the limit is unknown.
type HazardPoint struct {
	Coordinate    geo.Coordinate `json:"coordinate"`
	Kind          string         `json:"kind"`
	SpeedLimitKmh float64        `json:"speed_limit_kmh,omitempty"`
}

func NewHazardPoint(coord geo.Coordinate, kind string, speedLimitKmh float64) HazardPoint {
	return HazardPoint{
		Coordinate:    coord,
		Kind:          kind,
		SpeedLimitKmh: speedLimitKmh,
	}
}
