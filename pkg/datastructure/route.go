package datastructure

import (
	"time"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/geo"
)

// maneuver kinds, mirrored from the directions provider vocabulary.
const (
	MANEUVER_DEPART       = "depart"
	MANEUVER_TURN_LEFT    = "turn-left"
	MANEUVER_TURN_RIGHT   = "turn-right"
	MANEUVER_SLIGHT_LEFT  = "turn-slight-left"
	MANEUVER_SLIGHT_RIGHT = "turn-slight-right"
	MANEUVER_SHARP_LEFT   = "turn-sharp-left"
	MANEUVER_SHARP_RIGHT  = "turn-sharp-right"
	MANEUVER_UTURN        = "uturn"
	MANEUVER_ROUNDABOUT   = "roundabout"
	MANEUVER_MERGE        = "merge"
	MANEUVER_STRAIGHT     = "straight"
	MANEUVER_ARRIVE       = "arrive"
)

// RouteStep. one instruction-bearing segment of a route.
type RouteStep struct {
	Instruction     string         `json:"instruction"`
	Start           geo.Coordinate `json:"start"`
	End             geo.Coordinate `json:"end"`
	DistanceMeters  float64        `json:"distance_meters"`
	DurationSeconds float64        `json:"duration_seconds"`
	Maneuver        string         `json:"maneuver"`
}

func NewRouteStep(instruction string, start, end geo.Coordinate,
	distanceMeters, durationSeconds float64, maneuver string) RouteStep {
	return RouteStep{
		Instruction:     instruction,
		Start:           start,
		End:             end,
		DistanceMeters:  distanceMeters,
		DurationSeconds: durationSeconds,
		Maneuver:        maneuver,
	}
}

// Route. one selectable alternative returned for an origin/destination/mode
// request.
type Route struct {
	ID                       string           `json:"id"`
	DistanceMeters           float64          `json:"distance_meters"`
	DurationSeconds          float64          `json:"duration_seconds"`
	DurationInTrafficSeconds float64          `json:"duration_in_traffic_seconds,omitempty"`
	Summary                  string           `json:"summary"`
	Geometry                 []geo.Coordinate `json:"geometry"`
	Steps                    []RouteStep      `json:"steps"`
	Warnings                 []string         `json:"warnings,omitempty"`
	Bounds                   geo.Bounds       `json:"bounds"`
}

func (r *Route) LastStep() (RouteStep, bool) {
	if len(r.Steps) == 0 {
		return RouteStep{}, false
	}
	return r.Steps[len(r.Steps)-1], true
}

// RouteBundle. what RouteCache stores for one (origin, destination, mode)
// key: the normalized routes plus the raw provider response they came from.
type RouteBundle struct {
	Routes      []Route        `json:"routes"`
	RawResponse []byte         `json:"raw_response,omitempty"`
	Mode        pkg.TravelMode `json:"mode"`
	StoredAt    time.Time      `json:"stored_at"`
}
