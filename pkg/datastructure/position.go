package datastructure

import (
	"time"

	"github.com/cargoroute/guidance/pkg/geo"
)

// RawFix. one platform location update as delivered by the device. Speed
// and heading are optional: the platform reports -1 when it cannot measure
// them.
type RawFix struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	SpeedKmh  float64   `json:"speed_kmh"`
	Heading   float64   `json:"heading"`
	Timestamp time.Time `json:"timestamp"`
}

func (f RawFix) HasSpeed() bool {
	return f.SpeedKmh >= 0
}

func (f RawFix) HasHeading() bool {
	return f.Heading >= 0
}

func (f RawFix) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(f.Lat, f.Lon)
}

// PositionSample. a cleaned position republished by the tracker once per
// raw update. SpeedKmh of 0 means "unknown" when the platform does not
// report speed, not "stopped".
type PositionSample struct {
	Coordinate     geo.Coordinate `json:"coordinate"`
	SpeedKmh       float64        `json:"speed_kmh"`
	HeadingDegrees float64        `json:"heading_degrees"`
	Timestamp      time.Time      `json:"timestamp"`
}

func NewPositionSample(coord geo.Coordinate, speedKmh, heading float64,
	ts time.Time) PositionSample {
	return PositionSample{
		Coordinate:     coord,
		SpeedKmh:       speedKmh,
		HeadingDegrees: heading,
		Timestamp:      ts,
	}
}
