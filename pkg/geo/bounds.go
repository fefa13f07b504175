package geo

import (
	"github.com/golang/geo/s2"
)

// Bounds. geographic bounding box of a route geometry.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

func NewBounds(minLat, minLon, maxLat, maxLon float64) Bounds {
	return Bounds{
		MinLat: minLat,
		MinLon: minLon,
		MaxLat: maxLat,
		MaxLon: maxLon,
	}
}

func (b Bounds) IsZero() bool {
	return b.MinLat == 0 && b.MinLon == 0 && b.MaxLat == 0 && b.MaxLon == 0
}

// BoundsOf returns the bounding rectangle of coords.
func BoundsOf(coords []Coordinate) Bounds {
	if len(coords) == 0 {
		return Bounds{}
	}

	rect := s2.EmptyRect()
	for _, c := range coords {
		rect = rect.AddPoint(s2.LatLngFromDegrees(c.GetLat(), c.GetLon()))
	}

	return NewBounds(
		rect.Lo().Lat.Degrees(), rect.Lo().Lng.Degrees(),
		rect.Hi().Lat.Degrees(), rect.Hi().Lng.Degrees(),
	)
}
