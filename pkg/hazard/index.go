package hazard

import (
	"math"

	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Index. r-tree over the hazard reference data, queried once per position
// sample. Hazards with out-of-range coordinates are skipped at build time,
// malformed reference data must not break the session.
type Index struct {
	tr   *rtree.RTreeG[int]
	pts  []datastructure.HazardPoint
}

func NewIndex(hazards []datastructure.HazardPoint, log *zap.Logger) *Index {
	var tr rtree.RTreeG[int]
	idx := &Index{tr: &tr, pts: make([]datastructure.HazardPoint, 0, len(hazards))}

	for _, h := range hazards {
		if !h.Coordinate.Valid() {
			log.Warn("skipping hazard with out-of-range coordinate",
				zap.Float64("lat", h.Coordinate.GetLat()),
				zap.Float64("lon", h.Coordinate.GetLon()),
				zap.String("kind", h.Kind))
			continue
		}
		id := len(idx.pts)
		idx.pts = append(idx.pts, h)
		p := [2]float64{h.Coordinate.GetLon(), h.Coordinate.GetLat()}
		tr.Insert(p, p, id)
	}
	return idx
}

func (idx *Index) Len() int {
	return len(idx.pts)
}

func (idx *Index) Hazard(id int) datastructure.HazardPoint {
	return idx.pts[id]
}

// Nearest returns the id and distance of the closest hazard within radius
// meters of q, or ok=false when none is in range.
func (idx *Index) Nearest(q geo.Coordinate, radius float64) (int, float64, bool) {
	// corners sit on the diagonals, so stretch by sqrt(2) to keep the full
	// radius inside the box; the haversine check below does the exact filter
	diag := radius * math.Sqrt2
	lowerLat, lowerLon := geo.GetDestinationPoint(q.GetLat(), q.GetLon(), 225, diag)
	upperLat, upperLon := geo.GetDestinationPoint(q.GetLat(), q.GetLon(), 45, diag)

	bestID, bestDist, found := -1, radius, false
	idx.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, id int) bool {
			d := geo.DistanceMeters(q, idx.pts[id].Coordinate)
			if d <= bestDist {
				bestID, bestDist, found = id, d, true
			}
			return true
		})
	return bestID, bestDist, found
}
