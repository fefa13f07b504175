package directions

import (
	"fmt"

	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/geo"
	"github.com/twpayne/go-polyline"
)

// Normalize converts a provider payload into the internal route model:
// polyline geometry decoded, bounds derived from the decoded geometry.
func Normalize(payload *providerResponse) []datastructure.Route {
	routes := make([]datastructure.Route, 0, len(payload.Routes))
	for i, pr := range payload.Routes {
		geometry := decodeGeometry(pr.Polyline)

		steps := make([]datastructure.RouteStep, 0, len(pr.Steps))
		for _, ps := range pr.Steps {
			steps = append(steps, datastructure.NewRouteStep(
				ps.Instruction,
				geo.NewCoordinate(ps.StartLocation.Lat, ps.StartLocation.Lng),
				geo.NewCoordinate(ps.EndLocation.Lat, ps.EndLocation.Lng),
				ps.DistanceMeters,
				ps.DurationSeconds,
				ps.Maneuver,
			))
		}

		routes = append(routes, datastructure.Route{
			ID:                       fmt.Sprintf("route-%d", i),
			DistanceMeters:           pr.DistanceMeters,
			DurationSeconds:          pr.DurationSeconds,
			DurationInTrafficSeconds: pr.DurationInTrafficSeconds,
			Summary:                  pr.Summary,
			Geometry:                 geometry,
			Steps:                    steps,
			Warnings:                 pr.Warnings,
			Bounds:                   geo.BoundsOf(geometry),
		})
	}
	return routes
}

func decodeGeometry(encoded string) []geo.Coordinate {
	if encoded == "" {
		return nil
	}
	pairs, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil
	}
	coords := make([]geo.Coordinate, len(pairs))
	for i, p := range pairs {
		coords[i] = geo.NewCoordinate(p[0], p[1])
	}
	return coords
}
