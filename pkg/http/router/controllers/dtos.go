package controllers

import (
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/geo"
)

type acquireRoutesRequest struct {
	OriginAddress      string  `json:"origin"`
	OriginLat          float64 `json:"origin_lat" validate:"omitempty,min=-90,max=90"`
	OriginLon          float64 `json:"origin_lon" validate:"omitempty,min=-180,max=180"`
	DestinationAddress string  `json:"destination"`
	DestinationLat     float64 `json:"destination_lat" validate:"omitempty,min=-90,max=90"`
	DestinationLon     float64 `json:"destination_lon" validate:"omitempty,min=-180,max=180"`
	Mode               string  `json:"mode"`
	Alternatives       bool    `json:"alternatives"`

	hasOriginCoord      bool
	hasDestinationCoord bool
}

type routeStepResponse struct {
	Instruction     string         `json:"instruction"`
	Start           geo.Coordinate `json:"start"`
	End             geo.Coordinate `json:"end"`
	DistanceMeters  float64        `json:"distance_meters"`
	DurationSeconds float64        `json:"duration_seconds"`
	Maneuver        string         `json:"maneuver"`
}

type routeResponse struct {
	ID                       string              `json:"id"`
	Summary                  string              `json:"summary"`
	DistanceMeters           float64             `json:"distance_meters"`
	DurationSeconds          float64             `json:"duration_seconds"`
	DurationInTrafficSeconds float64             `json:"duration_in_traffic_seconds,omitempty"`
	Geometry                 []geo.Coordinate    `json:"geometry"`
	Steps                    []routeStepResponse `json:"steps"`
	Warnings                 []string            `json:"warnings,omitempty"`
	Bounds                   geo.Bounds          `json:"bounds"`
}

func NewRoutesResponse(routes []datastructure.Route) []routeResponse {
	out := make([]routeResponse, len(routes))
	for i, r := range routes {
		steps := make([]routeStepResponse, len(r.Steps))
		for j, st := range r.Steps {
			steps[j] = routeStepResponse{
				Instruction:     st.Instruction,
				Start:           st.Start,
				End:             st.End,
				DistanceMeters:  st.DistanceMeters,
				DurationSeconds: st.DurationSeconds,
				Maneuver:        st.Maneuver,
			}
		}
		out[i] = routeResponse{
			ID:                       r.ID,
			Summary:                  r.Summary,
			DistanceMeters:           r.DistanceMeters,
			DurationSeconds:          r.DurationSeconds,
			DurationInTrafficSeconds: r.DurationInTrafficSeconds,
			Geometry:                 r.Geometry,
			Steps:                    steps,
			Warnings:                 r.Warnings,
			Bounds:                   r.Bounds,
		}
	}
	return out
}

type selectRouteRequest struct {
	Index int `json:"index" validate:"min=0"`
}

type followRequest struct {
	Follow bool `json:"follow"`
}

type sessionStateResponse struct {
	State string `json:"state"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
