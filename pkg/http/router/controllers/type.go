package controllers

import (
	"context"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/cache"
	"github.com/cargoroute/guidance/pkg/datastructure"
)

type NavigationService interface {
	AcquireRoutes(ctx context.Context, origin, destination cache.Waypoint,
		mode pkg.TravelMode, alternatives bool) ([]datastructure.Route, error)
	SelectRoute(index int) error
	StartNavigation() error
	StopNavigation()
	AcknowledgeArrival()
	SetFollow(on bool)
	SessionState() string
}
