package routing

import (
	"context"
	"errors"
	"time"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/cache"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/directions"
	"github.com/cargoroute/guidance/pkg/util"
	"go.uber.org/zap"
)

// Acquirer fetches route alternatives for an origin/destination/mode and
// keeps the route cache warm. The cache is a fallback, not a cache-first
// strategy: when the device is online a stale entry is never returned in
// place of fresh provider data.
type Acquirer struct {
	log             *zap.Logger
	provider        Provider
	routeCache      *cache.RouteCache
	preCacher       TilePreCacher
	connectivity    ConnectivityProbe
	tileURLTemplate string
	language        string
}

func NewAcquirer(log *zap.Logger, provider Provider, routeCache *cache.RouteCache,
	preCacher TilePreCacher, connectivity ConnectivityProbe,
	tileURLTemplate, language string) *Acquirer {
	return &Acquirer{
		log:             log,
		provider:        provider,
		routeCache:      routeCache,
		preCacher:       preCacher,
		connectivity:    connectivity,
		tileURLTemplate: tileURLTemplate,
		language:        language,
	}
}

// AcquireRoutes resolves route alternatives for the request.
//
// Policy: offline goes straight to the cache; online always asks the
// provider first, writes the fresh bundle through the cache, kicks off
// tile pre-caching for the first route's bounds, and only falls back to
// the cache when the provider fails or returns nothing.
func (a *Acquirer) AcquireRoutes(ctx context.Context, origin, destination cache.Waypoint,
	mode pkg.TravelMode, alternatives bool) ([]datastructure.Route, error) {
	if origin.IsZero() || destination.IsZero() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"origin and destination are required")
	}
	if !origin.IsAddress && !origin.Coordinate.Valid() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"origin coordinate out of range")
	}
	if !destination.IsAddress && !destination.Coordinate.Valid() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"destination coordinate out of range")
	}

	key := cache.Key(origin, destination, mode)

	if !a.connectivity.Online() {
		if bundle, ok := a.routeCache.Get(ctx, key); ok {
			a.log.Info("offline, serving cached routes", zap.String("key", key))
			return bundle.Routes, nil
		}
		return nil, util.WrapErrorf(nil, util.ErrProviderUnavailable,
			"device offline and no cached routes for %s -> %s", origin, destination)
	}

	routes, raw, err := a.provider.FetchRoutes(ctx, directions.Request{
		Origin:       origin.String(),
		Destination:  destination.String(),
		Mode:         mode,
		Alternatives: alternatives,
		Language:     a.language,
	})
	if err != nil {
		// provider failure while online: cache is the last resort
		if bundle, ok := a.routeCache.Get(ctx, key); ok {
			a.log.Warn("provider failed, falling back to cached routes",
				zap.String("key", key), zap.Error(err))
			return bundle.Routes, nil
		}
		if errors.Is(util.ErrCode(err), util.ErrNoRouteFound) {
			return nil, err
		}
		return nil, util.WrapErrorf(err, util.ErrProviderUnavailable,
			"provider failed and no cached routes for %s -> %s", origin, destination)
	}

	bundle := &datastructure.RouteBundle{
		Routes:      routes,
		RawResponse: raw,
		Mode:        mode,
		StoredAt:    time.Now(),
	}
	a.routeCache.Put(ctx, key, bundle)

	if a.preCacher != nil && len(routes) > 0 {
		bounds := routes[0].Bounds
		go a.preCacher.PreCacheTiles(context.WithoutCancel(ctx), bounds,
			a.tileURLTemplate, pkg.PreCacheZoomLevels)
	}

	return routes, nil
}
