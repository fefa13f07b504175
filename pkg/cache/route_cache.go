package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/geo"
	"go.uber.org/zap"
)

// Waypoint. one endpoint of a route request, either a free-text address or
// a coordinate pair. The two forms are never cache-equivalent even when
// they resolve to the same place, so the derived key carries the form.
type Waypoint struct {
	Address    string
	Coordinate geo.Coordinate
	IsAddress  bool
}

func AddressWaypoint(address string) Waypoint {
	return Waypoint{Address: address, IsAddress: true}
}

func CoordinateWaypoint(c geo.Coordinate) Waypoint {
	return Waypoint{Coordinate: c}
}

func (w Waypoint) IsZero() bool {
	if w.IsAddress {
		return strings.TrimSpace(w.Address) == ""
	}
	return false
}

func (w Waypoint) keyPart() string {
	if w.IsAddress {
		return "addr:" + strings.ToLower(strings.TrimSpace(w.Address))
	}
	return fmt.Sprintf("coord:%.6f,%.6f", w.Coordinate.GetLat(), w.Coordinate.GetLon())
}

func (w Waypoint) String() string {
	if w.IsAddress {
		return w.Address
	}
	return fmt.Sprintf("%f,%f", w.Coordinate.GetLat(), w.Coordinate.GetLon())
}

// Key derives the deterministic cache key for (origin, destination, mode).
func Key(origin, destination Waypoint, mode pkg.TravelMode) string {
	var b strings.Builder
	b.WriteString("route|")
	b.WriteString(origin.keyPart())
	b.WriteByte('|')
	b.WriteString(destination.keyPart())
	b.WriteByte('|')
	b.WriteString(mode.String())
	return b.String()
}

// RouteCache maps (origin, destination, mode) to a previously fetched
// RouteBundle. Last write wins, no merge, no expiry beyond whatever the
// Storage collaborator enforces.
type RouteCache struct {
	storage Storage
	log     *zap.Logger
}

func NewRouteCache(storage Storage, log *zap.Logger) *RouteCache {
	return &RouteCache{storage: storage, log: log}
}

func (rc *RouteCache) Get(ctx context.Context, key string) (*datastructure.RouteBundle, bool) {
	blob, ok, err := rc.storage.Get(ctx, key)
	if err != nil {
		rc.log.Warn("route cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var bundle datastructure.RouteBundle
	if err := json.Unmarshal(blob, &bundle); err != nil {
		rc.log.Warn("route cache entry corrupt, treating as miss",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &bundle, true
}

// Put overwrites any existing entry for key. Write failures are logged and
// swallowed, a cache write must never abort navigation.
func (rc *RouteCache) Put(ctx context.Context, key string, bundle *datastructure.RouteBundle) {
	blob, err := json.Marshal(bundle)
	if err != nil {
		rc.log.Warn("route cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := rc.storage.Put(ctx, key, blob); err != nil {
		rc.log.Warn("route cache write failed", zap.String("key", key), zap.Error(err))
	}
}
