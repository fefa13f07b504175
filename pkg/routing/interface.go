package routing

import (
	"context"

	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/directions"
	"github.com/cargoroute/guidance/pkg/geo"
)

type Provider interface {
	FetchRoutes(ctx context.Context, req directions.Request) ([]datastructure.Route, []byte, error)
}

// ConnectivityProbe reports whether the device currently has network
// connectivity. Offline switches the acquirer to cache-first.
type ConnectivityProbe interface {
	Online() bool
}

type TilePreCacher interface {
	PreCacheTiles(ctx context.Context, bounds geo.Bounds, tileURLTemplate string, zoomLevels []int)
}
