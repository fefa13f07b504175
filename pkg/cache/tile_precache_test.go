package cache

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cargoroute/guidance/pkg/geo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTileXY(t *testing.T) {
	// the equator/prime-meridian corner of the slippy scheme is exact
	x, y := tileXY(0, 0, 1)
	require.Equal(t, 1, x)
	require.Equal(t, 1, y)

	x, y = tileXY(0, 0, 0)
	require.Equal(t, 0, x)
	require.Equal(t, 0, y)

	// indices clamp to the grid at the poles and the antimeridian
	x, y = tileXY(89.9, 180, 4)
	require.Equal(t, 15, x)
	require.Equal(t, 0, y)
	x, y = tileXY(-89.9, -180, 4)
	require.Equal(t, 0, x)
	require.Equal(t, 15, y)

	// western hemisphere lands left of the meridian tile
	x, _ = tileXY(0, -69.2797, 12)
	xe, _ := tileXY(0, 69.2797, 12)
	require.Less(t, x, 2048)
	require.Greater(t, xe, 2048)
}

func TestTileURL(t *testing.T) {
	got := tileURL("https://tiles.example.com/{z}/{x}/{y}.png", 12, 2836, 1531)
	require.Equal(t, "https://tiles.example.com/12/2836/1531.png", got)
}

func TestPreCacheTilesStoresBlobs(t *testing.T) {
	var mu sync.Mutex
	requested := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested[r.URL.Path] = true
		mu.Unlock()
		w.Write([]byte("tile-bytes"))
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	tp := NewTilePreCacher(storage, zap.NewNop())

	bounds := geo.Bounds{
		MinLat: 41.3110, MinLon: 69.2796,
		MaxLat: 41.3112, MaxLon: 69.2798,
	}
	tp.PreCacheTiles(context.Background(), bounds,
		srv.URL+"/{z}/{x}/{y}.png", []int{12})

	x, y := tileXY(bounds.MinLat, bounds.MinLon, 12)
	mu.Lock()
	require.True(t, requested[fmt.Sprintf("/12/%d/%d.png", x, y)])
	mu.Unlock()

	blob, ok, err := storage.Get(context.Background(), tileKey(12, x, y))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("tile-bytes"), blob)
}

func TestPreCacheTilesNoTemplateIsNoOp(t *testing.T) {
	tp := NewTilePreCacher(NewMemoryStorage(), zap.NewNop())
	tp.PreCacheTiles(context.Background(), geo.Bounds{
		MinLat: 41, MinLon: 69, MaxLat: 42, MaxLon: 70,
	}, "", []int{12})
}

func TestPreCacheTilesFetchFailureSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	tp := NewTilePreCacher(storage, zap.NewNop())

	bounds := geo.Bounds{
		MinLat: 41.3110, MinLon: 69.2796,
		MaxLat: 41.3112, MaxLon: 69.2798,
	}
	tp.PreCacheTiles(context.Background(), bounds,
		srv.URL+"/{z}/{x}/{y}.png", []int{12})

	x, y := tileXY(bounds.MinLat, bounds.MinLon, 12)
	_, ok, err := storage.Get(context.Background(), tileKey(12, x, y))
	require.NoError(t, err)
	require.False(t, ok)
}
