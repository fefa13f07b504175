package cache

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/concurrent"
	"github.com/cargoroute/guidance/pkg/geo"
	"github.com/cargoroute/guidance/pkg/util"
	"go.uber.org/zap"
)

type tileJob struct {
	z, x, y int
	url     string
}

// TilePreCacher. best-effort warmer of map tiles covering a route's
// bounding box, so the map still renders after connectivity drops. All
// failures are logged and swallowed.
type TilePreCacher struct {
	storage    Storage
	httpClient *http.Client
	log        *zap.Logger
	maxTiles   int
}

func NewTilePreCacher(storage Storage, log *zap.Logger) *TilePreCacher {
	return &TilePreCacher{
		storage:    storage,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
		maxTiles:   256,
	}
}

// PreCacheTiles fetches every tile covering bounds at the given zoom levels
// and stores the blobs. It blocks until the fetches finish, callers run it
// in a goroutine (fire and forget).
func (tp *TilePreCacher) PreCacheTiles(ctx context.Context, bounds geo.Bounds,
	tileURLTemplate string, zoomLevels []int) {
	if tileURLTemplate == "" || bounds.IsZero() {
		return
	}

	pool := concurrent.NewWorkerPool[tileJob](pkg.PRECACHE_TILE_WORKERS, pkg.PRECACHE_TILE_QUEUE_CAP)
	pool.Start(func(job tileJob) error {
		return tp.fetchTile(ctx, job)
	}, func(job tileJob, err error) {
		tp.log.Debug("tile pre-cache fetch failed",
			zap.Int("z", job.z), zap.Int("x", job.x), zap.Int("y", job.y), zap.Error(err))
	})

	total := 0
	for _, z := range zoomLevels {
		minX, maxY := tileXY(bounds.MinLat, bounds.MinLon, z)
		maxX, minY := tileXY(bounds.MaxLat, bounds.MaxLon, z)
		for x := minX; x <= maxX && total < tp.maxTiles; x++ {
			for y := minY; y <= maxY && total < tp.maxTiles; y++ {
				job := tileJob{z: z, x: x, y: y, url: tileURL(tileURLTemplate, z, x, y)}
				if pool.AddJob(job) {
					total++
				}
			}
		}
	}

	pool.Close()
	pool.Wait()
	tp.log.Info("tile pre-cache finished", zap.Int("tiles", total))
}

func (tp *TilePreCacher) fetchTile(ctx context.Context, job tileJob) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.url, nil)
	if err != nil {
		return err
	}
	resp, err := tp.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tile server returned %d", resp.StatusCode)
	}
	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return tp.storage.Put(ctx, tileKey(job.z, job.x, job.y), blob)
}

func tileKey(z, x, y int) string {
	return fmt.Sprintf("tile|%d|%d|%d", z, x, y)
}

func tileURL(template string, z, x, y int) string {
	r := strings.NewReplacer(
		"{z}", fmt.Sprintf("%d", z),
		"{x}", fmt.Sprintf("%d", x),
		"{y}", fmt.Sprintf("%d", y),
	)
	return r.Replace(template)
}

// tileXY. slippy-map tile indices of a coordinate at zoom z.
func tileXY(lat, lon float64, z int) (int, int) {
	n := math.Exp2(float64(z))
	x := int(math.Floor((lon + 180.0) / 360.0 * n))
	latRad := util.DegreeToRadians(lat)
	y := int(math.Floor((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n))
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	max := int(n) - 1
	if x > max {
		x = max
	}
	if y > max {
		y = max
	}
	return x, y
}
