package main

import (
	"context"

	"github.com/cargoroute/guidance/pkg/cache"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/directions"
	"github.com/cargoroute/guidance/pkg/guidance"
	"github.com/cargoroute/guidance/pkg/hazard"
	"github.com/cargoroute/guidance/pkg/http"
	"github.com/cargoroute/guidance/pkg/http/usecases"
	"github.com/cargoroute/guidance/pkg/logger"
	"github.com/cargoroute/guidance/pkg/routing"
	"github.com/cargoroute/guidance/pkg/session"
	"github.com/cargoroute/guidance/pkg/speech"
	"github.com/cargoroute/guidance/pkg/tracker"
	"github.com/cargoroute/guidance/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		log.Warn("no config file found, using defaults", zap.Error(err))
	}
	viper.SetDefault("DIRECTIONS_BASE_URL", "http://localhost:5000")
	viper.SetDefault("DIRECTIONS_TIMEOUT", "15s")
	viper.SetDefault("DIRECTIONS_LANGUAGE", "en")
	viper.SetDefault("TILE_URL_TEMPLATE", "")
	viper.SetDefault("CONNECTIVITY_PROBE_URL", "https://www.google.com/generate_204")
	viper.SetDefault("HAZARDS_FILE", "./data/hazards.json")

	var storage cache.Storage
	if redisURL := viper.GetString("REDIS_URL"); redisURL != "" {
		redisStorage, err := cache.NewRedisStorage(redisURL, log)
		if err != nil {
			log.Warn("redis unavailable, falling back to in-memory cache", zap.Error(err))
			storage = cache.NewMemoryStorage()
		} else {
			defer redisStorage.Close()
			storage = redisStorage
		}
	} else {
		storage = cache.NewMemoryStorage()
	}

	routeCache := cache.NewRouteCache(storage, log)
	preCacher := cache.NewTilePreCacher(storage, log)

	client := directions.NewClient(
		viper.GetString("DIRECTIONS_BASE_URL"),
		viper.GetString("DIRECTIONS_API_KEY"),
		viper.GetDuration("DIRECTIONS_TIMEOUT"),
		log,
	)
	probe := routing.NewHTTPProbe(viper.GetString("CONNECTIVITY_PROBE_URL"))
	acquirer := routing.NewAcquirer(log, client, routeCache, preCacher, probe,
		viper.GetString("TILE_URL_TEMPLATE"), viper.GetString("DIRECTIONS_LANGUAGE"))

	hazards, err := hazard.LoadHazards(viper.GetString("HAZARDS_FILE"))
	if err != nil {
		log.Warn("no hazard reference data loaded", zap.Error(err))
	}
	hazardIndex := hazard.NewIndex(hazards, log)

	voice := speech.NewQueue(log, speech.NewLogSynthesizer(log))
	mapSink := newLogMapSink(log)

	var sess *session.Session
	announcer := guidance.NewAnnouncer(log, func(ann guidance.Announcement) {
		voice.Say(ann.Text)
		if ann.Kind == guidance.ARRIVAL && sess != nil {
			sess.OnAnnouncerArrival()
		}
	})
	alerts := hazard.NewAlertEngine(log, hazardIndex,
		func(alert hazard.Alert, active bool) {
			mapSink.CameraAlert(alert, active)
		},
		voice.Say,
	)

	positionSource := tracker.NewPushSource()
	trk := tracker.New(log, positionSource)
	sess = session.New(log, trk, announcer, alerts, voice, mapSink)

	navigationService := usecases.NewNavigationService(log, acquirer, sess)

	ctx, cancel := context.WithCancel(context.Background())
	api := http.NewServer(log)
	if _, err := api.Use(ctx, log, viper.GetBool("USE_RATE_LIMIT"),
		navigationService, positionSource); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()
	log.Info("guidance engine stopped", zap.String("signal", signal.String()))
	sess.Stop()
	cancel()
}

// logMapSink stands in for the device map renderer when the engine runs
// headless.
type logMapSink struct {
	log *zap.Logger
}

func newLogMapSink(log *zap.Logger) *logMapSink {
	return &logMapSink{log: log}
}

func (m *logMapSink) RenderPosition(sample datastructure.PositionSample, route *datastructure.Route) {
	m.log.Debug("position",
		zap.Float64("lat", sample.Coordinate.GetLat()),
		zap.Float64("lon", sample.Coordinate.GetLon()),
		zap.Float64("heading", sample.HeadingDegrees))
}

func (m *logMapSink) Focus(sample datastructure.PositionSample) {}

func (m *logMapSink) CameraAlert(alert hazard.Alert, active bool) {
	m.log.Info("camera alert",
		zap.Bool("active", active),
		zap.String("kind", alert.Hazard.Kind),
		zap.Float64("distance_m", alert.DistanceMeters))
}
