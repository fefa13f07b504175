package tracker

import (
	"sync"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/geo"
	"github.com/cargoroute/guidance/pkg/util"
	"go.uber.org/zap"
)

// Source. the platform location stream. WatchPosition delivers raw fixes at
// the platform's native cadence until the returned cancel func runs.
// Platform failures (permission denied, signal loss) go to onError, they
// are events, not fatal conditions.
type Source interface {
	WatchPosition(onFix func(datastructure.RawFix), onError func(error)) (func(), error)
}

type SampleFunc func(datastructure.PositionSample)
type ErrorFunc func(error)

// Tracker wraps the platform location stream and republishes cleaned
// position samples: platform speed/heading when reported, derived heading
// from the movement delta otherwise.
type Tracker struct {
	log           *zap.Logger
	source        Source
	minMoveMeters float64
}

func New(log *zap.Logger, source Source) *Tracker {
	return &Tracker{
		log:           log,
		source:        source,
		minMoveMeters: pkg.HEADING_MIN_MOVE_METERS,
	}
}

// Subscription. handle for one standing position stream. Stop is idempotent
// and safe on an already-stopped handle.
type Subscription struct {
	stopOnce sync.Once
	cancel   func()
}

func (s *Subscription) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Start begins the standing subscription. onSample runs once per raw fix,
// in arrival order (the platform callback is serial). onError receives
// tracking failures without tearing the subscription down.
func (t *Tracker) Start(onSample SampleFunc, onError ErrorFunc) (*Subscription, error) {
	var (
		mu         sync.Mutex
		hasRetained bool
		retained    geo.Coordinate
		lastHeading float64
	)

	handleFix := func(fix datastructure.RawFix) {
		mu.Lock()
		defer mu.Unlock()

		coord := fix.Coordinate()
		if !coord.Valid() {
			t.log.Warn("dropping fix with out-of-range coordinate",
				zap.Float64("lat", fix.Lat), zap.Float64("lon", fix.Lon))
			return
		}

		heading := lastHeading
		if fix.HasHeading() {
			heading = fix.Heading
			retained = coord
			hasRetained = true
		} else if !hasRetained {
			retained = coord
			hasRetained = true
		} else if geo.DistanceMeters(retained, coord) > t.minMoveMeters {
			// advance the retained fix only on real movement so GPS jitter
			// while stationary does not spin the derived heading
			heading = geo.BearingDegrees(retained, coord)
			retained = coord
		}
		lastHeading = heading

		// speed is never derived from inter-sample time deltas, those
		// intervals are irregular and the division produces noise spikes
		speed := 0.0
		if fix.HasSpeed() {
			speed = fix.SpeedKmh
		}

		onSample(datastructure.NewPositionSample(coord, speed, heading, fix.Timestamp))
	}

	handleErr := func(err error) {
		if onError != nil {
			onError(util.WrapErrorf(err, util.ErrTrackingUnavailable, "location stream error"))
		}
	}

	cancel, err := t.source.WatchPosition(handleFix, handleErr)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrTrackingUnavailable,
			"starting location stream")
	}

	return &Subscription{cancel: cancel}, nil
}
