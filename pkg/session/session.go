package session

import (
	"sync"
	"time"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/guidance"
	"github.com/cargoroute/guidance/pkg/hazard"
	"github.com/cargoroute/guidance/pkg/speech"
	"github.com/cargoroute/guidance/pkg/tracker"
	"github.com/cargoroute/guidance/pkg/util"
	"go.uber.org/zap"
)

// State enum of the navigation session machine.
type State uint8

const (
	IDLE State = iota
	ROUTE_READY
	NAVIGATING
	ARRIVED
	STOPPED
)

func (s State) String() string {
	switch s {
	case ROUTE_READY:
		return "route_ready"
	case NAVIGATING:
		return "navigating"
	case ARRIVED:
		return "arrived"
	case STOPPED:
		return "stopped"
	default:
		return "idle"
	}
}

// MapSink. what the session emits to the map renderer: the tracked
// position with the active geometry for drawing, focus requests while
// follow mode is on, and camera alert overlays.
type MapSink interface {
	RenderPosition(sample datastructure.PositionSample, route *datastructure.Route)
	Focus(sample datastructure.PositionSample)
	CameraAlert(alert hazard.Alert, active bool)
}

// Session. the orchestrating state machine: owns the active route, the
// tracking subscription, and coordinates the tracker, announcer, and
// hazard alert engine across start/stop/cancel transitions. One session
// serves one navigation attempt; the embedding application constructs and
// tears it down.
type Session struct {
	log *zap.Logger
	mu  sync.Mutex

	state State
	route *datastructure.Route
	mode  pkg.TravelMode

	trk       *tracker.Tracker
	announcer *guidance.Announcer
	alerts    *hazard.AlertEngine
	voice     *speech.Queue
	mapSink   MapSink

	sub    *tracker.Subscription
	follow bool
	paused bool // tracking error: emission pauses, state stays NAVIGATING

	overviewDelay time.Duration
}

func New(log *zap.Logger, trk *tracker.Tracker, announcer *guidance.Announcer,
	alerts *hazard.AlertEngine, voice *speech.Queue, mapSink MapSink) *Session {
	return &Session{
		log:           log,
		state:         IDLE,
		trk:           trk,
		announcer:     announcer,
		alerts:        alerts,
		voice:         voice,
		mapSink:       mapSink,
		follow:        true,
		overviewDelay: 1500 * time.Millisecond,
	}
}

// SetOverviewDelay overrides the pause before the route overview is
// spoken. Zero speaks it synchronously inside Start.
func (s *Session) SetOverviewDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overviewDelay = d
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) ActiveRoute() *datastructure.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

func (s *Session) SetFollow(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.follow = on
}

// SelectRoute installs the user-selected alternative: IDLE (or an
// acknowledged ARRIVED/STOPPED, which passes through IDLE) -> ROUTE_READY.
// Selecting while NAVIGATING is a programming error.
func (s *Session) SelectRoute(route *datastructure.Route, mode pkg.TravelMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == NAVIGATING {
		return util.WrapErrorf(nil, util.ErrConflict,
			"cannot select a route while navigating, stop the session first")
	}
	if route == nil || len(route.Steps) == 0 {
		return util.WrapErrorf(nil, util.ErrBadParamInput,
			"selected route has no steps")
	}

	s.route = route
	s.mode = mode
	s.state = ROUTE_READY
	s.log.Info("route selected",
		zap.String("route", route.ID),
		zap.Float64("distance_m", route.DistanceMeters))
	return nil
}

// Start begins navigation: ROUTE_READY -> NAVIGATING. Resets announcer and
// hazard state, subscribes the tracker, then speaks the route overview
// (after the configured delay) followed by the first instruction.
func (s *Session) Start() error {
	s.mu.Lock()

	if s.state == NAVIGATING {
		s.mu.Unlock()
		return util.WrapErrorf(nil, util.ErrConflict,
			"session already navigating")
	}
	if s.state != ROUTE_READY {
		s.mu.Unlock()
		return util.WrapErrorf(nil, util.ErrBadParamInput,
			"cannot start from state %s", s.state)
	}

	s.announcer.Reset(s.route, s.mode)
	s.alerts.ResetAlerts()
	s.paused = false

	sub, err := s.trk.Start(s.onSample, s.onTrackingError)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.sub = sub
	s.state = NAVIGATING
	route := s.route
	delay := s.overviewDelay
	s.mu.Unlock()

	s.log.Info("navigation started", zap.String("route", route.ID))

	speakIntro := func() {
		if s.State() != NAVIGATING {
			return
		}
		s.voice.Say(guidance.OverviewPhrase(route.DistanceMeters, route.DurationSeconds))
		if len(route.Steps) > 0 {
			s.voice.Say(route.Steps[0].Instruction)
		}
	}
	if delay <= 0 {
		speakIntro()
	} else {
		time.AfterFunc(delay, speakIntro)
	}
	return nil
}

// Stop tears navigation down: NAVIGATING -> STOPPED. Safe to call at any
// time and idempotent; outside NAVIGATING it is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state != NAVIGATING {
		s.mu.Unlock()
		return
	}
	s.state = STOPPED
	sub := s.sub
	s.sub = nil
	s.follow = false
	s.mu.Unlock()

	if sub != nil {
		sub.Stop()
	}
	s.voice.Stop()
	s.log.Info("navigation stopped")
}

// Acknowledge returns an ARRIVED or STOPPED session to IDLE.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != ARRIVED && s.state != STOPPED {
		return
	}
	s.state = IDLE
	s.route = nil
}

// OnAnnouncerArrival is wired as part of the announcer notifier by the
// embedding application: an ARRIVAL announcement moves
// NAVIGATING -> ARRIVED and releases the tracking subscription.
func (s *Session) OnAnnouncerArrival() {
	s.mu.Lock()
	if s.state != NAVIGATING {
		s.mu.Unlock()
		return
	}
	s.state = ARRIVED
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Stop()
	}
	s.log.Info("destination reached")
}

func (s *Session) onSample(sample datastructure.PositionSample) {
	s.mu.Lock()
	if s.state != NAVIGATING {
		s.mu.Unlock()
		return
	}
	s.paused = false
	route := s.route
	follow := s.follow
	s.mu.Unlock()

	s.announcer.OnSample(sample)
	s.alerts.OnSample(sample)
	s.voice.Flush()

	if s.mapSink != nil {
		s.mapSink.RenderPosition(sample, route)
		if follow {
			s.mapSink.Focus(sample)
		}
	}
}

// onTrackingError pauses instruction emission but does not leave
// NAVIGATING; whether to give up is the embedding application's call.
func (s *Session) onTrackingError(err error) {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	s.log.Warn("tracking unavailable, guidance paused", zap.Error(err))
}

// Paused reports whether guidance is waiting out a tracking error.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}
