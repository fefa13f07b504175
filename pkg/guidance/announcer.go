package guidance

import (
	"sync"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/geo"
	"go.uber.org/zap"
)

// AnnouncementKind enum.
type AnnouncementKind uint8

const (
	INSTRUCTION AnnouncementKind = iota
	PRE_ARRIVAL
	ARRIVAL
)

// Announcement. one spoken guidance event.
type Announcement struct {
	Kind           AnnouncementKind
	Text           string
	StepIndex      int
	ThresholdMeters float64
	DistanceMeters float64
}

type Notifier func(Announcement)

// firing keys. step thresholds use (stepIndex, threshold); arrival and
// pre-arrival use dedicated sentinels so they can never collide with a
// step key.
type fireKey struct {
	stepIndex int
	threshold int
}

var (
	arrivalKey    = fireKey{stepIndex: -1, threshold: -1}
	preArrivalKey = fireKey{stepIndex: -2, threshold: -2}
)

// Announcer matches position samples against the active route's step list
// and decides when an instruction is due. Closest-step matching plus a
// two-step lookahead and tolerance-banded thresholds keep noisy GPS fixes
// from producing missed or duplicate announcements.
type Announcer struct {
	log  *zap.Logger
	mu   sync.Mutex

	route      *datastructure.Route
	mode       pkg.TravelMode
	thresholds []float64
	tolerance  float64

	fired   map[fireKey]bool
	arrived bool

	notify Notifier
}

func NewAnnouncer(log *zap.Logger, notify Notifier) *Announcer {
	return &Announcer{
		log:       log,
		tolerance: pkg.ANNOUNCE_TOLERANCE,
		fired:     make(map[fireKey]bool),
		notify:    notify,
	}
}

// Reset installs a new active route and clears all firing state. Called on
// every session start or restart.
func (a *Announcer) Reset(route *datastructure.Route, mode pkg.TravelMode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.route = route
	a.mode = mode
	a.thresholds = pkg.AnnounceThresholds(mode)
	a.fired = make(map[fireKey]bool)
	a.arrived = false
}

func (a *Announcer) Arrived() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.arrived
}

// OnSample processes one position sample. Samples must arrive one at a
// time in arrival order; the mutex guards against misuse, not concurrent
// batching.
func (a *Announcer) OnSample(sample datastructure.PositionSample) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.route == nil || len(a.route.Steps) == 0 || a.arrived {
		return
	}

	pos := sample.Coordinate
	closest := a.closestStepIndex(pos)

	// two-step lookahead window: the closest step and the one after it, so
	// an instruction can be pre-announced before the maneuver point
	for _, idx := range []int{closest, closest + 1} {
		if idx >= len(a.route.Steps) {
			continue
		}
		a.checkStep(idx, pos)
	}

	a.checkArrival(pos)
}

func (a *Announcer) closestStepIndex(pos geo.Coordinate) int {
	best := 0
	bestDist := geo.DistanceMeters(pos, a.route.Steps[0].Start)
	for i := 1; i < len(a.route.Steps); i++ {
		d := geo.DistanceMeters(pos, a.route.Steps[i].Start)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func (a *Announcer) checkStep(idx int, pos geo.Coordinate) {
	step := a.route.Steps[idx]
	dist := geo.DistanceMeters(pos, step.Start)

	for _, threshold := range a.thresholds {
		// tolerance band: fire only inside [tolerance*T, T], so a fix that
		// oscillates around a boundary cannot re-trigger
		if dist > threshold || dist < threshold*a.tolerance {
			continue
		}
		key := fireKey{stepIndex: idx, threshold: int(threshold)}
		if a.fired[key] {
			continue
		}
		a.fired[key] = true

		text := InstructionPhrase(step.Instruction, dist)
		a.emit(Announcement{
			Kind:            INSTRUCTION,
			Text:            text,
			StepIndex:       idx,
			ThresholdMeters: threshold,
			DistanceMeters:  dist,
		})
		return
	}
}

func (a *Announcer) checkArrival(pos geo.Coordinate) {
	last, ok := a.route.LastStep()
	if !ok {
		return
	}
	dist := geo.DistanceMeters(pos, last.End)

	if dist < pkg.ARRIVAL_RADIUS_METERS {
		if a.fired[arrivalKey] {
			return
		}
		a.fired[arrivalKey] = true
		a.arrived = true
		a.emit(Announcement{
			Kind:           ARRIVAL,
			Text:           "You have arrived at your destination",
			StepIndex:      len(a.route.Steps) - 1,
			DistanceMeters: dist,
		})
		return
	}

	if dist < pkg.PRE_ARRIVAL_RADIUS_METERS && !a.fired[preArrivalKey] {
		a.fired[preArrivalKey] = true
		a.emit(Announcement{
			Kind:           PRE_ARRIVAL,
			Text:           "Your destination is near",
			StepIndex:      len(a.route.Steps) - 1,
			DistanceMeters: dist,
		})
	}
}

func (a *Announcer) emit(ann Announcement) {
	a.log.Debug("announcement",
		zap.Uint8("kind", uint8(ann.Kind)),
		zap.Int("step", ann.StepIndex),
		zap.Float64("distance_m", ann.DistanceMeters),
		zap.String("text", ann.Text))
	if a.notify != nil {
		a.notify(ann)
	}
}
