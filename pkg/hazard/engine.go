package hazard

import (
	"fmt"
	"sync"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"go.uber.org/zap"
)

// Alert. the "nearby camera" signal consumed by the map overlay.
type Alert struct {
	Hazard         datastructure.HazardPoint
	DistanceMeters float64
	SpeedKmh       float64
}

// SignalFunc receives the raised alert, or active=false when the device
// has left the alerting radius.
type SignalFunc func(alert Alert, active bool)

// WarnFunc speaks the one-shot warning for an approach.
type WarnFunc func(text string)

// AlertEngine raises a proximity signal while a hazard is inside the
// alerting radius and speaks one warning per approach. The warning re-arms
// only after the device fully departs the radius, so a hazard can alert
// again on a later re-approach but never twice in one pass.
type AlertEngine struct {
	log    *zap.Logger
	mu     sync.Mutex
	index  *Index
	radius float64

	alerted   map[int]bool
	activeID  int
	hasActive bool

	signal SignalFunc
	warn   WarnFunc
}

func NewAlertEngine(log *zap.Logger, index *Index, signal SignalFunc, warn WarnFunc) *AlertEngine {
	return &AlertEngine{
		log:     log,
		index:   index,
		radius:  pkg.HAZARD_ALERT_RADIUS_METERS,
		alerted: make(map[int]bool),
		signal:  signal,
		warn:    warn,
	}
}

// ResetAlerts clears all per-hazard alerted flags. Called at the start of
// every navigation session.
func (e *AlertEngine) ResetAlerts() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alerted = make(map[int]bool)
	e.hasActive = false
}

func (e *AlertEngine) OnSample(sample datastructure.PositionSample) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, dist, found := e.index.Nearest(sample.Coordinate, e.radius)

	if !found {
		if e.hasActive {
			// departed: clear the overlay signal and re-arm the hazard
			prev := e.index.Hazard(e.activeID)
			e.alerted[e.activeID] = false
			e.hasActive = false
			if e.signal != nil {
				e.signal(Alert{Hazard: prev}, false)
			}
		}
		return
	}

	if e.hasActive && e.activeID != id {
		e.alerted[e.activeID] = false
	}
	e.activeID = id
	e.hasActive = true

	if e.alerted[id] {
		return
	}
	e.alerted[id] = true

	hz := e.index.Hazard(id)
	alert := Alert{Hazard: hz, DistanceMeters: dist, SpeedKmh: sample.SpeedKmh}
	if e.signal != nil {
		e.signal(alert, true)
	}
	if e.warn != nil {
		e.warn(warningPhrase(alert))
	}
}

func warningPhrase(alert Alert) string {
	if alert.Hazard.SpeedLimitKmh > 0 && alert.SpeedKmh > 0 {
		return fmt.Sprintf("Speed camera ahead, limit %.0f. Your speed is %.0f",
			alert.Hazard.SpeedLimitKmh, alert.SpeedKmh)
	}
	if alert.Hazard.SpeedLimitKmh > 0 {
		return fmt.Sprintf("Speed camera ahead, limit %.0f", alert.Hazard.SpeedLimitKmh)
	}
	return "Speed camera ahead"
}
