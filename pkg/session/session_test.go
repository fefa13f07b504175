package session

import (
	"errors"
	"testing"
	"time"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/geo"
	"github.com/cargoroute/guidance/pkg/guidance"
	"github.com/cargoroute/guidance/pkg/hazard"
	"github.com/cargoroute/guidance/pkg/speech"
	"github.com/cargoroute/guidance/pkg/tracker"
	"github.com/cargoroute/guidance/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSynth struct {
	spoken []string
}

func (f *fakeSynth) Speak(text string) { f.spoken = append(f.spoken, text) }
func (f *fakeSynth) Stop()             {}
func (f *fakeSynth) Speaking() bool    { return false }

type fakeMapSink struct {
	rendered int
	focused  int
	alerts   int
}

func (f *fakeMapSink) RenderPosition(datastructure.PositionSample, *datastructure.Route) {
	f.rendered++
}
func (f *fakeMapSink) Focus(datastructure.PositionSample)  { f.focused++ }
func (f *fakeMapSink) CameraAlert(hazard.Alert, bool)      { f.alerts++ }

type harness struct {
	sess   *Session
	source *tracker.PushSource
	synth  *fakeSynth
	sink   *fakeMapSink
	route  *datastructure.Route
}

func pointAt(origin geo.Coordinate, bearing, dist float64) geo.Coordinate {
	lat, lon := geo.GetDestinationPoint(origin.GetLat(), origin.GetLon(), bearing, dist)
	return geo.NewCoordinate(lat, lon)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := zap.NewNop()

	base := geo.NewCoordinate(41.2995, 69.2401)
	route := &datastructure.Route{
		ID:              "route-0",
		DistanceMeters:  4000,
		DurationSeconds: 480,
		Steps: []datastructure.RouteStep{
			datastructure.NewRouteStep("head north on Amir Temur Avenue",
				base, pointAt(base, 0, 2000), 2000, 240, datastructure.MANEUVER_DEPART),
			datastructure.NewRouteStep("arrive at your destination",
				pointAt(base, 0, 2000), pointAt(base, 0, 4000), 2000, 240,
				datastructure.MANEUVER_ARRIVE),
		},
	}

	synth := &fakeSynth{}
	voice := speech.NewQueue(log, synth)
	sink := &fakeMapSink{}
	source := tracker.NewPushSource()
	trk := tracker.New(log, source)
	alerts := hazard.NewAlertEngine(log, hazard.NewIndex(nil, log), sink.CameraAlert, voice.Say)

	h := &harness{source: source, synth: synth, sink: sink, route: route}

	var sess *Session
	announcer := guidance.NewAnnouncer(log, func(ann guidance.Announcement) {
		voice.Say(ann.Text)
		if ann.Kind == guidance.ARRIVAL {
			sess.OnAnnouncerArrival()
		}
	})
	sess = New(log, trk, announcer, alerts, voice, sink)
	sess.SetOverviewDelay(0)
	h.sess = sess
	return h
}

func (h *harness) pushAt(c geo.Coordinate) {
	h.source.Push(datastructure.RawFix{
		Lat: c.GetLat(), Lon: c.GetLon(),
		SpeedKmh: 40, Heading: 0, Timestamp: time.Now(),
	})
}

func TestInitialStateIsIdle(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, IDLE, h.sess.State())
}

func TestStartRequiresSelectedRoute(t *testing.T) {
	h := newHarness(t)
	err := h.sess.Start()
	require.Error(t, err)
	require.ErrorIs(t, util.ErrCode(err), util.ErrBadParamInput)
}

func TestSelectRouteValidation(t *testing.T) {
	h := newHarness(t)

	err := h.sess.SelectRoute(nil, pkg.DRIVING)
	require.Error(t, err)
	require.ErrorIs(t, util.ErrCode(err), util.ErrBadParamInput)

	err = h.sess.SelectRoute(&datastructure.Route{ID: "empty"}, pkg.DRIVING)
	require.Error(t, err)
	require.ErrorIs(t, util.ErrCode(err), util.ErrBadParamInput)

	require.NoError(t, h.sess.SelectRoute(h.route, pkg.DRIVING))
	require.Equal(t, ROUTE_READY, h.sess.State())
}

func TestStartSpeaksOverviewAndFirstInstruction(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sess.SelectRoute(h.route, pkg.DRIVING))
	require.NoError(t, h.sess.Start())

	require.Equal(t, NAVIGATING, h.sess.State())
	require.Len(t, h.synth.spoken, 2)
	require.Contains(t, h.synth.spoken[0], "Your route is")
	require.Equal(t, "head north on Amir Temur Avenue", h.synth.spoken[1])
}

func TestSelectWhileNavigatingRejected(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sess.SelectRoute(h.route, pkg.DRIVING))
	require.NoError(t, h.sess.Start())

	err := h.sess.SelectRoute(h.route, pkg.DRIVING)
	require.Error(t, err)
	require.ErrorIs(t, util.ErrCode(err), util.ErrConflict)
}

func TestSamplesDriveMapSink(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sess.SelectRoute(h.route, pkg.DRIVING))
	require.NoError(t, h.sess.Start())

	base := h.route.Steps[0].Start
	h.pushAt(pointAt(base, 0, 100))
	h.pushAt(pointAt(base, 0, 200))

	require.Equal(t, 2, h.sink.rendered)
	require.Equal(t, 2, h.sink.focused)

	h.sess.SetFollow(false)
	h.pushAt(pointAt(base, 0, 300))
	require.Equal(t, 3, h.sink.rendered)
	require.Equal(t, 2, h.sink.focused)
}

func TestArrivalTransition(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sess.SelectRoute(h.route, pkg.DRIVING))
	require.NoError(t, h.sess.Start())

	destination := h.route.Steps[1].End
	h.pushAt(pointAt(destination, 180, 10))

	require.Equal(t, ARRIVED, h.sess.State())
	require.False(t, h.source.Active())
	require.Contains(t, h.synth.spoken, "You have arrived at your destination")

	// samples after arrival are ignored
	rendered := h.sink.rendered
	h.pushAt(destination)
	require.Equal(t, rendered, h.sink.rendered)

	h.sess.Acknowledge()
	require.Equal(t, IDLE, h.sess.State())
	require.Nil(t, h.sess.ActiveRoute())
}

func TestStopTransitionsAndIsIdempotent(t *testing.T) {
	h := newHarness(t)

	// stop outside NAVIGATING is a no-op
	h.sess.Stop()
	require.Equal(t, IDLE, h.sess.State())

	require.NoError(t, h.sess.SelectRoute(h.route, pkg.DRIVING))
	require.NoError(t, h.sess.Start())

	h.sess.Stop()
	require.Equal(t, STOPPED, h.sess.State())
	require.False(t, h.source.Active())

	h.sess.Stop()
	require.Equal(t, STOPPED, h.sess.State())

	h.sess.Acknowledge()
	require.Equal(t, IDLE, h.sess.State())
}

func TestTrackingErrorPausesWithoutLeavingNavigating(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sess.SelectRoute(h.route, pkg.DRIVING))
	require.NoError(t, h.sess.Start())

	h.source.PushError(errors.New("permission denied"))

	require.Equal(t, NAVIGATING, h.sess.State())
	require.True(t, h.sess.Paused())

	// a fresh fix resumes guidance
	h.pushAt(pointAt(h.route.Steps[0].Start, 0, 100))
	require.False(t, h.sess.Paused())
}

func TestRestartAfterStop(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sess.SelectRoute(h.route, pkg.DRIVING))
	require.NoError(t, h.sess.Start())
	h.sess.Stop()
	h.sess.Acknowledge()

	require.NoError(t, h.sess.SelectRoute(h.route, pkg.DRIVING))
	require.NoError(t, h.sess.Start())
	require.Equal(t, NAVIGATING, h.sess.State())
	require.True(t, h.source.Active())
}
