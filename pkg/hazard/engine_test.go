package hazard

import (
	"testing"
	"time"

	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/geo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pointAt(origin geo.Coordinate, bearing, dist float64) geo.Coordinate {
	lat, lon := geo.GetDestinationPoint(origin.GetLat(), origin.GetLon(), bearing, dist)
	return geo.NewCoordinate(lat, lon)
}

func sampleAt(c geo.Coordinate, speedKmh float64) datastructure.PositionSample {
	return datastructure.NewPositionSample(c, speedKmh, 0, time.Now())
}

type signalRecorder struct {
	raised  []Alert
	cleared int
}

func (r *signalRecorder) signal(alert Alert, active bool) {
	if active {
		r.raised = append(r.raised, alert)
	} else {
		r.cleared++
	}
}

func TestIndexSkipsInvalidCoordinates(t *testing.T) {
	hazards := []datastructure.HazardPoint{
		datastructure.NewHazardPoint(geo.NewCoordinate(41.3, 69.24), datastructure.HAZARD_SPEED_CAMERA, 60),
		datastructure.NewHazardPoint(geo.NewCoordinate(140.0, 69.24), datastructure.HAZARD_SPEED_CAMERA, 60),
		datastructure.NewHazardPoint(geo.NewCoordinate(41.3, 200.0), datastructure.HAZARD_RED_LIGHT, 0),
	}
	idx := NewIndex(hazards, zap.NewNop())
	require.Equal(t, 1, idx.Len())
}

func TestNearestWithinRadius(t *testing.T) {
	camera := geo.NewCoordinate(41.3111, 69.2797)
	idx := NewIndex([]datastructure.HazardPoint{
		datastructure.NewHazardPoint(camera, datastructure.HAZARD_SPEED_CAMERA, 60),
	}, zap.NewNop())

	// due north matters here: the search box must cover the full radius on
	// the axes, not just the diagonals
	_, dist, ok := idx.Nearest(pointAt(camera, 0, 250), 300)
	require.True(t, ok)
	require.InDelta(t, 250, dist, 1)

	_, _, ok = idx.Nearest(pointAt(camera, 0, 400), 300)
	require.False(t, ok)
}

func TestNearestPicksClosest(t *testing.T) {
	base := geo.NewCoordinate(41.3111, 69.2797)
	far := pointAt(base, 90, 200)
	near := pointAt(base, 90, 80)
	idx := NewIndex([]datastructure.HazardPoint{
		datastructure.NewHazardPoint(far, datastructure.HAZARD_SPEED_CAMERA, 60),
		datastructure.NewHazardPoint(near, datastructure.HAZARD_SPEED_CAMERA, 80),
	}, zap.NewNop())

	id, dist, ok := idx.Nearest(base, 300)
	require.True(t, ok)
	require.Equal(t, 1, id)
	require.InDelta(t, 80, dist, 1)
}

func TestAlertFiresOncePerApproach(t *testing.T) {
	camera := geo.NewCoordinate(41.3111, 69.2797)
	idx := NewIndex([]datastructure.HazardPoint{
		datastructure.NewHazardPoint(camera, datastructure.HAZARD_SPEED_CAMERA, 60),
	}, zap.NewNop())

	rec := &signalRecorder{}
	var warnings []string
	engine := NewAlertEngine(zap.NewNop(), idx, rec.signal, func(text string) {
		warnings = append(warnings, text)
	})

	// approach: in radius at 150 m, then closer
	engine.OnSample(sampleAt(pointAt(camera, 180, 150), 72))
	engine.OnSample(sampleAt(pointAt(camera, 180, 60), 70))

	require.Len(t, rec.raised, 1)
	require.Len(t, warnings, 1)
	require.Equal(t, "Speed camera ahead, limit 60. Your speed is 72", warnings[0])
	require.InDelta(t, 150, rec.raised[0].DistanceMeters, 1)
}

func TestAlertRearmsAfterDeparture(t *testing.T) {
	camera := geo.NewCoordinate(41.3111, 69.2797)
	idx := NewIndex([]datastructure.HazardPoint{
		datastructure.NewHazardPoint(camera, datastructure.HAZARD_SPEED_CAMERA, 60),
	}, zap.NewNop())

	rec := &signalRecorder{}
	var warnings []string
	engine := NewAlertEngine(zap.NewNop(), idx, rec.signal, func(text string) {
		warnings = append(warnings, text)
	})

	engine.OnSample(sampleAt(pointAt(camera, 180, 150), 50))
	engine.OnSample(sampleAt(pointAt(camera, 180, 500), 50)) // departed
	engine.OnSample(sampleAt(pointAt(camera, 180, 150), 50)) // re-approach

	require.Len(t, rec.raised, 2)
	require.Equal(t, 1, rec.cleared)
	require.Len(t, warnings, 2)
}

func TestWarningPhraseVariants(t *testing.T) {
	tests := []struct {
		name  string
		alert Alert
		want  string
	}{
		{
			name: "limit and speed",
			alert: Alert{
				Hazard:   datastructure.NewHazardPoint(geo.NewCoordinate(41.3, 69.24), datastructure.HAZARD_SPEED_CAMERA, 60),
				SpeedKmh: 75,
			},
			want: "Speed camera ahead, limit 60. Your speed is 75",
		},
		{
			name: "limit only",
			alert: Alert{
				Hazard: datastructure.NewHazardPoint(geo.NewCoordinate(41.3, 69.24), datastructure.HAZARD_SPEED_CAMERA, 60),
			},
			want: "Speed camera ahead, limit 60",
		},
		{
			name: "no limit",
			alert: Alert{
				Hazard: datastructure.NewHazardPoint(geo.NewCoordinate(41.3, 69.24), datastructure.HAZARD_SPEED_CAMERA, 0),
			},
			want: "Speed camera ahead",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, warningPhrase(tt.alert))
		})
	}
}

func TestResetAlertsRearms(t *testing.T) {
	camera := geo.NewCoordinate(41.3111, 69.2797)
	idx := NewIndex([]datastructure.HazardPoint{
		datastructure.NewHazardPoint(camera, datastructure.HAZARD_SPEED_CAMERA, 60),
	}, zap.NewNop())

	var warnings []string
	engine := NewAlertEngine(zap.NewNop(), idx, nil, func(text string) {
		warnings = append(warnings, text)
	})

	pos := sampleAt(pointAt(camera, 180, 150), 50)
	engine.OnSample(pos)
	engine.ResetAlerts()
	engine.OnSample(pos)

	require.Len(t, warnings, 2)
}
