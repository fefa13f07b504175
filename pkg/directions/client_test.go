package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

const providerBody = `{
  "routes": [
    {
      "summary": "Navoi Avenue",
      "distance_meters": 5600,
      "duration_seconds": 720,
      "duration_in_traffic_seconds": 840,
      "polyline": %s,
      "steps": [
        {
          "instruction": "head west on Navoi Avenue",
          "start_location": {"lat": 41.3111, "lng": 69.2797},
          "end_location": {"lat": 41.3265, "lng": 69.2285},
          "distance_meters": 5600,
          "duration_seconds": 720,
          "maneuver": "depart"
        }
      ],
      "warnings": ["road work on Navoi Avenue"]
    }
  ]
}`

func encodedTashkentPolyline(t *testing.T) string {
	t.Helper()
	coords := [][]float64{
		{41.3111, 69.2797},
		{41.3180, 69.2550},
		{41.3265, 69.2285},
	}
	return string(polyline.EncodeCoords(coords))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 5*time.Second, zap.NewNop())
}

func TestFetchRoutesSuccess(t *testing.T) {
	encoded := encodedTashkentPolyline(t)
	var gotQuery map[string]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"origin":       q.Get("origin"),
			"destination":  q.Get("destination"),
			"mode":         q.Get("mode"),
			"alternatives": q.Get("alternatives"),
			"language":     q.Get("language"),
			"key":          q.Get("key"),
		}
		// json-quote the polyline, the encoding alphabet includes backslash
		quoted, _ := json.Marshal(encoded)
		w.Write([]byte(fmt.Sprintf(providerBody, quoted)))
	})

	routes, raw, err := client.FetchRoutes(context.Background(), Request{
		Origin:       "Amir Temur Square",
		Destination:  "Chorsu Bazaar",
		Mode:         pkg.DRIVING,
		Alternatives: true,
		Language:     "en",
	})
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	require.Equal(t, map[string]string{
		"origin":       "Amir Temur Square",
		"destination":  "Chorsu Bazaar",
		"mode":         "driving",
		"alternatives": "true",
		"language":     "en",
		"key":          "test-key",
	}, gotQuery)

	require.Len(t, routes, 1)
	route := routes[0]
	require.Equal(t, "route-0", route.ID)
	require.Equal(t, "Navoi Avenue", route.Summary)
	require.Equal(t, 5600.0, route.DistanceMeters)
	require.Equal(t, 840.0, route.DurationInTrafficSeconds)
	require.Len(t, route.Geometry, 3)
	require.InDelta(t, 41.3111, route.Geometry[0].GetLat(), 1e-4)
	require.Len(t, route.Steps, 1)
	require.Equal(t, "head west on Navoi Avenue", route.Steps[0].Instruction)
	require.False(t, route.Bounds.IsZero())
	require.InDelta(t, 41.3111, route.Bounds.MinLat, 1e-4)
	require.InDelta(t, 41.3265, route.Bounds.MaxLat, 1e-4)
	require.InDelta(t, 69.2285, route.Bounds.MinLon, 1e-4)
	require.InDelta(t, 69.2797, route.Bounds.MaxLon, 1e-4)
}

func TestFetchRoutesZeroResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes": [], "error": "ZERO_RESULTS", "message": "no route"}`))
	})

	_, _, err := client.FetchRoutes(context.Background(), Request{
		Origin: "a", Destination: "b", Mode: pkg.DRIVING,
	})
	require.Error(t, err)
	require.ErrorIs(t, util.ErrCode(err), util.ErrNoRouteFound)
}

func TestFetchRoutesEmptyRouteListIsNoRouteFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes": []}`))
	})

	_, _, err := client.FetchRoutes(context.Background(), Request{
		Origin: "a", Destination: "b", Mode: pkg.DRIVING,
	})
	require.Error(t, err)
	require.ErrorIs(t, util.ErrCode(err), util.ErrNoRouteFound)
}

func TestFetchRoutesServerErrorIsProviderUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, _, err := client.FetchRoutes(context.Background(), Request{
		Origin: "a", Destination: "b", Mode: pkg.DRIVING,
	})
	require.Error(t, err)
	require.ErrorIs(t, util.ErrCode(err), util.ErrProviderUnavailable)
}

func TestFetchRoutesProviderErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes": [], "error": "OVER_QUERY_LIMIT", "message": "slow down"}`))
	})

	_, _, err := client.FetchRoutes(context.Background(), Request{
		Origin: "a", Destination: "b", Mode: pkg.DRIVING,
	})
	require.Error(t, err)
	require.ErrorIs(t, util.ErrCode(err), util.ErrProviderUnavailable)
}

func TestFetchRoutesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL, "", time.Second, zap.NewNop())

	_, _, err := client.FetchRoutes(context.Background(), Request{
		Origin: "a", Destination: "b", Mode: pkg.DRIVING,
	})
	require.Error(t, err)
	require.ErrorIs(t, util.ErrCode(err), util.ErrProviderUnavailable)
}

func TestNormalizeWithoutGeometry(t *testing.T) {
	payload := &providerResponse{
		Routes: []providerRoute{{
			Summary:         "no polyline",
			DistanceMeters:  100,
			DurationSeconds: 60,
		}},
	}
	routes := Normalize(payload)
	require.Len(t, routes, 1)
	require.Empty(t, routes[0].Geometry)
	require.True(t, routes[0].Bounds.IsZero())
}
