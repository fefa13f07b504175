package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/julienschmidt/httprouter"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/tracker"
	"go.uber.org/zap"
)

// wire format of one position frame pushed by the driver app.
type positionFrame struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	SpeedKmh  *float64 `json:"speed_kmh"`
	Heading   *float64 `json:"heading"`
	Timestamp int64   `json:"timestamp_ms"`
}

// handlePositions upgrades the connection and streams raw fixes into the
// push source until the client goes away. One navigating driver means one
// connection, a goroutine per connection is plenty.
func (api *API) handlePositions(source *tracker.PushSource) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			api.log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		go func() {
			defer conn.Close()
			for {
				msg, op, err := wsutil.ReadClientData(conn)
				if err != nil {
					api.log.Debug("position stream closed", zap.Error(err))
					return
				}
				if op != ws.OpText {
					continue
				}

				var frame positionFrame
				if err := json.Unmarshal(msg, &frame); err != nil {
					api.log.Warn("dropping malformed position frame", zap.Error(err))
					continue
				}
				source.Push(toRawFix(frame))
			}
		}()
	}
}

func toRawFix(frame positionFrame) datastructure.RawFix {
	fix := datastructure.RawFix{
		Lat:      frame.Lat,
		Lon:      frame.Lon,
		SpeedKmh: -1,
		Heading:  -1,
	}
	if frame.SpeedKmh != nil {
		fix.SpeedKmh = *frame.SpeedKmh
	}
	if frame.Heading != nil {
		fix.Heading = *frame.Heading
	}
	if frame.Timestamp > 0 {
		fix.Timestamp = time.UnixMilli(frame.Timestamp)
	} else {
		fix.Timestamp = time.Now()
	}
	return fix
}
