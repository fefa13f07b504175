package pkg

// TravelMode enum. mode of transport used for a route request.
type TravelMode uint8

const (
	DRIVING TravelMode = iota
	MOTORCYCLE
	TRUCK
	WALKING
)

func (m TravelMode) String() string {
	switch m {
	case MOTORCYCLE:
		return "motorcycle"
	case TRUCK:
		return "truck"
	case WALKING:
		return "walking"
	default:
		return "driving"
	}
}

func ParseTravelMode(mode string) TravelMode {
	switch mode {
	case "motorcycle":
		return MOTORCYCLE
	case "truck":
		return TRUCK
	case "walking":
		return WALKING
	default:
		return DRIVING
	}
}

const (
	EARTH_RADIUS_METERS = 6371000.0

	// a threshold fires inside [ANNOUNCE_TOLERANCE*threshold, threshold]
	ANNOUNCE_TOLERANCE = 0.85

	ARRIVAL_RADIUS_METERS     = 30.0
	PRE_ARRIVAL_RADIUS_METERS = 100.0

	// minimum movement before the retained fix used for heading derivation
	// is advanced. below this the previous fix is kept so GPS jitter while
	// stationary does not spin the heading.
	HEADING_MIN_MOVE_METERS = 3.0

	HAZARD_ALERT_RADIUS_METERS = 300.0

	PRECACHE_TILE_WORKERS   = 4
	PRECACHE_TILE_QUEUE_CAP = 64
)

// announcement thresholds in meters, descending order.
var (
	VehicleThresholds = []float64{1000, 500, 200, 100, 50}
	WalkingThresholds = []float64{100, 50, 20}

	PreCacheZoomLevels = []int{12, 14, 16}
)

func AnnounceThresholds(mode TravelMode) []float64 {
	if mode == WALKING {
		return WalkingThresholds
	}
	return VehicleThresholds
}
