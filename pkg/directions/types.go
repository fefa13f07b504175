package directions

const statusZeroResults = "ZERO_RESULTS"

// wire format of the directions provider

type providerLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type providerStep struct {
	Instruction     string         `json:"instruction"`
	StartLocation   providerLatLng `json:"start_location"`
	EndLocation     providerLatLng `json:"end_location"`
	DistanceMeters  float64        `json:"distance_meters"`
	DurationSeconds float64        `json:"duration_seconds"`
	Maneuver        string         `json:"maneuver"`
}

type providerRoute struct {
	Summary                  string         `json:"summary"`
	DistanceMeters           float64        `json:"distance_meters"`
	DurationSeconds          float64        `json:"duration_seconds"`
	DurationInTrafficSeconds float64        `json:"duration_in_traffic_seconds"`
	Polyline                 string         `json:"polyline"`
	Steps                    []providerStep `json:"steps"`
	Warnings                 []string       `json:"warnings"`
}

type providerResponse struct {
	Routes  []providerRoute `json:"routes"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}
