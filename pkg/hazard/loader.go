package hazard

import (
	"encoding/json"
	"os"

	"github.com/cargoroute/guidance/pkg/datastructure"
)

// LoadHazards reads the static hazard reference file. The format matches
// datastructure.HazardPoint, one array of points.
func LoadHazards(path string) ([]datastructure.HazardPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var hazards []datastructure.HazardPoint
	if err := json.Unmarshal(data, &hazards); err != nil {
		return nil, err
	}
	return hazards, nil
}
