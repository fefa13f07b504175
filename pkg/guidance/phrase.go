package guidance

import (
	"fmt"

	"github.com/cargoroute/guidance/pkg/util"
)

// HumanizeDistance renders a distance for speech: kilometers with one
// decimal at or above 1000 m, meters rounded to the nearest 50 m below.
func HumanizeDistance(meters float64) string {
	if meters >= 1000 {
		km := util.RoundFloat(meters/1000.0, 1)
		return fmt.Sprintf("%.1f kilometers", km)
	}
	rounded := util.RoundToNearest(meters, 50)
	if rounded < 50 {
		rounded = 50
	}
	return fmt.Sprintf("%.0f meters", rounded)
}

func InstructionPhrase(instruction string, distanceMeters float64) string {
	return fmt.Sprintf("In %s, %s", HumanizeDistance(distanceMeters), instruction)
}

// OverviewPhrase. the route summary spoken right after navigation starts.
func OverviewPhrase(distanceMeters, durationSeconds float64) string {
	minutes := int(durationSeconds/60 + 0.5)
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("Your route is %s long, about %d minutes",
		HumanizeDistance(distanceMeters), minutes)
}
