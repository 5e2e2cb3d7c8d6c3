package convert

import "github.com/ddrmaster1000/garmin-workout/internal/garmin"

// metersToYards is the exact conversion multiplier for distances that are not
// colloquial pool lengths.
const metersToYards = 1.09361

// poolLengths maps nominal pool distances to their yard labels. A "25" is a
// pool length whether the pool is measured in meters or yards, so these
// specific values pass through unchanged rather than being multiplied.
var poolLengths = map[float64]float64{
	25:  25,
	50:  50,
	100: 100,
	200: 200,
}

// ToYards converts a swim distance in meters to yards.
func ToYards(meters float64) float64 {
	if yd, ok := poolLengths[meters]; ok {
		return yd
	}
	return meters * metersToYards
}

// applyYards converts every distance in the step tree to yards, descending
// into repeat groups so nested interval distances are covered too.
func applyYards(steps []garmin.Step) {
	for i := range steps {
		if steps[i].IsRepeat() {
			applyYards(steps[i].Steps)
			continue
		}
		if steps[i].Distance != nil {
			yd := ToYards(*steps[i].Distance)
			steps[i].Distance = &yd
		}
	}
}
