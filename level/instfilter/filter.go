// Package instfilter recognises placement records left over in shipped
// levels that do not describe a real object.
package instfilter

import (
	"math"

	"github.com/mogaika/levelport/level"
	"github.com/mogaika/levelport/utils"
)

const (
	MAX_COORD   = 10000
	MIN_HEIGHT  = -999
	MIN_SCALE   = 0.001
	MAX_SCALE   = 1000
	REASON_NONE = ""
)

// Reason names the first rule inst breaks, or REASON_NONE.
func Reason(inst *level.Instance) string {
	for _, f := range inst.Position {
		if math.IsNaN(float64(f)) {
			return "position is NaN"
		}
	}
	for _, f := range inst.Position {
		if math.Abs(float64(f)) > MAX_COORD {
			return "position out of world bounds"
		}
	}
	if inst.Position[1] < MIN_HEIGHT {
		return "position below kill plane"
	}
	for _, f := range inst.Scale {
		if math.IsNaN(float64(f)) || f < MIN_SCALE || f > MAX_SCALE {
			return "degenerate scale"
		}
	}
	if !utils.IsFinite3(inst.Rotation) {
		return "rotation is not finite"
	}
	return REASON_NONE
}

func IsLikelyInvalid(inst *level.Instance) bool {
	return Reason(inst) != REASON_NONE
}
