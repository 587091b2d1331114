package playlist

import (
	"fmt"
	"math"
)

// Score rates how well actual matches target on a [0,1] scale.
//
// Anything at or under target scores 1. Overage within tolerance loses up to
// 0.2 linearly. Beyond tolerance the score starts at 0.8 and drops by the
// excess relative to target, floored at 0. Invalid arguments score 0.
func Score(actual, target, tolerance int) float64 {
	s, _ := CheckedScore(actual, target, tolerance)
	return s
}

// CheckedScore is Score that also reports ErrInvalidArgument for a
// non-positive target or negative tolerance, and ErrDivisionGuard (alongside
// a valid score) when zero tolerance sent an overage to the penalty branch.
func CheckedScore(actual, target, tolerance int) (float64, error) {
	if target <= 0 {
		return 0, fmt.Errorf("%w: target %d must be positive", ErrInvalidArgument, target)
	}
	if tolerance < 0 {
		return 0, fmt.Errorf("%w: tolerance %d must not be negative", ErrInvalidArgument, tolerance)
	}
	if actual <= target {
		return 1.0, nil
	}

	overage := actual - target
	if tolerance == 0 {
		return penalty(overage, target, 0), ErrDivisionGuard
	}
	if overage <= tolerance {
		return 1.0 - float64(overage)/float64(tolerance)*0.2, nil
	}
	return penalty(overage, target, tolerance), nil
}

func penalty(overage, target, tolerance int) float64 {
	return math.Max(0, 0.8-float64(overage-tolerance)/float64(target))
}
