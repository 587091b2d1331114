package playlist

import "errors"

var (
	// ErrInvalidArgument is returned for out-of-range composition parameters.
	ErrInvalidArgument = errors.New("playlist: invalid argument")
	// ErrNoCandidates is returned when nothing in the pool survives filtering.
	ErrNoCandidates = errors.New("playlist: no candidate contents")
	// ErrDivisionGuard is reported by CheckedScore when a zero tolerance with
	// overage was routed to the penalty branch.
	ErrDivisionGuard = errors.New("playlist: zero tolerance with overage")
)
