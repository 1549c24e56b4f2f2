package screener

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks configuration rejected before any computation.
var ErrInvalidConfig = errors.New("invalid screen configuration")

// UniverseError reports that fewer instruments qualified than the requested
// top-N. The ranked result is still returned alongside it; the caller
// decides whether a short list is acceptable.
type UniverseError struct {
	Qualifying int
	Requested  int
}

func (e *UniverseError) Error() string {
	return fmt.Sprintf("universe too small: %d qualifying instruments for top %d", e.Qualifying, e.Requested)
}
