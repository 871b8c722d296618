package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBody is returned when a body has fewer than three usable
	// vertices after cleanup.
	ErrEmptyBody = errors.New("body needs at least 3 distinct vertices")
	// ErrConcavePart is returned when decomposition leaves a part that is
	// not convex.
	ErrConcavePart = errors.New("decomposition produced a concave part")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrForeignBody is returned when a body is used with a world it does
	// not belong to.
	ErrForeignBody = errors.New("body belongs to another world")
	// ErrDuplicateBody is returned when a body is added twice.
	ErrDuplicateBody = errors.New("body already in world")
	// ErrNoContactNormal means SAT reported an overlap but the manifold
	// had no finite reference normal.
	ErrNoContactNormal = errors.New("no contact normal for overlapping shapes")
)

// ContactError reports an internal solver failure between two bodies.
type ContactError struct {
	BodyA, BodyB uint32
	Err          error
}

func (e *ContactError) Error() string {
	return fmt.Sprintf("contact between body %d and body %d: %v", e.BodyA, e.BodyB, e.Err)
}

func (e *ContactError) Unwrap() error {
	return e.Err
}
