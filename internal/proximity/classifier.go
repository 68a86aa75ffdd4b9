// Package proximity classifies the detected hand position against a
// fixed vertical boundary. It is pure Go with no OpenCV dependency so
// the classification policy can be tested anywhere.
package proximity

// State is the proximity classification for a single frame.
type State string

const (
	// StateNone means no hand was detected in the frame.
	StateNone State = "NONE"
	// StateSafe means the hand is farther than the safe cutoff.
	StateSafe State = "SAFE"
	// StateWarning means the hand is between the warning and safe cutoffs.
	StateWarning State = "WARNING"
	// StateDanger means the hand is at or inside the warning cutoff.
	StateDanger State = "DANGER"
)

// Result is the outcome of classifying one frame.
type Result struct {
	State State
	// Distance is the horizontal pixel distance between the centroid
	// and the boundary. It is meaningful only when State is not
	// StateNone.
	Distance int
}

// Classifier maps centroid positions to proximity states. It is
// stateless: every frame is classified from scratch with no memory of
// prior results, so the same input always yields the same output.
type Classifier struct {
	boundaryX int
	safe      int
	warning   int
}

// New creates a Classifier for the given boundary position and distance
// cutoffs (in pixels). Cutoff semantics: distance > safe is SAFE,
// warning < distance <= safe is WARNING, distance <= warning is DANGER.
// Both exact cutoff values resolve to the more cautious band.
func New(boundaryX, safe, warning int) *Classifier {
	return &Classifier{
		boundaryX: boundaryX,
		safe:      safe,
		warning:   warning,
	}
}

// Classify returns the state for a centroid at the given x coordinate.
// found reports whether a centroid exists at all; when it is false the
// result is StateNone and the distance is zero by convention, never a
// fabricated measurement.
func (c *Classifier) Classify(centroidX int, found bool) Result {
	if !found {
		return Result{State: StateNone}
	}

	d := centroidX - c.boundaryX
	if d < 0 {
		d = -d
	}

	switch {
	case d > c.safe:
		return Result{State: StateSafe, Distance: d}
	case d > c.warning:
		return Result{State: StateWarning, Distance: d}
	default:
		return Result{State: StateDanger, Distance: d}
	}
}

// BoundaryX returns the boundary position the classifier measures against.
func (c *Classifier) BoundaryX() int {
	return c.boundaryX
}
