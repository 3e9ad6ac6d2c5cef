// internal/motion/types.go
package motion

import (
	"errors"

	"github.com/tamzrod/armctl/internal/frame"
)

// Outcome is the terminal state of one supervised move.
type Outcome uint8

const (
	OutcomeUnknown Outcome = iota
	OutcomeConverged
	OutcomeCommandFailed
	OutcomeTimedOut
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverged:
		return "converged"
	case OutcomeCommandFailed:
		return "command_failed"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	ErrCommandFailed = errors.New("motion: command failed")
	ErrTimedOut      = errors.New("motion: timed out")
)

// Result is produced by one move.
type Result struct {
	Outcome Outcome
	Target  frame.Values

	// Polls counts read attempts, failed ones included.
	Polls int

	// Last successful reading and its squared distance to Target.
	// Only meaningful when HaveReading is set.
	Last        frame.Values
	Distance2   float64
	HaveReading bool

	Err error // nil only when Outcome is OutcomeConverged
}

// OK reports whether the arm reached the target.
func (r Result) OK() bool { return r.Outcome == OutcomeConverged }

// Distance2 is the squared Euclidean distance between a and b.
func Distance2(a, b frame.Values) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
