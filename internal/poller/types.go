// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/armctl/internal/frame"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Name string
	Mode frame.Mode
	At   time.Time

	Values frame.Values
	Err    error // non-nil means the poll cycle failed
}
