// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/tamzrod/armctl/internal/frame"
)

// Reader abstracts the arm state read channel.
type Reader interface {
	Read(ctx context.Context, mode frame.Mode) (frame.Values, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Name     string
	Mode     frame.Mode
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg    Config
	reader Reader
}

// New creates a poller with immutable config.
func New(cfg Config, r Reader) (*Poller, error) {
	if cfg.Name == "" {
		return nil, errors.New("poller: name required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.Mode != frame.ModePose && cfg.Mode != frame.ModeJoint {
		return nil, errors.New("poller: mode must be pose or joint")
	}
	if r == nil {
		return nil, errors.New("poller: reader required")
	}
	return &Poller{cfg: cfg, reader: r}, nil
}

// PollOnce performs exactly one read.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{
		Name: p.cfg.Name,
		Mode: p.cfg.Mode,
		At:   time.Now(),
	}

	v, err := p.reader.Read(ctx, p.cfg.Mode)
	if err != nil {
		res.Err = err
		return res
	}

	res.Values = v
	return res
}
