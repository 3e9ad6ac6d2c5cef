// internal/motion/supervisor.go
package motion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/armctl/internal/command"
	"github.com/tamzrod/armctl/internal/frame"
	"github.com/tamzrod/armctl/internal/transport"
)

// Reader abstracts the state read channel.
type Reader interface {
	Read(ctx context.Context, mode frame.Mode) (frame.Values, error)
}

// Sender abstracts the real-time instruction channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Config is the immutable runtime config of a supervisor.
type Config struct {
	// Threshold is compared against the squared distance.
	Threshold float64

	// MaxPolls bounds the number of read attempts per move.
	MaxPolls int

	// PollInterval is slept between read attempts. Zero polls back to back.
	PollInterval time.Duration
}

// Supervisor sends one move instruction and blocks until the arm reports
// the target within tolerance, or the poll ceiling is hit.
// It holds no per-move state and may be used by concurrent callers.
type Supervisor struct {
	cfg    Config
	reader Reader
	sender Sender
	log    zerolog.Logger
}

func New(cfg Config, r Reader, s Sender, log zerolog.Logger) (*Supervisor, error) {
	if r == nil {
		return nil, errors.New("motion: reader required")
	}
	if s == nil {
		return nil, errors.New("motion: sender required")
	}
	if cfg.Threshold < 0 {
		return nil, errors.New("motion: threshold must be >= 0")
	}
	if cfg.MaxPolls <= 0 {
		return nil, errors.New("motion: max polls must be > 0")
	}
	if cfg.PollInterval < 0 {
		return nil, errors.New("motion: poll interval must be >= 0")
	}
	return &Supervisor{cfg: cfg, reader: r, sender: s, log: log}, nil
}

// MoveL moves the tool point to pose and waits for the pose to converge.
func (s *Supervisor) MoveL(ctx context.Context, pose frame.Values) Result {
	return s.move(ctx, command.Command{Kind: command.KindMoveL, Target: pose}, frame.ModePose)
}

// MoveJ moves to joint angles and waits for the joints to converge.
func (s *Supervisor) MoveJ(ctx context.Context, joints frame.Values) Result {
	return s.move(ctx, command.Command{Kind: command.KindMoveJ, Target: joints}, frame.ModeJoint)
}

func (s *Supervisor) move(ctx context.Context, cmd command.Command, mode frame.Mode) Result {
	log := s.log.With().Str("move", cmd.Kind.String()).Logger()
	res := Result{Target: cmd.Target}

	// --------------------
	// Commanding
	// --------------------

	text := cmd.String()
	if err := s.sender.Send(ctx, text); err != nil {
		res.Outcome = OutcomeCommandFailed
		res.Err = fmt.Errorf("%w: %w", ErrCommandFailed, err)
		log.Error().Err(err).Str("instruction", text).Msg("instruction not sent")
		return res
	}

	// --------------------
	// Polling
	// --------------------

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for res.Polls < s.cfg.MaxPolls {
		if res.Polls > 0 && s.cfg.PollInterval > 0 {
			if timer == nil {
				timer = time.NewTimer(s.cfg.PollInterval)
			} else {
				timer.Reset(s.cfg.PollInterval)
			}
			select {
			case <-ctx.Done():
				return s.cancelled(log, res, ctx.Err())
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return s.cancelled(log, res, err)
		}

		res.Polls++

		cur, err := s.reader.Read(ctx, mode)
		if err != nil {
			// transient: counts against the ceiling, never aborts
			log.Warn().Err(err).Stringer("kind", transport.KindOf(err)).Int("poll", res.Polls).Msg("state read failed")
			continue
		}

		d := Distance2(cur, cmd.Target)
		res.Last = cur
		res.Distance2 = d
		res.HaveReading = true

		log.Debug().Int("poll", res.Polls).Float64("distance2", d).Msg("poll")

		if d <= s.cfg.Threshold {
			res.Outcome = OutcomeConverged
			log.Info().Int("polls", res.Polls).Float64("distance2", d).Msg("move converged")
			return res
		}
	}

	res.Outcome = OutcomeTimedOut
	res.Err = fmt.Errorf("%w after %d polls", ErrTimedOut, res.Polls)
	log.Error().Int("polls", res.Polls).Float64("distance2", res.Distance2).Msg("move failed")
	return res
}

func (s *Supervisor) cancelled(log zerolog.Logger, res Result, err error) Result {
	res.Outcome = OutcomeCancelled
	res.Err = fmt.Errorf("motion: cancelled after %d polls: %w", res.Polls, err)
	log.Warn().Int("polls", res.Polls).Msg("move cancelled")
	return res
}
