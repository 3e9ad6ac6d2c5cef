// internal/gripper/gripper.go
package gripper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/armctl/internal/transport"
)

// Registers is the part of a Modbus client the gripper uses.
type Registers interface {
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Both blocks are 3 registers (6 bytes).
//
// command: [action, 0, 0, position, speed, force]
// status:  [gripper, 0, fault, position echo, position, current]
const (
	blockRegisters = 3
	blockBytes     = 2 * blockRegisters

	actionActivate byte = 0x01
	actionGoTo     byte = 0x08

	activationComplete = 3
)

var (
	ErrShortStatus     = errors.New("gripper: status too short")
	ErrActivateTimeout = errors.New("gripper: activation timed out")
)

// Config is the immutable runtime config of a gripper.
type Config struct {
	Name string // used in errors and logs

	CommandAddress uint16
	StatusAddress  uint16

	OpenPosition   byte
	ClosedPosition byte

	// Activate polls status every PollInterval for at most ActivateTimeout.
	ActivateTimeout time.Duration
	PollInterval    time.Duration

	Logger zerolog.Logger
}

// Status is the decoded status block.
type Status struct {
	Activated  bool
	Moving     bool  // go-to requested
	Activation uint8 // 0 reset, 1 in progress, 3 complete
	Object     uint8 // 0 moving, 1/2 contact, 3 at requested position
	Fault      uint8
	Position   uint8
	Current    uint8
}

// Ready reports whether activation has completed.
func (s Status) Ready() bool { return s.Activation == activationComplete }

// Gripper drives a two-finger gripper over Modbus registers.
type Gripper struct {
	cfg  Config
	regs Registers
	log  zerolog.Logger
}

func New(regs Registers, cfg Config) (*Gripper, error) {
	if regs == nil {
		return nil, errors.New("gripper: registers required")
	}
	if cfg.ActivateTimeout <= 0 {
		return nil, errors.New("gripper: activate timeout must be > 0")
	}
	if cfg.PollInterval <= 0 {
		return nil, errors.New("gripper: poll interval must be > 0")
	}
	return &Gripper{
		cfg:  cfg,
		regs: regs,
		log:  cfg.Logger.With().Str("gripper", cfg.Name).Logger(),
	}, nil
}

// Activate resets the gripper, requests activation and waits until the
// status block reports it complete.
func (g *Gripper) Activate(ctx context.Context) error {
	if err := g.write(ctx, [blockBytes]byte{}); err != nil {
		return err
	}
	if err := g.write(ctx, [blockBytes]byte{actionActivate}); err != nil {
		return err
	}

	deadline := time.Now().Add(g.cfg.ActivateTimeout)
	ticker := time.NewTicker(g.cfg.PollInterval)
	defer ticker.Stop()

	for {
		st, err := g.Status(ctx)
		if err != nil {
			return err
		}
		if st.Ready() {
			g.log.Info().Msg("gripper activated")
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w after %s", ErrActivateTimeout, g.cfg.ActivateTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Open moves the fingers to the open position.
func (g *Gripper) Open(ctx context.Context, speed, force byte) error {
	return g.goTo(ctx, g.cfg.OpenPosition, speed, force)
}

// Close moves the fingers to the closed position. It stops early on contact.
func (g *Gripper) Close(ctx context.Context, speed, force byte) error {
	return g.goTo(ctx, g.cfg.ClosedPosition, speed, force)
}

func (g *Gripper) goTo(ctx context.Context, position, speed, force byte) error {
	block := [blockBytes]byte{actionActivate | actionGoTo, 0, 0, position, speed, force}
	if err := g.write(ctx, block); err != nil {
		return err
	}
	g.log.Info().
		Uint8("position", position).
		Uint8("speed", speed).
		Uint8("force", force).
		Msg("gripper move requested")
	return nil
}

// Status reads and decodes the status block.
func (g *Gripper) Status(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}

	raw, err := g.regs.ReadInputRegisters(g.cfg.StatusAddress, blockRegisters)
	if err != nil {
		return Status{}, transport.New(transport.KindRecv, g.cfg.Name, err)
	}
	if len(raw) < blockBytes {
		return Status{}, transport.New(transport.KindInvalidData, g.cfg.Name,
			fmt.Errorf("%w: got=%d want>=%d", ErrShortStatus, len(raw), blockBytes))
	}

	b := raw[0]
	return Status{
		Activated:  b&0x01 != 0,
		Moving:     b&0x08 != 0,
		Activation: (b >> 4) & 0x03,
		Object:     (b >> 6) & 0x03,
		Fault:      raw[2],
		Position:   raw[4],
		Current:    raw[5],
	}, nil
}

func (g *Gripper) write(ctx context.Context, block [blockBytes]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := g.regs.WriteMultipleRegisters(g.cfg.CommandAddress, blockRegisters, block[:]); err != nil {
		return transport.New(transport.KindSend, g.cfg.Name, err)
	}
	return nil
}
