// internal/sim/sim.go
package sim

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"github.com/simonvetter/modbus"

	"github.com/tamzrod/armctl/internal/frame"
)

// Config is the simulator runtime config.
type Config struct {
	ModbusListen   string // host:port
	RealtimeListen string // host:port
	Tick           time.Duration
	LinearStep     float64
	AngularStep    float64
	Codec          *frame.Codec
	Logger         zerolog.Logger
}

// Simulator is a stand-in arm controller: a Modbus server exposing the
// pose and joint blocks plus a real-time instruction listener.
type Simulator struct {
	cfg Config
	arm *Arm
	log zerolog.Logger

	server   *modbus.ModbusServer
	realtime *realtimeListener
}

func New(cfg Config) (*Simulator, error) {
	if cfg.ModbusListen == "" || cfg.RealtimeListen == "" {
		return nil, errors.New("sim: listen addresses required")
	}
	if cfg.Tick <= 0 {
		return nil, errors.New("sim: tick must be > 0")
	}
	if cfg.Codec == nil {
		cfg.Codec = frame.NewCodec(frame.DefaultLayout())
	}

	arm := NewArm(cfg.LinearStep, cfg.AngularStep)

	server, err := modbus.NewServer(&modbus.ServerConfiguration{
		URL:        "tcp://" + cfg.ModbusListen,
		Timeout:    30 * time.Second,
		MaxClients: 64,
	}, &registerHandler{arm: arm, codec: cfg.Codec})
	if err != nil {
		return nil, fmt.Errorf("sim: modbus server: %w", err)
	}

	return &Simulator{
		cfg:    cfg,
		arm:    arm,
		log:    cfg.Logger,
		server: server,
	}, nil
}

// Arm exposes the simulated state.
func (s *Simulator) Arm() *Arm { return s.arm }

// RealtimeAddr returns the bound instruction listener address.
func (s *Simulator) RealtimeAddr() string {
	if s.realtime == nil {
		return ""
	}
	return s.realtime.ln.Addr().String()
}

// Start binds both listeners.
func (s *Simulator) Start() error {
	if err := s.server.Start(); err != nil {
		return fmt.Errorf("sim: modbus listen %s: %w", s.cfg.ModbusListen, err)
	}

	ln, err := net.Listen("tcp", s.cfg.RealtimeListen)
	if err != nil {
		_ = s.server.Stop()
		return fmt.Errorf("sim: realtime listen %s: %w", s.cfg.RealtimeListen, err)
	}
	s.realtime = &realtimeListener{ln: ln, arm: s.arm, log: s.log}
	s.realtime.wg.Add(1)
	go s.realtime.serve()

	s.log.Info().
		Str("modbus", s.cfg.ModbusListen).
		Str("realtime", s.RealtimeAddr()).
		Msg("simulator listening")
	return nil
}

// Run drives motion until ctx is done. Call after Start.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	moving := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m := s.arm.Step()
			if m != moving {
				s.log.Debug().Bool("moving", m).Msg("motion state changed")
				moving = m
			}
		}
	}
}

// Stop closes both listeners and all sessions.
func (s *Simulator) Stop() error {
	var errs []error
	if err := s.server.Stop(); err != nil {
		errs = append(errs, err)
	}
	if s.realtime != nil {
		if err := s.realtime.close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
		s.realtime = nil
	}
	return errors.Join(errs...)
}
