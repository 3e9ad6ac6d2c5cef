// cmd/armctl/build.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/armctl/internal/command"
	"github.com/tamzrod/armctl/internal/config"
	"github.com/tamzrod/armctl/internal/frame"
	"github.com/tamzrod/armctl/internal/gripper"
	"github.com/tamzrod/armctl/internal/logging"
	"github.com/tamzrod/armctl/internal/motion"
	"github.com/tamzrod/armctl/internal/reader"
	"github.com/tamzrod/armctl/internal/sim"
)

// app is everything a subcommand needs, built once per invocation.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	codec *frame.Codec
}

// buildApp loads, validates and normalizes config, then builds the
// logger and the shared codec.
func buildApp(flags *globalFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, os.Stderr)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		log:   log,
		codec: frame.NewCodec(cfg.Arm.Registers.Layout()),
	}, nil
}

func (a *app) reader() (*reader.Client, error) {
	return reader.New(reader.Config{
		Endpoint: a.cfg.Arm.Modbus.Endpoint,
		Timeout:  a.cfg.Arm.Modbus.Timeout(),
		Codec:    a.codec,
		Logger:   a.log.With().Str("channel", "modbus").Logger(),
	})
}

func (a *app) commander() (*command.Client, error) {
	return command.New(command.Config{
		Endpoint: a.cfg.Arm.Realtime.Endpoint,
		Timeout:  a.cfg.Arm.Realtime.Timeout(),
		Logger:   a.log.With().Str("channel", "realtime").Logger(),
	})
}

func (a *app) supervisor() (*motion.Supervisor, error) {
	r, err := a.reader()
	if err != nil {
		return nil, err
	}
	c, err := a.commander()
	if err != nil {
		return nil, err
	}

	m := a.cfg.Arm.Motion
	return motion.New(motion.Config{
		Threshold:    *m.Threshold,
		MaxPolls:     m.MaxPolls,
		PollInterval: m.PollInterval(),
	}, r, c, a.log)
}

// gripper opens the serial link; the caller closes the returned port.
func (a *app) gripper() (*gripper.Gripper, *gripper.Port, error) {
	g := a.cfg.Gripper
	log := a.log.With().Str("channel", "gripper").Logger()

	port, err := gripper.OpenPort(gripper.SerialConfig{
		Device:   g.Device,
		BaudRate: g.BaudRate,
		DataBits: g.DataBits,
		StopBits: g.StopBits,
		Parity:   g.Parity,
		SlaveID:  *g.SlaveID,
		Timeout:  time.Duration(g.TimeoutMs) * time.Millisecond,
		Logger:   log,
	})
	if err != nil {
		return nil, nil, err
	}

	gr, err := gripper.New(port.Registers(), gripper.Config{
		Name:            port.Device(),
		CommandAddress:  *g.CommandAddress,
		StatusAddress:   *g.StatusAddress,
		OpenPosition:    *g.OpenPosition,
		ClosedPosition:  *g.ClosedPosition,
		ActivateTimeout: time.Duration(g.ActivateTimeoutMs) * time.Millisecond,
		PollInterval:    time.Duration(g.PollIntervalMs) * time.Millisecond,
		Logger:          log,
	})
	if err != nil {
		_ = port.Close()
		return nil, nil, err
	}
	return gr, port, nil
}

func (a *app) simulator() (*sim.Simulator, error) {
	s := a.cfg.Sim
	return sim.New(sim.Config{
		ModbusListen:   s.ModbusListen,
		RealtimeListen: s.RealtimeListen,
		Tick:           time.Duration(s.TickMs) * time.Millisecond,
		LinearStep:     s.LinearStep,
		AngularStep:    s.AngularStep,
		Codec:          a.codec,
		Logger:         a.log.With().Str("component", "sim").Logger(),
	})
}
