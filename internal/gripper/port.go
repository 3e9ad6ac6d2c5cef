// internal/gripper/port.go
package gripper

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/goburrow/modbus"
	"github.com/rs/zerolog"

	"github.com/tamzrod/armctl/internal/transport"
)

// SerialConfig is the RTU link to the gripper.
type SerialConfig struct {
	Device   string // e.g. /dev/ttyUSB0
	BaudRate int
	DataBits int
	StopBits int
	Parity   string // N | E | O
	SlaveID  byte
	Timeout  time.Duration
	Logger   zerolog.Logger
}

// Port is an open serial link. The handler serializes transactions.
type Port struct {
	device  string
	handler *modbus.RTUClientHandler
	client  modbus.Client
}

// OpenPort opens the serial device.
func OpenPort(cfg SerialConfig) (*Port, error) {
	if cfg.Device == "" {
		return nil, errors.New("gripper: device required")
	}

	h := modbus.NewRTUClientHandler(cfg.Device)
	h.BaudRate = cfg.BaudRate
	h.DataBits = cfg.DataBits
	h.StopBits = cfg.StopBits
	h.Parity = cfg.Parity
	h.SlaveId = cfg.SlaveID
	h.Timeout = cfg.Timeout
	if cfg.Logger.GetLevel() <= zerolog.DebugLevel {
		h.Logger = log.New(debugWriter{cfg.Logger}, "", 0)
	}

	if err := h.Connect(); err != nil {
		return nil, transport.New(transport.KindConnect, cfg.Device, err)
	}

	return &Port{
		device:  cfg.Device,
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Registers exposes the register access of the link.
func (p *Port) Registers() Registers { return p.client }

// Device is the serial device path.
func (p *Port) Device() string { return p.device }

func (p *Port) Close() error { return p.handler.Close() }

type debugWriter struct {
	l zerolog.Logger
}

func (w debugWriter) Write(p []byte) (int, error) {
	w.l.Debug().Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}
