// internal/config/normalize.go
package config

import (
	"time"

	"github.com/tamzrod/armctl/internal/frame"
)

// Defaults point at a local simulator (see `armctl sim`).
const (
	DefaultModbusEndpoint   = "127.0.0.1:5502"
	DefaultRealtimeEndpoint = "127.0.0.1:30003"
	DefaultTimeoutMs        = 2000

	DefaultThreshold      = 1e-4
	DefaultMaxPolls       = 10000
	DefaultPollIntervalMs = 10

	DefaultWatchIntervalMs = 500

	DefaultGripperDevice            = "/dev/ttyUSB0"
	DefaultGripperBaudRate          = 115200
	DefaultGripperDataBits          = 8
	DefaultGripperStopBits          = 1
	DefaultGripperParity            = "N"
	DefaultGripperSlaveID           = 9
	DefaultGripperTimeoutMs         = 1000
	DefaultGripperCommandAddress    = 0x03E8
	DefaultGripperStatusAddress     = 0x07D0
	DefaultGripperOpenPosition      = 0
	DefaultGripperClosedPosition    = 255
	DefaultGripperSpeed             = 40
	DefaultGripperForce             = 20
	DefaultGripperActivateTimeoutMs = 5000
	DefaultGripperPollIntervalMs    = 100

	DefaultSimTickMs      = 20
	DefaultSimLinearStep  = 0.002
	DefaultSimAngularStep = 0.01

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	a := &cfg.Arm

	if a.Modbus.Endpoint == "" {
		a.Modbus.Endpoint = DefaultModbusEndpoint
	}
	if a.Realtime.Endpoint == "" {
		a.Realtime.Endpoint = DefaultRealtimeEndpoint
	}
	if a.Modbus.TimeoutMs == nil {
		a.Modbus.TimeoutMs = intPtr(DefaultTimeoutMs)
	}
	if a.Realtime.TimeoutMs == nil {
		a.Realtime.TimeoutMs = intPtr(DefaultTimeoutMs)
	}

	if a.Motion.Threshold == nil {
		t := DefaultThreshold
		a.Motion.Threshold = &t
	}
	if a.Motion.MaxPolls == 0 {
		a.Motion.MaxPolls = DefaultMaxPolls
	}
	if a.Motion.PollIntervalMs == nil {
		a.Motion.PollIntervalMs = intPtr(DefaultPollIntervalMs)
	}

	if a.Watch.IntervalMs == 0 {
		a.Watch.IntervalMs = DefaultWatchIntervalMs
	}

	g := &cfg.Gripper
	if g.Device == "" {
		g.Device = DefaultGripperDevice
	}
	if g.BaudRate == 0 {
		g.BaudRate = DefaultGripperBaudRate
	}
	if g.DataBits == 0 {
		g.DataBits = DefaultGripperDataBits
	}
	if g.StopBits == 0 {
		g.StopBits = DefaultGripperStopBits
	}
	if g.Parity == "" {
		g.Parity = DefaultGripperParity
	}
	if g.SlaveID == nil {
		g.SlaveID = uint8Ptr(DefaultGripperSlaveID)
	}
	if g.TimeoutMs == 0 {
		g.TimeoutMs = DefaultGripperTimeoutMs
	}
	if g.CommandAddress == nil {
		g.CommandAddress = uint16Ptr(DefaultGripperCommandAddress)
	}
	if g.StatusAddress == nil {
		g.StatusAddress = uint16Ptr(DefaultGripperStatusAddress)
	}
	if g.OpenPosition == nil {
		g.OpenPosition = uint8Ptr(DefaultGripperOpenPosition)
	}
	if g.ClosedPosition == nil {
		g.ClosedPosition = uint8Ptr(DefaultGripperClosedPosition)
	}
	if g.Speed == nil {
		g.Speed = uint8Ptr(DefaultGripperSpeed)
	}
	if g.Force == nil {
		g.Force = uint8Ptr(DefaultGripperForce)
	}
	if g.ActivateTimeoutMs == 0 {
		g.ActivateTimeoutMs = DefaultGripperActivateTimeoutMs
	}
	if g.PollIntervalMs == 0 {
		g.PollIntervalMs = DefaultGripperPollIntervalMs
	}

	s := &cfg.Sim
	if s.ModbusListen == "" {
		s.ModbusListen = DefaultModbusEndpoint
	}
	if s.RealtimeListen == "" {
		s.RealtimeListen = DefaultRealtimeEndpoint
	}
	if s.TickMs == 0 {
		s.TickMs = DefaultSimTickMs
	}
	if s.LinearStep == 0 {
		s.LinearStep = DefaultSimLinearStep
	}
	if s.AngularStep == 0 {
		s.AngularStep = DefaultSimAngularStep
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Layout builds the codec register map. Unset fields keep factory values.
func (r RegistersConfig) Layout() frame.Layout {
	l := frame.DefaultLayout()
	if r.PoseAddress != nil {
		l.PoseAddress = *r.PoseAddress
	}
	if r.JointAddress != nil {
		l.JointAddress = *r.JointAddress
	}
	if len(r.JointOffsets) == len(l.JointOffsets) {
		copy(l.JointOffsets[:], r.JointOffsets)
	}
	return l
}

// Timeout converts timeout_ms; call after Normalize.
func (e EndpointConfig) Timeout() time.Duration {
	if e.TimeoutMs == nil {
		return 0
	}
	return time.Duration(*e.TimeoutMs) * time.Millisecond
}

// PollInterval converts poll_interval_ms; call after Normalize.
func (m MotionConfig) PollInterval() time.Duration {
	if m.PollIntervalMs == nil {
		return 0
	}
	return time.Duration(*m.PollIntervalMs) * time.Millisecond
}

func intPtr(v int) *int { return &v }
func uint8Ptr(v uint8) *uint8 { return &v }
func uint16Ptr(v uint16) *uint16 { return &v }
