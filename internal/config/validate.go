// internal/config/validate.go
package config

import (
	"fmt"
	"net"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// ENDPOINTS
	// ------------------------------------------------------------

	for name, ep := range map[string]EndpointConfig{
		"arm.modbus":   cfg.Arm.Modbus,
		"arm.realtime": cfg.Arm.Realtime,
	} {
		if ep.Endpoint != "" {
			if _, _, err := net.SplitHostPort(ep.Endpoint); err != nil {
				return fmt.Errorf("%s: endpoint %q must be host:port: %v", name, ep.Endpoint, err)
			}
		}
		if ep.TimeoutMs != nil && *ep.TimeoutMs < 0 {
			return fmt.Errorf("%s: timeout_ms must be >= 0", name)
		}
	}

	// ------------------------------------------------------------
	// REGISTER MAP
	// ------------------------------------------------------------

	r := cfg.Arm.Registers
	if r.JointOffsets != nil && len(r.JointOffsets) != 6 {
		return fmt.Errorf("arm.registers: joint_offsets must have 6 values, got %d", len(r.JointOffsets))
	}
	if r.PoseAddress != nil && r.JointAddress != nil {
		// each block spans 6 registers
		p, j := int(*r.PoseAddress), int(*r.JointAddress)
		if p < j+6 && j < p+6 {
			return fmt.Errorf("arm.registers: pose block %d-%d overlaps joint block %d-%d", p, p+5, j, j+5)
		}
	}

	// ------------------------------------------------------------
	// MOTION
	// ------------------------------------------------------------

	m := cfg.Arm.Motion
	if m.Threshold != nil && *m.Threshold < 0 {
		return fmt.Errorf("arm.motion: threshold must be >= 0")
	}
	if m.MaxPolls < 0 {
		return fmt.Errorf("arm.motion: max_polls must be >= 0")
	}
	if m.PollIntervalMs != nil && *m.PollIntervalMs < 0 {
		return fmt.Errorf("arm.motion: poll_interval_ms must be >= 0")
	}

	if cfg.Arm.Watch.IntervalMs < 0 {
		return fmt.Errorf("arm.watch: interval_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// GRIPPER
	// ------------------------------------------------------------

	g := cfg.Gripper
	if g.BaudRate < 0 {
		return fmt.Errorf("gripper: baud_rate must be >= 0")
	}
	if g.DataBits != 0 && (g.DataBits < 5 || g.DataBits > 8) {
		return fmt.Errorf("gripper: data_bits must be 5..8")
	}
	if g.StopBits != 0 && g.StopBits != 1 && g.StopBits != 2 {
		return fmt.Errorf("gripper: stop_bits must be 1 or 2")
	}
	switch g.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("gripper: unknown parity %q", g.Parity)
	}
	if g.TimeoutMs < 0 || g.ActivateTimeoutMs < 0 || g.PollIntervalMs < 0 {
		return fmt.Errorf("gripper: timeouts must be >= 0")
	}
	if g.CommandAddress != nil && g.StatusAddress != nil {
		// each block spans 3 registers
		c, s := int(*g.CommandAddress), int(*g.StatusAddress)
		if c < s+3 && s < c+3 {
			return fmt.Errorf("gripper: command block %d-%d overlaps status block %d-%d", c, c+2, s, s+2)
		}
	}

	// ------------------------------------------------------------
	// SIMULATOR
	// ------------------------------------------------------------

	s := cfg.Sim
	if s.TickMs < 0 {
		return fmt.Errorf("sim: tick_ms must be >= 0")
	}
	if s.LinearStep < 0 || s.AngularStep < 0 {
		return fmt.Errorf("sim: steps must be >= 0")
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	switch cfg.Log.Level {
	case "", "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log: unknown format %q", cfg.Log.Format)
	}

	return nil
}
