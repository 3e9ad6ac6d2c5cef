// internal/config/config.go
package config

type Config struct {
	Arm     ArmConfig     `yaml:"arm"`
	Gripper GripperConfig `yaml:"gripper"`
	Sim     SimConfig     `yaml:"sim"`
	Log     LogConfig     `yaml:"log"`
}

type ArmConfig struct {
	Modbus    EndpointConfig  `yaml:"modbus"`
	Realtime  EndpointConfig  `yaml:"realtime"`
	Registers RegistersConfig `yaml:"registers"`
	Motion    MotionConfig    `yaml:"motion"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ---- ENDPOINTS ----

type EndpointConfig struct {
	Endpoint string `yaml:"endpoint"`

	// Per-operation socket deadline. 0 = no deadline.
	TimeoutMs *int `yaml:"timeout_ms"`
}

// ---- REGISTER MAP ----

type RegistersConfig struct {
	PoseAddress  *uint16   `yaml:"pose_address"`
	JointAddress *uint16   `yaml:"joint_address"`
	JointOffsets []float64 `yaml:"joint_offsets"` // exactly 6 when set
}

// ---- MOTION ----

type MotionConfig struct {
	Threshold      *float64 `yaml:"threshold"` // squared distance
	MaxPolls       int      `yaml:"max_polls"`
	PollIntervalMs *int     `yaml:"poll_interval_ms"`
}

// ---- WATCH ----

type WatchConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- GRIPPER ----

// GripperConfig is the wrist gripper on its Modbus RTU serial link.
type GripperConfig struct {
	Device    string `yaml:"device"`
	BaudRate  int    `yaml:"baud_rate"`
	DataBits  int    `yaml:"data_bits"`
	StopBits  int    `yaml:"stop_bits"`
	Parity    string `yaml:"parity"` // N | E | O
	SlaveID   *uint8 `yaml:"slave_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	CommandAddress *uint16 `yaml:"command_address"`
	StatusAddress  *uint16 `yaml:"status_address"`
	OpenPosition   *uint8  `yaml:"open_position"`
	ClosedPosition *uint8  `yaml:"closed_position"`

	Speed *uint8 `yaml:"speed"`
	Force *uint8 `yaml:"force"`

	ActivateTimeoutMs int `yaml:"activate_timeout_ms"`
	PollIntervalMs    int `yaml:"poll_interval_ms"`
}

// ---- SIMULATOR ----

type SimConfig struct {
	ModbusListen   string  `yaml:"modbus_listen"`
	RealtimeListen string  `yaml:"realtime_listen"`
	TickMs         int     `yaml:"tick_ms"`
	LinearStep     float64 `yaml:"linear_step"`  // per tick, meters
	AngularStep    float64 `yaml:"angular_step"` // per tick, radians
}

// ---- LOGGING ----

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}
