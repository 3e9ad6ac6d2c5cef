// internal/sim/arm.go
package sim

import (
	"sync"

	"github.com/tamzrod/armctl/internal/command"
	"github.com/tamzrod/armctl/internal/frame"
)

// Home positions the simulated arm starts at.
var (
	HomePose   = frame.Values{0.300, -0.100, 0.400, 0.000, 3.141, 0.000}
	HomeJoints = frame.Values{0.000, -1.571, 1.571, -1.571, -1.571, 0.000}
)

// Arm is the simulated arm state.
// Pose and joints are tracked independently: there is no kinematic model.
// Handler methods run on one goroutine per client, so all access is locked.
type Arm struct {
	mu sync.RWMutex

	pose, poseTarget     frame.Values
	joints, jointsTarget frame.Values

	linearStep  float64
	angularStep float64
}

// NewArm places the arm at home with no pending motion.
func NewArm(linearStep, angularStep float64) *Arm {
	return &Arm{
		pose:         HomePose,
		poseTarget:   HomePose,
		joints:       HomeJoints,
		jointsTarget: HomeJoints,
		linearStep:   linearStep,
		angularStep:  angularStep,
	}
}

// Apply sets the target of a parsed instruction.
func (a *Arm) Apply(cmd command.Command) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch cmd.Kind {
	case command.KindMoveL:
		a.poseTarget = cmd.Target
	case command.KindMoveJ:
		a.jointsTarget = cmd.Target
	}
}

// Step advances both states one tick toward their targets.
// It reports whether anything is still moving.
func (a *Arm) Step() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	moving := false
	for i := range a.pose {
		step := a.angularStep
		if i < 3 {
			step = a.linearStep
		}
		var m bool
		a.pose[i], m = approach(a.pose[i], a.poseTarget[i], step)
		moving = moving || m
	}
	for i := range a.joints {
		var m bool
		a.joints[i], m = approach(a.joints[i], a.jointsTarget[i], a.angularStep)
		moving = moving || m
	}
	return moving
}

// State returns the current reading for mode.
func (a *Arm) State(mode frame.Mode) frame.Values {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if mode == frame.ModeJoint {
		return a.joints
	}
	return a.pose
}

// Set teleports the arm (no motion) for mode.
func (a *Arm) Set(mode frame.Mode, v frame.Values) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if mode == frame.ModeJoint {
		a.joints, a.jointsTarget = v, v
		return
	}
	a.pose, a.poseTarget = v, v
}

// approach moves cur toward target by at most step.
// A zero step snaps straight to the target.
func approach(cur, target, step float64) (float64, bool) {
	d := target - cur
	switch {
	case d == 0:
		return cur, false
	case step <= 0 || (d <= step && d >= -step):
		return target, true
	case d > 0:
		return cur + step, true
	default:
		return cur - step, true
	}
}
