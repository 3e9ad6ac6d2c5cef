// internal/sim/modbus.go
package sim

import (
	"github.com/simonvetter/modbus"

	"github.com/tamzrod/armctl/internal/frame"
)

// registerHandler serves the arm state as input registers.
// Only FC 4 on the pose and joint blocks is supported.
type registerHandler struct {
	arm   *Arm
	codec *frame.Codec
}

func (h *registerHandler) HandleCoils(*modbus.CoilsRequest) ([]bool, error) {
	return nil, modbus.ErrIllegalFunction
}

func (h *registerHandler) HandleDiscreteInputs(*modbus.DiscreteInputsRequest) ([]bool, error) {
	return nil, modbus.ErrIllegalFunction
}

func (h *registerHandler) HandleHoldingRegisters(*modbus.HoldingRegistersRequest) ([]uint16, error) {
	return nil, modbus.ErrIllegalFunction
}

func (h *registerHandler) HandleInputRegisters(req *modbus.InputRegistersRequest) ([]uint16, error) {
	l := h.codec.Layout()

	pose, err := h.codec.Encode(frame.ModePose, h.arm.State(frame.ModePose))
	if err != nil {
		return nil, modbus.ErrServerDeviceFailure
	}
	joints, err := h.codec.Encode(frame.ModeJoint, h.arm.State(frame.ModeJoint))
	if err != nil {
		return nil, modbus.ErrServerDeviceFailure
	}

	res := make([]uint16, 0, req.Quantity)
	for i := uint32(0); i < uint32(req.Quantity); i++ {
		addr := uint32(req.Addr) + i

		switch {
		case inBlock(addr, l.PoseAddress):
			res = append(res, pose[addr-uint32(l.PoseAddress)])
		case inBlock(addr, l.JointAddress):
			res = append(res, joints[addr-uint32(l.JointAddress)])
		default:
			return nil, modbus.ErrIllegalDataAddress
		}
	}
	return res, nil
}

func inBlock(addr uint32, start uint16) bool {
	return addr >= uint32(start) && addr < uint32(start)+frame.RegisterCount
}
