// internal/frame/codec.go
package frame

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Layout is the register geometry of one arm controller.
type Layout struct {
	PoseAddress  uint16
	JointAddress uint16
	JointOffsets [RegisterCount]float64
}

// DefaultLayout returns the factory register map.
func DefaultLayout() Layout {
	return Layout{
		PoseAddress:  PoseAddress,
		JointAddress: JointAddress,
		JointOffsets: DefaultJointOffsets,
	}
}

// Codec builds request frames and decodes responses.
// It is immutable after construction and safe for concurrent use.
type Codec struct {
	layout Layout
	pose   Request
	joint  Request
}

// NewCodec builds both request frames once.
func NewCodec(l Layout) *Codec {
	return &Codec{
		layout: l,
		pose:   buildRequest(l.PoseAddress),
		joint:  buildRequest(l.JointAddress),
	}
}

// Layout returns the register geometry the codec was built with.
func (c *Codec) Layout() Layout { return c.layout }

// PoseRequest returns the frame reading the pose block.
func (c *Codec) PoseRequest() Request { return c.pose }

// JointRequest returns the frame reading the joint block.
func (c *Codec) JointRequest() Request { return c.joint }

// Request returns the frame for mode.
func (c *Codec) Request(mode Mode) (Request, error) {
	switch mode {
	case ModePose:
		return c.pose, nil
	case ModeJoint:
		return c.joint, nil
	default:
		return Request{}, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
}

// Decode converts a raw response into physical units.
// Only the length is checked: function code, transaction id and exception
// responses are not inspected, so any response of MinResponseSize bytes or
// more is accepted as register data.
func (c *Codec) Decode(buf []byte, mode Mode) (Values, error) {
	var out Values

	if mode != ModePose && mode != ModeJoint {
		return out, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
	if len(buf) < MinResponseSize {
		return out, fmt.Errorf("%w: got=%d want>=%d", ErrShortResponse, len(buf), MinResponseSize)
	}

	for i := 0; i < RegisterCount; i++ {
		at := registerOffset + 2*i
		raw := float64(int16(binary.BigEndian.Uint16(buf[at : at+2])))

		switch mode {
		case ModePose:
			if i < 3 {
				out[i] = raw / linearDivisor
			} else {
				out[i] = raw / angularDivisor
			}
		case ModeJoint:
			out[i] = raw/angularDivisor + c.layout.JointOffsets[i]
		}
	}

	return out, nil
}

// Encode is the inverse of Decode: it maps physical values back to raw
// register words, rounding to the nearest count and saturating at int16.
func (c *Codec) Encode(mode Mode, v Values) ([RegisterCount]uint16, error) {
	var regs [RegisterCount]uint16

	for i := 0; i < RegisterCount; i++ {
		var scaled float64
		switch mode {
		case ModePose:
			if i < 3 {
				scaled = v[i] * linearDivisor
			} else {
				scaled = v[i] * angularDivisor
			}
		case ModeJoint:
			scaled = (v[i] - c.layout.JointOffsets[i]) * angularDivisor
		default:
			return regs, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
		}
		regs[i] = uint16(saturate(scaled))
	}

	return regs, nil
}

func saturate(f float64) int16 {
	r := math.Round(f)
	switch {
	case math.IsNaN(r):
		return 0
	case r > math.MaxInt16:
		return math.MaxInt16
	case r < math.MinInt16:
		return math.MinInt16
	}
	return int16(r)
}
