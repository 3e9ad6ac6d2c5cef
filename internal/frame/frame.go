// internal/frame/frame.go
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Mode selects which register block a request targets.
type Mode uint8

const (
	ModePose Mode = iota + 1
	ModeJoint
)

func (m Mode) String() string {
	switch m {
	case ModePose:
		return "pose"
	case ModeJoint:
		return "joint"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ---- WIRE GEOMETRY (LOCKED) ----

const (
	// RequestSize is the fixed size of a read request ADU.
	RequestSize = 12

	// RegisterCount is the number of registers read per request.
	RegisterCount = 6

	// MinResponseSize is the shortest response carrying all registers:
	// MBAP(7) + FC(1) + ByteCount(1) + 6 registers.
	MinResponseSize = 21

	// registerOffset is where the first register starts in a response.
	registerOffset = 9

	transactionID uint16 = 0x0001
	protocolID    uint16 = 0x0000
	pduLength     uint16 = 0x0006

	// unit id 0 followed by FC 4 (read input registers)
	functionField uint16 = 0x0004
)

// Default register block addresses.
const (
	PoseAddress  uint16 = 0x0190
	JointAddress uint16 = 0x010e
)

// ---- SCALING ----

const (
	linearDivisor  = 10000.0 // 0.1mm per count
	angularDivisor = 1000.0  // 0.001rad per count
)

// DefaultJointOffsets corrects the sign/phase of the shoulder joint.
var DefaultJointOffsets = [RegisterCount]float64{0, -6.283, 0, 0, 0, 0}

var (
	ErrShortResponse = errors.New("frame: response too short")
	ErrUnknownMode   = errors.New("frame: unknown mode")
)

// Values is one decoded register block in physical units.
// Pose: [x, y, z, rx, ry, rz]. Joint: [base, shoulder, elbow, wrist1, wrist2, wrist3].
type Values [RegisterCount]float64

// Request is an immutable 12-byte Modbus-TCP read request.
type Request [RequestSize]byte

// Bytes returns a copy of the frame suitable for writing.
func (r Request) Bytes() []byte {
	b := make([]byte, RequestSize)
	copy(b, r[:])
	return b
}

// StartAddress returns the first register address the frame reads.
func (r Request) StartAddress() uint16 {
	return binary.BigEndian.Uint16(r[8:10])
}

// buildRequest lays out the MBAP header and the read PDU.
//
// MBAP:
//
//	TID(2) PID(2=0) LEN(2=6) UID(1=0)
//
// PDU:
//
//	FC(1=4) Address(2) Quantity(2=6)
func buildRequest(addr uint16) Request {
	var r Request
	binary.BigEndian.PutUint16(r[0:2], transactionID)
	binary.BigEndian.PutUint16(r[2:4], protocolID)
	binary.BigEndian.PutUint16(r[4:6], pduLength)
	binary.BigEndian.PutUint16(r[6:8], functionField)
	binary.BigEndian.PutUint16(r[8:10], addr)
	binary.BigEndian.PutUint16(r[10:12], RegisterCount)
	return r
}
