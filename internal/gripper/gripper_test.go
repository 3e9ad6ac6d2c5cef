// internal/gripper/gripper_test.go
package gripper

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/armctl/internal/transport"
)

// ---- fakes ----

type write struct {
	addr  uint16
	qty   uint16
	value []byte
}

// fakeRegisters records writes and replays status blocks; once exhausted
// it repeats the last one.
type fakeRegisters struct {
	writes   []write
	statuses [][]byte
	reads    int

	writeErr error
	readErr  error
}

func (f *fakeRegisters) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	f.writes = append(f.writes, write{address, quantity, append([]byte(nil), value...)})
	return nil, f.writeErr
}

func (f *fakeRegisters) ReadInputRegisters(address, quantity uint16) ([]byte, error) {
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	i := f.reads - 1
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	return f.statuses[i], nil
}

func testConfig() Config {
	return Config{
		Name:            "test",
		CommandAddress:  1000,
		StatusAddress:   2000,
		OpenPosition:    0,
		ClosedPosition:  255,
		ActivateTimeout: time.Second,
		PollInterval:    time.Millisecond,
	}
}

func newGripper(t *testing.T, regs Registers) *Gripper {
	t.Helper()
	g, err := New(regs, testConfig())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return g
}

var (
	statusReset      = []byte{0x00, 0, 0, 0, 0, 0}
	statusActivating = []byte{0x11, 0, 0, 0, 0, 0}
	statusReady      = []byte{0x31, 0, 0, 0, 3, 0}
)

// ---- tests ----

func TestActivate_ResetsThenActivatesAndWaits(t *testing.T) {
	regs := &fakeRegisters{statuses: [][]byte{statusReset, statusActivating, statusReady}}
	g := newGripper(t, regs)

	if err := g.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() err=%v", err)
	}

	if len(regs.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(regs.writes))
	}
	if !bytes.Equal(regs.writes[0].value, []byte{0, 0, 0, 0, 0, 0}) {
		t.Fatalf("first write must reset, got % x", regs.writes[0].value)
	}
	if !bytes.Equal(regs.writes[1].value, []byte{0x01, 0, 0, 0, 0, 0}) {
		t.Fatalf("second write must activate, got % x", regs.writes[1].value)
	}
	for _, w := range regs.writes {
		if w.addr != 1000 || w.qty != 3 {
			t.Fatalf("unexpected write target addr=%d qty=%d", w.addr, w.qty)
		}
	}
	if regs.reads != 3 {
		t.Fatalf("expected 3 status reads, got %d", regs.reads)
	}
}

func TestActivate_TimesOut(t *testing.T) {
	regs := &fakeRegisters{statuses: [][]byte{statusActivating}}
	cfg := testConfig()
	cfg.ActivateTimeout = 20 * time.Millisecond

	g, err := New(regs, cfg)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	if err := g.Activate(context.Background()); !errors.Is(err, ErrActivateTimeout) {
		t.Fatalf("expected ErrActivateTimeout, got %v", err)
	}
}

func TestActivate_Cancelled(t *testing.T) {
	regs := &fakeRegisters{statuses: [][]byte{statusActivating}}
	g := newGripper(t, regs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Activate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(regs.writes) != 0 {
		t.Fatalf("expected no writes after cancel, got %d", len(regs.writes))
	}
}

func TestOpenClose_Payload(t *testing.T) {
	regs := &fakeRegisters{}
	g := newGripper(t, regs)

	if err := g.Close(context.Background(), 40, 20); err != nil {
		t.Fatalf("Close() err=%v", err)
	}
	if err := g.Open(context.Background(), 40, 20); err != nil {
		t.Fatalf("Open() err=%v", err)
	}

	want := [][]byte{
		{0x09, 0, 0, 255, 40, 20},
		{0x09, 0, 0, 0, 40, 20},
	}
	for i, w := range want {
		if !bytes.Equal(regs.writes[i].value, w) {
			t.Fatalf("write %d: got=% x want=% x", i, regs.writes[i].value, w)
		}
	}
}

func TestWrite_SendError(t *testing.T) {
	regs := &fakeRegisters{writeErr: errors.New("crc mismatch")}
	g := newGripper(t, regs)

	err := g.Open(context.Background(), 1, 1)
	if !errors.Is(err, transport.ErrSend) {
		t.Fatalf("expected ErrSend, got %v", err)
	}
}

func TestStatus_Decode(t *testing.T) {
	regs := &fakeRegisters{statuses: [][]byte{{0xF9, 0, 0x05, 0xFF, 0xE0, 0x12}}}
	g := newGripper(t, regs)

	st, err := g.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() err=%v", err)
	}
	want := Status{
		Activated:  true,
		Moving:     true,
		Activation: 3,
		Object:     3,
		Fault:      0x05,
		Position:   0xE0,
		Current:    0x12,
	}
	if st != want {
		t.Fatalf("got=%+v want=%+v", st, want)
	}
	if !st.Ready() {
		t.Fatalf("expected ready")
	}
}

func TestStatus_Errors(t *testing.T) {
	g := newGripper(t, &fakeRegisters{readErr: errors.New("timeout")})
	if _, err := g.Status(context.Background()); !errors.Is(err, transport.ErrRecv) {
		t.Fatalf("expected ErrRecv, got %v", err)
	}

	g = newGripper(t, &fakeRegisters{statuses: [][]byte{{0x31, 0}}})
	_, err := g.Status(context.Background())
	if !errors.Is(err, transport.ErrInvalidData) || !errors.Is(err, ErrShortStatus) {
		t.Fatalf("expected invalid data / short status, got %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, testConfig()); err == nil {
		t.Fatalf("expected error for nil registers")
	}

	cfg := testConfig()
	cfg.ActivateTimeout = 0
	if _, err := New(&fakeRegisters{}, cfg); err == nil {
		t.Fatalf("expected error for zero activate timeout")
	}

	cfg = testConfig()
	cfg.PollInterval = 0
	if _, err := New(&fakeRegisters{}, cfg); err == nil {
		t.Fatalf("expected error for zero poll interval")
	}
}

func TestOpenPort_MissingDevice(t *testing.T) {
	_, err := OpenPort(SerialConfig{
		Device:   "/nonexistent/ttyARMCTL0",
		BaudRate: 115200,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		SlaveID:  9,
		Timeout:  100 * time.Millisecond,
	})
	if !errors.Is(err, transport.ErrConnect) {
		t.Fatalf("expected ErrConnect, got %v", err)
	}

	if _, err := OpenPort(SerialConfig{}); err == nil {
		t.Fatalf("expected error for empty device")
	}
}
