// internal/motion/supervisor_test.go
package motion

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/armctl/internal/frame"
	"github.com/tamzrod/armctl/internal/transport"
)

// ---- fakes ----

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, text string) error {
	f.sent = append(f.sent, text)
	return f.err
}

// fakeReader replays readings; once exhausted it repeats the last one.
// A nil readings slice always fails with err.
type fakeReader struct {
	readings []frame.Values
	err      error
	calls    int
	modes    []frame.Mode
	onRead   func(call int)
}

func (f *fakeReader) Read(_ context.Context, mode frame.Mode) (frame.Values, error) {
	f.calls++
	f.modes = append(f.modes, mode)
	if f.onRead != nil {
		f.onRead(f.calls)
	}
	if len(f.readings) == 0 {
		return frame.Values{}, f.err
	}
	i := f.calls - 1
	if i >= len(f.readings) {
		i = len(f.readings) - 1
	}
	return f.readings[i], nil
}

func newSupervisor(t *testing.T, cfg Config, r Reader, s Sender) *Supervisor {
	t.Helper()
	sv, err := New(cfg, r, s, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return sv
}

// ---- tests ----

func TestMoveL_ConvergesOnFirstPoll(t *testing.T) {
	target := frame.Values{0.1, 0.2, 0.3, 0, 3.14, 0}
	r := &fakeReader{readings: []frame.Values{target}}
	s := &fakeSender{}

	sv := newSupervisor(t, Config{Threshold: 1e-6, MaxPolls: 10000}, r, s)

	res := sv.MoveL(context.Background(), target)
	if res.Outcome != OutcomeConverged || !res.OK() {
		t.Fatalf("expected converged, got %v (%v)", res.Outcome, res.Err)
	}
	if res.Polls != 1 || r.calls != 1 {
		t.Fatalf("expected exactly 1 poll, got polls=%d calls=%d", res.Polls, r.calls)
	}
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(s.sent) != 1 || s.sent[0] != "movel(p[0.100,0.200,0.300,0.000,3.140,0.000])" {
		t.Fatalf("unexpected instruction: %q", s.sent)
	}
	if r.modes[0] != frame.ModePose {
		t.Fatalf("expected pose reads, got %v", r.modes[0])
	}
}

func TestMoveJ_ConvergesAfterApproach(t *testing.T) {
	target := frame.Values{1, 1, 1, 1, 1, 1}
	r := &fakeReader{readings: []frame.Values{
		{0, 0, 0, 0, 0, 0},
		{0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
		{0.999, 1, 1, 1, 1, 1},
	}}
	s := &fakeSender{}

	sv := newSupervisor(t, Config{Threshold: 1e-4, MaxPolls: 100}, r, s)

	res := sv.MoveJ(context.Background(), target)
	if !res.OK() {
		t.Fatalf("expected converged, got %v (%v)", res.Outcome, res.Err)
	}
	if res.Polls != 3 {
		t.Fatalf("expected 3 polls, got %d", res.Polls)
	}
	if r.modes[0] != frame.ModeJoint {
		t.Fatalf("expected joint reads, got %v", r.modes[0])
	}
	if s.sent[0] != "movej([1.000,1.000,1.000,1.000,1.000,1.000])" {
		t.Fatalf("unexpected instruction: %q", s.sent[0])
	}
}

func TestMove_CommandFailedIsTerminal(t *testing.T) {
	r := &fakeReader{readings: []frame.Values{{}}}
	s := &fakeSender{err: transport.New(transport.KindConnect, "ep", errors.New("refused"))}

	sv := newSupervisor(t, Config{Threshold: 1, MaxPolls: 10}, r, s)

	res := sv.MoveL(context.Background(), frame.Values{})
	if res.Outcome != OutcomeCommandFailed {
		t.Fatalf("expected command_failed, got %v", res.Outcome)
	}
	if !errors.Is(res.Err, ErrCommandFailed) || !errors.Is(res.Err, transport.ErrConnect) {
		t.Fatalf("unexpected error chain: %v", res.Err)
	}
	if r.calls != 0 {
		t.Fatalf("expected no polling after command failure, got %d reads", r.calls)
	}
	if len(s.sent) != 1 {
		t.Fatalf("expected no command retry, got %d sends", len(s.sent))
	}
}

func TestMove_AlwaysFailingReaderTimesOut(t *testing.T) {
	r := &fakeReader{err: transport.New(transport.KindRecv, "ep", errors.New("reset"))}
	s := &fakeSender{}

	sv := newSupervisor(t, Config{Threshold: 1, MaxPolls: 10000}, r, s)

	res := sv.MoveL(context.Background(), frame.Values{})
	if res.Outcome != OutcomeTimedOut {
		t.Fatalf("expected timed_out, got %v", res.Outcome)
	}
	if res.Polls != 10000 || r.calls != 10000 {
		t.Fatalf("expected exactly 10000 polls, got polls=%d calls=%d", res.Polls, r.calls)
	}
	if !errors.Is(res.Err, ErrTimedOut) {
		t.Fatalf("expected ErrTimedOut, got %v", res.Err)
	}
	if res.HaveReading {
		t.Fatalf("no reading should be recorded")
	}
}

func TestMove_NeverConvergesTimesOutAtCeiling(t *testing.T) {
	r := &fakeReader{readings: []frame.Values{{1, 0, 0, 0, 0, 0}}}
	s := &fakeSender{}

	sv := newSupervisor(t, Config{Threshold: 0.5, MaxPolls: 7}, r, s)

	res := sv.MoveL(context.Background(), frame.Values{})
	if res.Outcome != OutcomeTimedOut || res.Polls != 7 {
		t.Fatalf("expected timed_out after 7 polls, got %v after %d", res.Outcome, res.Polls)
	}
	if !res.HaveReading || res.Distance2 != 1 {
		t.Fatalf("expected last distance2=1, got have=%v d=%v", res.HaveReading, res.Distance2)
	}
}

func TestMove_TransientReadErrorsAreSkipped(t *testing.T) {
	target := frame.Values{0, 0, 0, 0, 0, 0}
	flaky := &flakyReader{failFirst: 3, value: target}
	s := &fakeSender{}

	sv := newSupervisor(t, Config{Threshold: 1e-9, MaxPolls: 10}, flaky, s)

	res := sv.MoveJ(context.Background(), target)
	if !res.OK() {
		t.Fatalf("expected converged, got %v (%v)", res.Outcome, res.Err)
	}
	if res.Polls != 4 {
		t.Fatalf("expected 4 polls (3 failed + 1 ok), got %d", res.Polls)
	}
}

func TestMove_SkippedReadLogsFailureKind(t *testing.T) {
	var buf bytes.Buffer
	flaky := &flakyReader{failFirst: 1}
	s := &fakeSender{}

	sv, err := New(Config{Threshold: 1e-9, MaxPolls: 5}, flaky, s, zerolog.New(&buf))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	if res := sv.MoveJ(context.Background(), frame.Values{}); !res.OK() {
		t.Fatalf("expected converged, got %v (%v)", res.Outcome, res.Err)
	}
	if !strings.Contains(buf.String(), `"kind":"invalid data"`) {
		t.Fatalf("warn log misses failure kind: %s", buf.String())
	}
}

func TestMove_CancelledBetweenPolls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{
		readings: []frame.Values{{9, 9, 9, 9, 9, 9}},
		onRead: func(call int) {
			if call == 2 {
				cancel()
			}
		},
	}
	s := &fakeSender{}

	sv := newSupervisor(t, Config{Threshold: 0, MaxPolls: 1000, PollInterval: time.Millisecond}, r, s)

	res := sv.MoveL(ctx, frame.Values{})
	if res.Outcome != OutcomeCancelled {
		t.Fatalf("expected cancelled, got %v", res.Outcome)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", res.Err)
	}
	if res.Polls != 2 {
		t.Fatalf("expected 2 polls before cancel, got %d", res.Polls)
	}
}

func TestMove_PollIntervalApplied(t *testing.T) {
	r := &fakeReader{err: errors.New("down")}
	s := &fakeSender{}

	sv := newSupervisor(t, Config{Threshold: 0, MaxPolls: 4, PollInterval: 10 * time.Millisecond}, r, s)

	start := time.Now()
	res := sv.MoveL(context.Background(), frame.Values{})
	elapsed := time.Since(start)

	if res.Outcome != OutcomeTimedOut {
		t.Fatalf("expected timed_out, got %v", res.Outcome)
	}
	// 3 gaps between 4 polls
	if elapsed < 30*time.Millisecond {
		t.Fatalf("poll interval not applied: elapsed=%v", elapsed)
	}
}

func TestNew_Validation(t *testing.T) {
	r := &fakeReader{}
	s := &fakeSender{}

	cases := []Config{
		{Threshold: -1, MaxPolls: 1},
		{Threshold: 0, MaxPolls: 0},
		{Threshold: 0, MaxPolls: 1, PollInterval: -time.Second},
	}
	for _, cfg := range cases {
		if _, err := New(cfg, r, s, zerolog.Nop()); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
	if _, err := New(Config{MaxPolls: 1}, nil, s, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}

type flakyReader struct {
	failFirst int
	calls     int
	value     frame.Values
}

func (f *flakyReader) Read(context.Context, frame.Mode) (frame.Values, error) {
	f.calls++
	if f.calls <= f.failFirst {
		return frame.Values{}, transport.New(transport.KindInvalidData, "ep", frame.ErrShortResponse)
	}
	return f.value, nil
}
