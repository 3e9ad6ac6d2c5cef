// internal/command/format.go
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tamzrod/armctl/internal/frame"
)

// Kind is the motion instruction family.
type Kind uint8

const (
	KindMoveL Kind = iota + 1 // linear move to a pose
	KindMoveJ                 // joint-space move
)

func (k Kind) String() string {
	switch k {
	case KindMoveL:
		return "movel"
	case KindMoveJ:
		return "movej"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Command is one parsed motion instruction.
type Command struct {
	Kind   Kind
	Target frame.Values
}

// String renders the instruction without line terminators.
func (c Command) String() string {
	switch c.Kind {
	case KindMoveL:
		return "movel(p[" + joinValues(c.Target) + "])"
	case KindMoveJ:
		return "movej([" + joinValues(c.Target) + "])"
	default:
		return ""
	}
}

// FormatMoveL renders movel(p[x,y,z,rx,ry,rz]).
func FormatMoveL(pose frame.Values) string {
	return Command{Kind: KindMoveL, Target: pose}.String()
}

// FormatMoveJ renders movej([j0,j1,j2,j3,j4,j5]).
func FormatMoveJ(joints frame.Values) string {
	return Command{Kind: KindMoveJ, Target: joints}.String()
}

// every value is rendered with exactly 3 fractional digits
func joinValues(v frame.Values) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'f', 3, 64)
	}
	return strings.Join(parts, ",")
}

var ErrSyntax = errors.New("command: syntax error")

// Parse reads one instruction line as produced by FormatMoveL/FormatMoveJ.
// Surrounding whitespace and line terminators are ignored.
func Parse(line string) (Command, error) {
	s := strings.TrimSpace(line)

	var (
		kind Kind
		body string
	)
	switch {
	case strings.HasPrefix(s, "movel(p[") && strings.HasSuffix(s, "])"):
		kind = KindMoveL
		body = s[len("movel(p[") : len(s)-2]
	case strings.HasPrefix(s, "movej([") && strings.HasSuffix(s, "])"):
		kind = KindMoveJ
		body = s[len("movej([") : len(s)-2]
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	fields := strings.Split(body, ",")
	if len(fields) != frame.RegisterCount {
		return Command{}, fmt.Errorf("%w: want %d values, got %d", ErrSyntax, frame.RegisterCount, len(fields))
	}

	cmd := Command{Kind: kind}
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Command{}, fmt.Errorf("%w: value %d: %v", ErrSyntax, i, err)
		}
		cmd.Target[i] = v
	}
	return cmd, nil
}
