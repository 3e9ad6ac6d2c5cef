// cmd/armctl/move.go
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tamzrod/armctl/internal/frame"
	"github.com/tamzrod/armctl/internal/motion"
)

// Exit codes per terminal outcome.
const (
	exitCommandFailed = 2
	exitTimedOut      = 3
	exitCancelled     = 4
)

// valuesHelp is shared by the move commands.
const valuesHelp = `Targets are six values, or one bracketed list such as [0.3,-0.1,0.45,0,3.141,0].
Global flags go before the values. When the first value is negative, put
"--" before the values or use the bracketed list.`

func newMoveLCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movel x y z rx ry rz",
		Short: "Linear move to a pose and wait until it is reached",
		Long:  "Linear move to a pose (meters, radians) and wait until it is reached.\n\n" + valuesHelp,
		Example: `  armctl movel 0.300 -0.100 0.450 0.000 3.141 0.000
  armctl movel -- -0.300 0.100 0.450 0.000 3.141 0.000
  armctl movel '[-0.300,0.100,0.450,0.000,3.141,0.000]'`,
		Args: valueArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(cmd, flags, frame.ModePose, args)
		},
	}
	// values after the first positional are never read as flags
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newMoveJCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movej base shoulder elbow wrist1 wrist2 wrist3",
		Short: "Joint move to angles (radians) and wait until they are reached",
		Long:  "Joint move to angles (radians) and wait until they are reached.\n\n" + valuesHelp,
		Example: `  armctl movej 5.523 -1.145 0.812 0.815 0.455 0.054
  armctl movej -- -1.571 -1.571 -1.571 -1.571 1.571 0.000
  armctl movej '[-1.571,-1.571,-1.571,-1.571,1.571,0.000]'`,
		Args: valueArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(cmd, flags, frame.ModeJoint, args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func valueArgs(_ *cobra.Command, args []string) error {
	if len(args) == 1 || len(args) == frame.RegisterCount {
		return nil
	}
	return fmt.Errorf("accepts %d values or one [v1,...,v%d] list, received %d args",
		frame.RegisterCount, frame.RegisterCount, len(args))
}

func runMove(cmd *cobra.Command, flags *globalFlags, mode frame.Mode, args []string) error {
	target, err := parseValues(args)
	if err != nil {
		return err
	}

	a, err := buildApp(flags)
	if err != nil {
		return err
	}
	sv, err := a.supervisor()
	if err != nil {
		return err
	}

	var res motion.Result
	if mode == frame.ModeJoint {
		res = sv.MoveJ(cmd.Context(), target)
	} else {
		res = sv.MoveL(cmd.Context(), target)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "outcome=%s polls=%d\n", res.Outcome, res.Polls)
	if res.HaveReading {
		printValues(out, mode, res.Last)
	}

	switch res.Outcome {
	case motion.OutcomeConverged:
		return nil
	case motion.OutcomeCommandFailed:
		return &exitError{code: exitCommandFailed, err: res.Err}
	case motion.OutcomeTimedOut:
		return &exitError{code: exitTimedOut, err: res.Err}
	case motion.OutcomeCancelled:
		return &exitError{code: exitCancelled, err: res.Err}
	default:
		return fmt.Errorf("move: unexpected outcome %s", res.Outcome)
	}
}

func parseValues(args []string) (frame.Values, error) {
	var v frame.Values
	if len(args) == 1 {
		return parseList(args[0])
	}
	if len(args) != len(v) {
		return v, fmt.Errorf("expected %d values, got %d", len(v), len(args))
	}
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return v, fmt.Errorf("value %d (%q): %w", i+1, s, err)
		}
		v[i] = f
	}
	return v, nil
}

// parseList parses "[v1,...,v6]".
func parseList(s string) (frame.Values, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return frame.Values{}, fmt.Errorf("expected [v1,...,v%d], got %q", frame.RegisterCount, s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != frame.RegisterCount {
		return frame.Values{}, fmt.Errorf("expected %d values, got %d", frame.RegisterCount, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parseValues(parts)
}
