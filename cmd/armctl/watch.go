// cmd/armctl/watch.go
package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/armctl/internal/frame"
	"github.com/tamzrod/armctl/internal/poller"
)

type watchFlags struct {
	joints     bool
	intervalMs int
}

func newWatchCmd(flags *globalFlags) *cobra.Command {
	wf := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the arm state periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, flags, wf)
		},
	}

	cmd.Flags().BoolVar(&wf.joints, "joints", false, "Watch joint angles instead of the pose")
	cmd.Flags().IntVar(&wf.intervalMs, "interval-ms", 0, "Poll interval in ms (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, flags *globalFlags, wf *watchFlags) error {
	a, err := buildApp(flags)
	if err != nil {
		return err
	}
	r, err := a.reader()
	if err != nil {
		return err
	}

	mode := frame.ModePose
	if wf.joints {
		mode = frame.ModeJoint
	}
	interval := a.cfg.Arm.Watch.IntervalMs
	if wf.intervalMs > 0 {
		interval = wf.intervalMs
	}

	p, err := poller.New(poller.Config{
		Name:     a.cfg.Arm.Modbus.Endpoint,
		Mode:     mode,
		Interval: time.Duration(interval) * time.Millisecond,
	}, r)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := make(chan poller.PollResult)
	go p.Run(ctx, out)

	w := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return nil
		case res := <-out:
			if res.Err != nil {
				a.log.Warn().Err(res.Err).Str("mode", res.Mode.String()).Msg("poll failed")
				continue
			}
			printValues(w, res.Mode, res.Values)
		}
	}
}
