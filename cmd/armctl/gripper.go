// cmd/armctl/gripper.go
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tamzrod/armctl/internal/gripper"
)

type gripperFlags struct {
	speed int
	force int
}

func newGripperCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gripper",
		Short: "Drive the wrist gripper over its Modbus RTU serial link",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "activate",
		Short: "Reset and activate the gripper, waiting until it is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGripper(cmd.Context(), flags, func(ctx context.Context, _ *app, g *gripper.Gripper) error {
				return g.Activate(ctx)
			})
		},
	})

	cmd.AddCommand(newGripperMoveCmd(flags, "open", "Open the fingers", (*gripper.Gripper).Open))
	cmd.AddCommand(newGripperMoveCmd(flags, "close", "Close the fingers (stops on contact)", (*gripper.Gripper).Close))

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Read and print the gripper status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGripper(cmd.Context(), flags, func(ctx context.Context, _ *app, g *gripper.Gripper) error {
				st, err := g.Status(ctx)
				if err != nil {
					return err
				}
				printStatus(cmd.OutOrStdout(), st)
				return nil
			})
		},
	})

	return cmd
}

type gripperMove func(g *gripper.Gripper, ctx context.Context, speed, force byte) error

func newGripperMoveCmd(flags *globalFlags, use, short string, move gripperMove) *cobra.Command {
	gf := &gripperFlags{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGripper(cmd.Context(), flags, func(ctx context.Context, a *app, g *gripper.Gripper) error {
				speed, err := byteFlag(cmd, "speed", gf.speed, *a.cfg.Gripper.Speed)
				if err != nil {
					return err
				}
				force, err := byteFlag(cmd, "force", gf.force, *a.cfg.Gripper.Force)
				if err != nil {
					return err
				}
				return move(g, ctx, speed, force)
			})
		},
	}

	cmd.Flags().IntVar(&gf.speed, "speed", 0, "Finger speed 0..255 (default from config)")
	cmd.Flags().IntVar(&gf.force, "force", 0, "Grip force 0..255 (default from config)")

	return cmd
}

// byteFlag returns the flag value when set, else def.
func byteFlag(cmd *cobra.Command, name string, v int, def byte) (byte, error) {
	if !cmd.Flags().Changed(name) {
		return def, nil
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("--%s must be 0..255, got %d", name, v)
	}
	return byte(v), nil
}

// withGripper opens the serial link, runs fn and closes the link.
func withGripper(ctx context.Context, flags *globalFlags, fn func(context.Context, *app, *gripper.Gripper) error) error {
	a, err := buildApp(flags)
	if err != nil {
		return err
	}
	g, port, err := a.gripper()
	if err != nil {
		return err
	}
	defer port.Close()

	return fn(ctx, a, g)
}

func printStatus(w io.Writer, st gripper.Status) {
	fmt.Fprintf(w, "activated=%t ready=%t moving=%t object=%d fault=0x%02x position=%d current=%d\n",
		st.Activated, st.Ready(), st.Moving, st.Object, st.Fault, st.Position, st.Current)
}
