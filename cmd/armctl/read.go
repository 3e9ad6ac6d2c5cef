// cmd/armctl/read.go
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tamzrod/armctl/internal/frame"
)

var (
	poseLabels  = [frame.RegisterCount]string{"x", "y", "z", "rx", "ry", "rz"}
	jointLabels = [frame.RegisterCount]string{"base", "shoulder", "elbow", "wrist1", "wrist2", "wrist3"}
)

func newPoseCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pose",
		Short: "Read the tool pose [x y z rx ry rz]",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, flags, frame.ModePose)
		},
	}
}

func newJointsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "joints",
		Short: "Read the joint angles in radians",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, flags, frame.ModeJoint)
		},
	}
}

func runRead(cmd *cobra.Command, flags *globalFlags, mode frame.Mode) error {
	a, err := buildApp(flags)
	if err != nil {
		return err
	}
	r, err := a.reader()
	if err != nil {
		return err
	}

	v, err := r.Read(cmd.Context(), mode)
	if err != nil {
		return err
	}

	printValues(cmd.OutOrStdout(), mode, v)
	return nil
}

func printValues(w io.Writer, mode frame.Mode, v frame.Values) {
	labels := poseLabels
	if mode == frame.ModeJoint {
		labels = jointLabels
	}

	parts := make([]string, len(v))
	for i := range v {
		parts[i] = fmt.Sprintf("%s=%.4f", labels[i], v[i])
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}
