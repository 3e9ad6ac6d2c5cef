// cmd/armctl/sim.go
package main

import (
	"github.com/spf13/cobra"
)

func newSimCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sim",
		Short: "Run a simulated arm (Modbus-TCP state + real-time instructions)",
		Long: `Run a local stand-in for the arm controller. The simulator serves the pose
and joint register blocks over Modbus-TCP and accepts movel/movej
instructions on the real-time port, moving toward each target at a bounded
rate. Listen addresses default to the client's default endpoints.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(flags)
			if err != nil {
				return err
			}
			s, err := a.simulator()
			if err != nil {
				return err
			}

			if err := s.Start(); err != nil {
				return err
			}
			defer s.Stop()

			s.Run(cmd.Context())
			a.log.Info().Msg("simulator stopped")
			return nil
		},
	}
}
