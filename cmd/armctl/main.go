// cmd/armctl/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if code := errorCode(err); code != 0 {
			fmt.Fprintf(os.Stderr, "error: %v (code=%d)\n", err, code)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "armctl",
		Short: "Robotic arm client over Modbus-TCP and the real-time channel",
		Long: `armctl reads the arm's pose and joint angles over Modbus-TCP and sends
movel/movej instructions over the real-time channel, waiting for the arm
to reach the commanded target.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file (defaults apply when omitted)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Override log format (console, json)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPoseCmd(flags))
	rootCmd.AddCommand(newJointsCmd(flags))
	rootCmd.AddCommand(newMoveLCmd(flags))
	rootCmd.AddCommand(newMoveJCmd(flags))
	rootCmd.AddCommand(newWatchCmd(flags))
	rootCmd.AddCommand(newGripperCmd(flags))
	rootCmd.AddCommand(newSimCmd(flags))

	return rootCmd
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// errorCode extracts a best-effort uint16 code from anywhere in err's chain.
// 0 means "no code".
func errorCode(err error) uint16 {
	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return 0
}
