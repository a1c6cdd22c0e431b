// Package main implements the workoutlog CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/claude/workoutlog/internal/api"
	"github.com/claude/workoutlog/internal/app"
	"github.com/claude/workoutlog/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes one command line and releases the client afterwards, whether
// or not the command succeeded.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer c.close()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprint(stderr, formatError(describeError(err)))
		return err
	}
	return nil
}

// cli carries the state shared by every subcommand for one invocation.
type cli struct {
	configPath string
	refresh    bool

	app *app.App
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "workoutlog",
		Short:         "Log workout routines, sessions and sets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "help":
				return nil
			}
			if cmd.HasParent() && cmd.Parent().Name() == "completion" {
				return nil
			}
			return c.open()
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv("WORKOUTLOG_CONFIG"), "path to config file (env WORKOUTLOG_CONFIG)")
	root.PersistentFlags().BoolVarP(&c.refresh, "refresh", "r", false, "bypass the response cache for reads")

	root.AddCommand(
		newRoutinesCmd(c),
		newExercisesCmd(c),
		newSessionsCmd(c),
		&cobra.Command{
			Use:   "version",
			Short: "Print version and exit",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "workoutlog", Version)
			},
		},
	)
	return root
}

func (c *cli) open() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	log := app.NewLogger(cfg.Log)

	a, err := app.Open(cfg, log)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) close() {
	if c.app != nil {
		_ = c.app.Close()
		c.app = nil
	}
}

// describeError adds a hint for the error kinds a user can act on.
func describeError(err error) string {
	switch {
	case errors.Is(err, api.ErrNetwork):
		return err.Error() + " (is api.endpoint reachable? cached reads work without --refresh)"
	default:
		return err.Error()
	}
}
