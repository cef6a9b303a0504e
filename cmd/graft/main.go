package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graft/internal/cli"
	"github.com/matzehuels/graft/pkg/errors"
	"github.com/matzehuels/graft/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(exitCode(run(ctx)))
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The level is only known after flag parsing.
	attachLogger := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetTransplantHooks(hooks)
			observability.SetIOHooks(hooks)
		}
		if attachLogger != nil {
			return attachLogger(cmd, args)
		}
		return nil
	}

	err := root.ExecuteContext(ctx)
	if err != nil && verbose {
		c.Logger.Debug("command failed", "code", errors.GetCode(err), "err", err)
	}
	return err
}

// exitCode reports err on stderr and maps it to a process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return 130 // SIGINT
	}
	fmt.Fprintln(os.Stderr, errors.UserMessage(err))
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidPlan:
		return 2
	default:
		return 1
	}
}
