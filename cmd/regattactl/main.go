// Command regattactl is the operator tool for the race-entry service: it
// talks to a running server and moves rows in and out of the entry store.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sailsizzle/regatta/internal/client"
	"github.com/sailsizzle/regatta/pkg/logger"
)

var version = "0.1.0"

// Exit codes.
const (
	exitFailure  = 1
	exitMismatch = 2
	exitConfig   = 3
)

type globalFlags struct {
	url     string
	timeout time.Duration
	format  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "regattactl",
		Short:         "Operate the Friday Sail & Sizzle race-entry service",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return logger.Init(logger.WithOutput(cmd.ErrOrStderr()), logger.WithFormat(g.format))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.url, "url", "http://localhost:9080", "Base URL of the service")
	flags.DurationVar(&g.timeout, "timeout", client.DefaultTimeout, "HTTP request timeout")
	flags.StringVar(&g.format, "log-format", "text", "Log format: text or json")

	root.AddCommand(
		newSubmitCmd(g),
		newLeaderboardCmd(g),
		newSeedCmd(g),
		newImportCmd(),
		newExportCmd(),
		newRatingsCmd(),
	)
	return root
}

func (g *globalFlags) client() *client.Client {
	return client.New(g.url, client.WithTimeout(g.timeout))
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
