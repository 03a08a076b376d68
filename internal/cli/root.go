package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pingplot/internal/errors"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "pingplot [flags] <target>...",
		Short: "Graph ping latency to several hosts live in the terminal",
		Long: `Probe each target on a fixed interval and graph round-trip times live,
one line per target, with min/avg/max, jitter and loss underneath.

Targets are host names, IP addresses, or Host aliases from ~/.ssh/config.
ICMP echo is used when raw sockets are available; otherwise pingplot falls
back to timing TCP connects.

Examples:
  pingplot 1.1.1.1 8.8.8.8
  pingplot -i 200ms gateway example.com
  pingplot --method tcp --port 443 api.example.com
  pingplot --plain 10.0.0.1 > latency.log`,
		Args:          requireTargets,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return monitorCommand(cmd, flags.configPath, args)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(flagError)

	addSettingFlags(cmd, flags)
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(flags))
	return cmd
}

func requireTargets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New(errors.ErrUsage,
			"No targets given",
			"Usage: pingplot [flags] <target>...  e.g. pingplot 1.1.1.1 example.com")
	}
	return nil
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	return ExecuteArgs(os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteArgs runs the CLI with args and returns the exit code. Errors are
// written to stderr.
func ExecuteArgs(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return errors.ExitCodeOK
	}
	fmt.Fprintln(stderr, err)

	code := errors.ExitCodeFor(err)
	if code == errors.ExitCodeError && isUsageError(err) {
		code = errors.ExitCodeUsage
	}
	return code
}

// isUsageError recognizes cobra's own argument errors, which are plain
// errors rather than structured ones.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"accepts ",
		"invalid argument",
		"flag needs an argument",
	} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
