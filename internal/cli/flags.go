package cli

import (
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pingplot/internal/config"
	"github.com/rileyhilliard/pingplot/internal/errors"
)

// rootFlags holds --config. The other settings are read back through viper
// from the flag set, so only the file path needs a variable.
type rootFlags struct {
	configPath string
}

// addSettingFlags registers one persistent flag per config setting. Flag
// defaults mirror config.DefaultConfig; only flags that were set override
// the file and environment.
func addSettingFlags(cmd *cobra.Command, flags *rootFlags) {
	d := config.DefaultConfig()
	pf := cmd.PersistentFlags()

	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/pingplot/config.yaml)")

	pf.DurationP("interval", "i", d.Interval, "time between probes to each target")
	pf.DurationP("timeout", "t", d.Timeout, "how long to wait for each reply")
	pf.IntP("buffer-size", "b", d.BufferSize, "samples kept per target (0 fits the terminal width)")
	pf.StringP("method", "m", d.Method, "probe method: auto, icmp or tcp")
	pf.Int("port", d.Port, "destination port for tcp probes")
	pf.Int("payload-size", d.PayloadSize, "icmp payload size in bytes (1-65500)")

	pf.Duration("render-interval", d.RenderInterval, "time between screen redraws")
	pf.Duration("grace", d.Grace, "how long to wait for probes in flight on exit")

	pf.Duration("resolve-timeout", d.ResolveTimeout, "DNS lookup timeout per target")
	pf.String("family", d.Family, "address family: ip, ip4 or ip6")
	pf.String("nameserver", d.Nameserver, "DNS server to use instead of the system resolver")
	pf.String("ssh-config", d.SSHConfig, "ssh config whose Host aliases may be used as targets (empty disables)")

	pf.Bool("plain", d.Plain, "print text lines instead of the dashboard")
	pf.Bool("no-color", d.NoColor, "disable colors")
	pf.String("metrics-addr", d.MetricsAddr, "serve Prometheus metrics on this address, e.g. :9374")
	pf.String("log-file", d.LogFile, "append logs to this file")
	pf.String("log-level", d.LogLevel, "log level: debug, info, warn or error")
}

// flagError turns cobra's flag parsing errors into usage errors.
func flagError(cmd *cobra.Command, err error) error {
	return errors.WrapWithCode(err, errors.ErrUsage,
		err.Error(),
		"Run '"+cmd.CommandPath()+" --help' to see the available flags.")
}
