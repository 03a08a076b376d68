// Package cli implements the pingplot command-line interface.
//
// The root command takes one or more targets and hands a validated
// configuration to the engine:
//
//	pingplot [flags] <target>...   - graph latency to each target
//	pingplot config [flags]        - print the effective configuration
//	pingplot version [--short]     - print build information
//
// # Configuration
//
// Settings are layered, later layers winning:
//
//  1. Built-in defaults
//  2. The config file (--config, or ~/.config/pingplot/config.yaml)
//  3. PINGPLOT_* environment variables (PINGPLOT_INTERVAL=500ms)
//  4. Command-line flags
//
// # Output
//
// When stdout is a terminal the dashboard takes over the screen. Otherwise,
// or with --plain, one line per target is printed for every new sample.
// Logs never go to the terminal; use --log-file to keep them.
//
// # Exit Codes
//
//	0  stopped cleanly
//	1  unexpected error
//	2  usage or configuration error
//	3  no target could be resolved
//	4  shutdown was forced before every probe finished
package cli
