package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/pingplot/internal/config"
	"github.com/rileyhilliard/pingplot/internal/engine"
	"github.com/rileyhilliard/pingplot/internal/errors"
	"github.com/rileyhilliard/pingplot/internal/logger"
	"github.com/rileyhilliard/pingplot/internal/monitor"
	"github.com/rileyhilliard/pingplot/internal/probe"
	"github.com/rileyhilliard/pingplot/internal/target"
)

const (
	// fallbackBufferSize is used when the terminal width is unknown.
	fallbackBufferSize = 120
	minAutoBufferSize  = 30
	maxAutoBufferSize  = 600

	// chartChrome is the width taken by the section borders and y axis.
	chartChrome = 13
)

// startHook, when set, sees the coordinator before it runs.
var startHook func(*engine.Coordinator)

// monitorCommand resolves the configuration and runs a monitoring session
// until it is interrupted.
func monitorCommand(cmd *cobra.Command, configPath string, targets []string) error {
	cfg, path, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	closer, err := logger.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log file "+cfg.LogFile,
			"Check the path and permissions, or drop --log-file.")
	}
	defer closer.Close()

	log := logger.New("cli")
	if path != "" {
		log.Debug("config loaded from %s", path)
	}

	if cfg.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	method, err := probe.ParseMethod(cfg.Method)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrUsage, err.Error(), "Use auto, icmp or tcp.")
	}

	stdout := cmd.OutOrStdout()
	width, isTTY := terminalWidth(stdout)
	interactive := isTTY && !cfg.Plain

	capacity := cfg.BufferSize
	if capacity == 0 {
		capacity = autoBufferSize(width)
	}

	aliases, err := target.LoadSSHAliases(cfg.SSHConfig)
	if err != nil {
		log.Warn("ignoring ssh config %s: %v", cfg.SSHConfig, err)
	}

	coord := engine.New(engine.Config{
		Labels:         targets,
		Interval:       cfg.Interval,
		Timeout:        cfg.Timeout,
		Capacity:       capacity,
		RenderInterval: cfg.RenderInterval,
		Grace:          cfg.Grace,
		Resolve: target.ResolveOptions{
			Family:   cfg.Family,
			Timeout:  cfg.ResolveTimeout,
			Capacity: capacity,
			Aliases:  aliases,
		},
		Probe: probe.Options{
			Method:      method,
			Port:        cfg.Port,
			PayloadSize: cfg.PayloadSize,
			Family:      cfg.Family,
		},
		MetricsAddr: cfg.MetricsAddr,
	},
		engine.WithResolver(target.NewResolver(cfg.Nameserver)),
		engine.WithDisplay(displayFactory(interactive, stdout)),
	)

	// every SIGINT/SIGTERM is an interrupt; the second one forces exit
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-sigChan:
				coord.Interrupt()
			case <-stop:
				return
			}
		}
	}()

	if startHook != nil {
		startHook(coord)
	}

	_, err = coord.Run(context.Background())

	for _, w := range coord.Warnings() {
		fmt.Fprintln(cmd.ErrOrStderr(), "⚠ "+w)
	}
	return err
}

func displayFactory(interactive bool, stdout io.Writer) engine.DisplayFactory {
	return func(s engine.Session) engine.Display {
		if !interactive {
			return monitor.NewPlain(stdout)
		}
		return monitor.NewTUI(monitor.Options{
			Subtitle: s.Subtitle,
			Warnings: s.Warnings,
			Span:     s.Span,
			OnQuit:   s.Interrupt,
		}, monitor.Terminal{Output: stdout})
	}
}

// terminalWidth reports whether w is a terminal and, if so, its width
// (0 when the size can't be read).
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0, true
	}
	return width, true
}

// autoBufferSize keeps one sample per horizontal braille dot of the chart.
func autoBufferSize(width int) int {
	if width <= 0 {
		return fallbackBufferSize
	}
	n := (width - chartChrome) * 2
	if n < minAutoBufferSize {
		return minAutoBufferSize
	}
	if n > maxAutoBufferSize {
		return maxAutoBufferSize
	}
	return n
}
