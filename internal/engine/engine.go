// Package engine runs a monitoring session: it resolves targets, starts one
// prober per target plus the render loop and display, and owns shutdown.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/pingplot/internal/errors"
	"github.com/rileyhilliard/pingplot/internal/logger"
	"github.com/rileyhilliard/pingplot/internal/metrics"
	"github.com/rileyhilliard/pingplot/internal/monitor"
	"github.com/rileyhilliard/pingplot/internal/probe"
	"github.com/rileyhilliard/pingplot/internal/target"
)

// State is the coordinator's lifecycle phase.
type State int32

const (
	Starting State = iota
	Running
	ShuttingDown
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	// DefaultGrace is how long goroutines get to finish after an interrupt.
	DefaultGrace = 2 * time.Second

	// maxStagger bounds the start offset between consecutive probers.
	maxStagger = 10 * time.Millisecond
)

// Config describes one monitoring session.
type Config struct {
	Labels         []string
	Interval       time.Duration
	Timeout        time.Duration
	Capacity       int
	RenderInterval time.Duration
	Grace          time.Duration
	Resolve        target.ResolveOptions
	Probe          probe.Options
	MetricsAddr    string
}

// Session is what a display needs to know once targets are resolved.
type Session struct {
	Targets  []*target.Target
	Warnings []string
	Method   probe.Method
	Subtitle string
	// Span is the time covered by a full history.
	Span time.Duration
	// Interrupt requests shutdown, forcing it when called again.
	Interrupt func()
}

// Display receives frames. Displays that own a goroutine (the TUI) also
// implement Runner; the session ends when Run returns.
type Display = monitor.Drawer

// Runner is implemented by displays that need their own goroutine.
type Runner interface {
	Run(ctx context.Context) error
}

// DisplayFactory builds the display once the session is known.
type DisplayFactory func(Session) Display

// Coordinator runs one session. Create it with New.
type Coordinator struct {
	cfg        Config
	resolver   target.Resolver
	selectFn   func(probe.Options) (probe.Selection, error)
	display    DisplayFactory
	log        logger.Logger
	newMetrics func(addr string, targets []*target.Target) (*metrics.Server, error)

	mu         sync.Mutex
	state      State
	interrupts int
	cancel     context.CancelFunc
	force      chan struct{}
	warnings   []string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithResolver replaces the DNS resolver.
func WithResolver(r target.Resolver) Option {
	return func(c *Coordinator) { c.resolver = r }
}

// WithProberSelector replaces probe.Select.
func WithProberSelector(fn func(probe.Options) (probe.Selection, error)) Option {
	return func(c *Coordinator) { c.selectFn = fn }
}

// WithDisplay sets the display factory.
func WithDisplay(f DisplayFactory) Option {
	return func(c *Coordinator) { c.display = f }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// New creates a coordinator for cfg.
func New(cfg Config, opts ...Option) *Coordinator {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	if cfg.Grace <= 0 {
		cfg.Grace = DefaultGrace
	}
	if cfg.RenderInterval <= 0 {
		cfg.RenderInterval = monitor.DefaultRenderInterval
	}
	if cfg.Resolve.Capacity == 0 {
		cfg.Resolve.Capacity = cfg.Capacity
	}

	c := &Coordinator{
		cfg:      cfg,
		resolver: target.NewResolver(""),
		selectFn: probe.Select,
		log:      logger.New("engine"),
		force:    make(chan struct{}),
		newMetrics: func(addr string, targets []*target.Target) (*metrics.Server, error) {
			return metrics.Listen(addr, metrics.NewCollector(targets))
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.display == nil {
		c.display = func(Session) Display { return monitor.DrawerFunc(func(monitor.Frame) {}) }
	}
	return c
}

// State returns the current lifecycle phase.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.log.Debug("state: %s", s)
}

// Warnings returns the startup warnings, e.g. targets that did not resolve.
func (c *Coordinator) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.warnings...)
}

// Interrupt requests a graceful shutdown. A second call forces it. Safe to
// call from any goroutine, any number of times.
func (c *Coordinator) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.interrupts++
	switch c.interrupts {
	case 1:
		if c.cancel != nil {
			c.cancel()
		}
	case 2:
		close(c.force)
	}
}

// Run executes the session until it is interrupted or ctx is cancelled and
// returns the process exit code along with any error.
func (c *Coordinator) Run(ctx context.Context) (int, error) {
	defer c.setState(Stopped)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	c.state = Starting
	c.cancel = cancel
	if c.interrupts > 0 {
		cancel()
	}
	c.mu.Unlock()

	targets, warnings, err := target.ResolveAll(runCtx, c.resolver, c.cfg.Labels, c.cfg.Resolve)
	if runCtx.Err() != nil {
		return errors.ExitCodeOK, nil
	}
	for _, w := range warnings {
		c.warn(w)
	}
	if err != nil {
		return errors.ExitCodeFor(err), err
	}

	sel, err := c.selectFn(c.cfg.Probe)
	if err != nil {
		return errors.ExitCodeFor(err), err
	}
	prober := sel.Prober
	defer prober.Close()
	if sel.Warning != nil {
		c.warn(sel.Warning)
	}

	var srv *metrics.Server
	if c.cfg.MetricsAddr != "" {
		if srv, err = c.newMetrics(c.cfg.MetricsAddr, targets); err != nil {
			return errors.ExitCodeFor(err), err
		}
	}

	session := Session{
		Targets:   targets,
		Warnings:  c.Warnings(),
		Method:    prober.Method(),
		Subtitle:  c.subtitle(prober.Method()),
		Span:      time.Duration(targets[0].History.Capacity()) * c.cfg.Interval,
		Interrupt: c.Interrupt,
	}
	display := c.display(session)

	c.setState(Running)
	c.log.Info("monitoring %d target(s) with %s", len(targets), session.Subtitle)

	g, gctx := errgroup.WithContext(runCtx)

	stagger := maxStagger
	if n := time.Duration(len(targets)); n > 0 && c.cfg.Interval/n < stagger {
		stagger = c.cfg.Interval / n
	}
	for i, t := range targets {
		t := t
		runner := &probe.Runner{
			Prober:   prober,
			Interval: c.cfg.Interval,
			Timeout:  c.cfg.Timeout,
			Delay:    time.Duration(i) * stagger,
			Log:      logger.New("probe"),
		}
		g.Go(func() error { return runner.Run(gctx, t) })
	}

	loop := &monitor.Loop{Targets: targets, Interval: c.cfg.RenderInterval, Drawer: display}
	g.Go(func() error { return loop.Run(gctx) })

	if r, ok := display.(Runner); ok {
		g.Go(func() error {
			err := r.Run(gctx)
			// the display closing ends the session
			cancel()
			return err
		})
	}

	if srv != nil {
		g.Go(func() error { return srv.Serve(gctx) })
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		return c.finish(err)
	case <-runCtx.Done():
	}

	c.setState(ShuttingDown)
	c.log.Info("shutting down, waiting up to %s", c.cfg.Grace)

	grace := time.NewTimer(c.cfg.Grace)
	defer grace.Stop()

	select {
	case err := <-done:
		return c.finish(err)
	case <-grace.C:
		c.log.Warn("grace period expired, forcing shutdown")
	case <-c.force:
		c.log.Warn("second interrupt, forcing shutdown")
	}

	err = errors.New(errors.ErrShutdown,
		"Stopped without waiting for every probe to finish",
		"A probe or the display did not stop within the grace period (--grace)")
	return errors.ExitCodeFor(err), err
}

func (c *Coordinator) finish(err error) (int, error) {
	if err != nil {
		c.log.Error("session ended: %v", err)
		return errors.ExitCodeFor(err), err
	}
	return errors.ExitCodeOK, nil
}

func (c *Coordinator) warn(err error) {
	c.log.Warn("%v", err)
	c.mu.Lock()
	c.warnings = append(c.warnings, errors.Summary(err))
	c.mu.Unlock()
}

func (c *Coordinator) subtitle(m probe.Method) string {
	how := m.String()
	if m == probe.MethodTCP {
		port := c.cfg.Probe.Port
		if port == 0 {
			port = probe.DefaultTCPPort
		}
		how = fmt.Sprintf("tcp:%d", port)
	}
	return fmt.Sprintf("%s every %s", how, c.cfg.Interval)
}
