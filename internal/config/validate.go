package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rileyhilliard/pingplot/internal/errors"
)

// Limits on configurable values.
const (
	MinBufferSize = 2
	MaxBufferSize = 100_000

	MinRenderInterval = 50 * time.Millisecond
	MaxRenderInterval = 5 * time.Second

	MinPayloadSize = 1
	MaxPayloadSize = 65500
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Interval <= 0 {
		return invalid(fmt.Sprintf("Probe interval must be positive, got %s", cfg.Interval),
			"Use something like --interval 1s or --interval 200ms.")
	}
	if cfg.Timeout <= 0 {
		return invalid(fmt.Sprintf("Probe timeout must be positive, got %s", cfg.Timeout),
			"Use something like --timeout 1s.")
	}
	if cfg.RenderInterval < MinRenderInterval || cfg.RenderInterval > MaxRenderInterval {
		return invalid(fmt.Sprintf("Render interval %s is out of range", cfg.RenderInterval),
			fmt.Sprintf("Pick a value between %s and %s.", MinRenderInterval, MaxRenderInterval))
	}
	if cfg.Grace < 0 {
		return invalid(fmt.Sprintf("Shutdown grace period can't be negative, got %s", cfg.Grace), "")
	}
	if cfg.ResolveTimeout < 0 {
		return invalid(fmt.Sprintf("Resolve timeout can't be negative, got %s", cfg.ResolveTimeout), "")
	}
	if cfg.BufferSize != 0 && (cfg.BufferSize < MinBufferSize || cfg.BufferSize > MaxBufferSize) {
		return invalid(fmt.Sprintf("Buffer size %d is out of range", cfg.BufferSize),
			fmt.Sprintf("Use 0 to fit the terminal, or a value between %d and %d.", MinBufferSize, MaxBufferSize))
	}

	switch cfg.Method {
	case "", "auto", "icmp", "ping", "tcp", "tcp-connect":
	default:
		return invalid(fmt.Sprintf("Unknown probe method '%s'", cfg.Method),
			"Use auto, icmp or tcp.")
	}

	switch cfg.Family {
	case "", "ip", "ip4", "ip6":
	default:
		return invalid(fmt.Sprintf("Unknown address family '%s'", cfg.Family),
			"Use ip (either), ip4 or ip6.")
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return invalid(fmt.Sprintf("TCP port %d is out of range", cfg.Port),
			"Pick a port between 1 and 65535.")
	}
	if cfg.PayloadSize < MinPayloadSize || cfg.PayloadSize > MaxPayloadSize {
		return invalid(fmt.Sprintf("Payload size %d is out of range", cfg.PayloadSize),
			fmt.Sprintf("Pick a size between %d and %d bytes.", MinPayloadSize, MaxPayloadSize))
	}

	if cfg.LogLevel != "" {
		if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
			return invalid(fmt.Sprintf("Unknown log level '%s'", cfg.LogLevel),
				"Use debug, info, warn or error.")
		}
	}

	return nil
}

func invalid(message, suggestion string) error {
	return errors.New(errors.ErrConfig, message, suggestion)
}
