package probe

import (
	"errors"
	"fmt"
	"os"

	pperrors "github.com/rileyhilliard/pingplot/internal/errors"
)

// Options configures the prober chosen at startup.
type Options struct {
	Method      Method
	Port        int
	PayloadSize int
	// Family is "ip", "ip4" or "ip6" and limits which raw sockets are opened.
	Family string
}

// newICMP is swapped out in tests, where raw sockets are unavailable.
var newICMP = func(opts Options) (Prober, error) {
	return NewICMP(opts)
}

// Selection is the prober chosen for a run.
type Selection struct {
	Prober Prober
	// Warning is set when auto mode had to fall back to TCP connect probes.
	Warning error
}

// Select picks the probe method for the run. With MethodAuto a failure to
// open raw ICMP sockets downgrades to TCP connect probes and is reported in
// Selection.Warning. An explicit MethodICMP failure is returned as the error.
func Select(opts Options) (Selection, error) {
	switch opts.Method {
	case MethodTCP:
		return Selection{Prober: NewTCP(opts.Port)}, nil

	case MethodICMP:
		p, err := newICMP(opts)
		if err != nil {
			return Selection{}, icmpError(err)
		}
		return Selection{Prober: p}, nil

	default:
		p, err := newICMP(opts)
		if err == nil {
			return Selection{Prober: p}, nil
		}
		msg := "ICMP probing unavailable, using TCP connect probes"
		if errors.Is(err, os.ErrPermission) {
			msg = "No permission for raw ICMP sockets, using TCP connect probes"
		}
		tcp := NewTCP(opts.Port)
		warning := pperrors.WrapWithCode(err, pperrors.ErrPermission,
			fmt.Sprintf("%s (port %s)", msg, tcp.port),
			"Run with elevated privileges or grant CAP_NET_RAW for ICMP")
		return Selection{Prober: tcp, Warning: warning}, nil
	}
}

func icmpError(err error) error {
	if errors.Is(err, os.ErrPermission) {
		return pperrors.WrapWithCode(err, pperrors.ErrPermission,
			"No permission to open raw ICMP sockets",
			"Run with elevated privileges, grant CAP_NET_RAW, or use --method tcp")
	}
	return pperrors.WrapWithCode(err, pperrors.ErrProbe,
		"Failed to open ICMP sockets",
		"Use --method tcp to probe with TCP connects instead")
}
