// Package probe sends reachability probes and turns their results into
// history samples.
package probe

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// Method selects how probes are sent. It is fixed for the whole run.
type Method int

const (
	// MethodAuto tries ICMP and falls back to TCP when raw sockets are not
	// permitted. It is only a request; a running Prober is never Auto.
	MethodAuto Method = iota
	MethodICMP
	MethodTCP
)

func (m Method) String() string {
	switch m {
	case MethodICMP:
		return "icmp"
	case MethodTCP:
		return "tcp"
	default:
		return "auto"
	}
}

// ParseMethod parses "auto", "icmp" or "tcp" (case-insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return MethodAuto, nil
	case "icmp", "ping":
		return MethodICMP, nil
	case "tcp", "tcp-connect":
		return MethodTCP, nil
	default:
		return MethodAuto, fmt.Errorf("unknown probe method %q (want auto, icmp or tcp)", s)
	}
}

// Prober sends one probe and waits for a reply until ctx is done.
// Implementations must be safe for concurrent use by several runners.
type Prober interface {
	Probe(ctx context.Context, addr net.IPAddr) (time.Duration, error)
	Method() Method
	Close() error
}
