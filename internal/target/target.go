// Package target holds the monitored hosts and resolves them at startup.
package target

import (
	"net"

	"github.com/rileyhilliard/pingplot/internal/history"
)

// Target is one monitored host. Addr is resolved once at startup and never
// changes. History is written only by the target's prober.
type Target struct {
	// Label is the string the user passed on the command line.
	Label string
	// Host is what was actually resolved, which differs from Label when the
	// label is an SSH config alias.
	Host    string
	Addr    net.IPAddr
	History *history.History
}

// New creates a target with an empty history of the given capacity.
func New(label string, addr net.IPAddr, capacity int) *Target {
	return &Target{
		Label:   label,
		Host:    label,
		Addr:    addr,
		History: history.New(capacity),
	}
}

// DisplayName is the label, followed by the address when the label was not
// already a literal IP.
func (t *Target) DisplayName() string {
	ip := t.Addr.String()
	if t.Label == ip {
		return t.Label
	}
	return t.Label + " (" + ip + ")"
}
