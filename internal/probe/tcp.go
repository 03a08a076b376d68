package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/rileyhilliard/pingplot/internal/history"
)

// DefaultTCPPort is the port used for TCP connect probes.
const DefaultTCPPort = 80

// TCPProber measures the time to complete (or be refused) a TCP handshake.
// It needs no privileges, which makes it the fallback when raw ICMP sockets
// cannot be opened.
type TCPProber struct {
	port   string
	dialer net.Dialer
}

// NewTCP creates a TCP connect prober for the given port.
func NewTCP(port int) *TCPProber {
	if port <= 0 {
		port = DefaultTCPPort
	}
	return &TCPProber{port: strconv.Itoa(port)}
}

// Probe dials addr:port. A refused connection still proves the host answered,
// so it is reported as a reply with the measured round trip.
func (p *TCPProber) Probe(ctx context.Context, addr net.IPAddr) (time.Duration, error) {
	start := time.Now()

	conn, err := p.dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr.String(), p.port))
	rtt := time.Since(start)
	if err != nil {
		if isRefused(err) {
			return rtt, nil
		}
		return 0, err
	}
	conn.Close()

	return rtt, nil
}

func (p *TCPProber) Method() Method { return MethodTCP }

func (p *TCPProber) Close() error { return nil }

func isRefused(err error) bool {
	return categorize(err) == history.ErrRefused
}
