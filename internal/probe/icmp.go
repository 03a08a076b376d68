package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	ping "github.com/digineo/go-ping"
)

// ICMPProber sends ICMP echo requests over raw sockets. One instance is
// shared by every target; go-ping matches replies to requests by sequence.
type ICMPProber struct {
	pinger *ping.Pinger
}

// NewICMP opens the raw ICMP sockets for the requested address family.
// Without the needed privilege this fails with an error satisfying
// errors.Is(err, os.ErrPermission).
func NewICMP(opts Options) (*ICMPProber, error) {
	bind4, bind6 := "0.0.0.0", "::"
	switch opts.Family {
	case "ip4":
		bind6 = ""
	case "ip6":
		bind4 = ""
	}

	p, err := ping.New(bind4, bind6)
	if err != nil && bind4 != "" && bind6 != "" && !errors.Is(err, os.ErrPermission) {
		// hosts without IPv6 fail to open the v6 socket; IPv4 alone still works
		p, err = ping.New(bind4, "")
	}
	if err != nil {
		return nil, err
	}

	if opts.PayloadSize > 0 {
		p.SetPayloadSize(uint16(opts.PayloadSize))
	}
	return &ICMPProber{pinger: p}, nil
}

// Probe sends a single echo request. When ctx expires first the returned
// error reports Timeout() == true.
func (p *ICMPProber) Probe(ctx context.Context, addr net.IPAddr) (time.Duration, error) {
	return p.pinger.PingContext(ctx, &addr)
}

func (p *ICMPProber) Method() Method { return MethodICMP }

// Close releases the raw sockets.
func (p *ICMPProber) Close() error {
	p.pinger.Close()
	return nil
}
