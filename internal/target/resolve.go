package target

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rileyhilliard/pingplot/internal/errors"
)

// Resolver looks up the addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// NewResolver returns the system resolver, or a pure-Go resolver that sends
// every query to nameserver when one is given ("1.1.1.1" or "1.1.1.1:53").
func NewResolver(nameserver string) *net.Resolver {
	if nameserver == "" {
		return net.DefaultResolver
	}
	if _, _, err := net.SplitHostPort(nameserver); err != nil {
		nameserver = net.JoinHostPort(nameserver, "53")
	}

	dialer := func(ctx context.Context, network, address string) (net.Conn, error) {
		d := net.Dialer{}
		return d.DialContext(ctx, "udp", nameserver)
	}
	return &net.Resolver{PreferGo: true, Dial: dialer}
}

// ResolveOptions controls ResolveAll.
type ResolveOptions struct {
	// Family is "ip" (any), "ip4" or "ip6".
	Family string
	// Timeout bounds each lookup. Zero means no per-lookup bound.
	Timeout time.Duration
	// Capacity is the history capacity of each created target.
	Capacity int
	// Aliases maps SSH config aliases to the HostName to resolve instead.
	Aliases map[string]string
}

// ResolveAll resolves every label once and returns the targets that
// resolved, in input order. Each failed label produces a RESOLVE warning and
// is dropped. When nothing resolves the error is a NO_TARGETS error.
func ResolveAll(ctx context.Context, r Resolver, labels []string, opts ResolveOptions) ([]*Target, []error, error) {
	var (
		targets  []*Target
		warnings []error
		seen     = make(map[string]bool)
	)

	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true

		host := label
		if hostname, ok := opts.Aliases[label]; ok {
			host = hostname
		}

		addr, err := resolveOne(ctx, r, host, opts)
		if err != nil {
			warnings = append(warnings, errors.WrapWithCode(err, errors.ErrResolve,
				fmt.Sprintf("Cannot resolve %s, not monitoring it", label),
				""))
			continue
		}

		t := New(label, addr, opts.Capacity)
		t.Host = host
		targets = append(targets, t)
	}

	if len(targets) == 0 {
		return nil, warnings, errors.NewNoTargets(len(seen))
	}
	return targets, warnings, nil
}

func resolveOne(ctx context.Context, r Resolver, host string, opts ResolveOptions) (net.IPAddr, error) {
	// literal addresses, including zoned IPv6, skip DNS
	ipStr, zone, _ := strings.Cut(host, "%")
	if ip := net.ParseIP(ipStr); ip != nil {
		addr := net.IPAddr{IP: ip, Zone: zone}
		if !familyMatches(ip, opts.Family) {
			return net.IPAddr{}, fmt.Errorf("%s is not an %s address", host, familyName(opts.Family))
		}
		return addr, nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	addrs, err := r.LookupIPAddr(ctx, host)
	if err != nil {
		return net.IPAddr{}, err
	}
	for _, a := range addrs {
		if familyMatches(a.IP, opts.Family) {
			return a, nil
		}
	}
	return net.IPAddr{}, fmt.Errorf("no %s address found for %s", familyName(opts.Family), host)
}

func familyMatches(ip net.IP, family string) bool {
	switch family {
	case "ip4":
		return ip.To4() != nil
	case "ip6":
		return ip.To4() == nil
	default:
		return true
	}
}

func familyName(family string) string {
	switch family {
	case "ip4":
		return "IPv4"
	case "ip6":
		return "IPv6"
	default:
		return "IP"
	}
}
