package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNoIPv4 reports that a name exists but has no IPv4 addresses. The
// dispatcher maps it to an "address type not supported" reply rather than
// a general failure.
var ErrNoIPv4 = errors.New("resolver: no IPv4 addresses")

// Resolver resolves a domain name to at least one concrete IPv4 address.
// An empty result is always an error, never an empty slice.
type Resolver interface {
	LookupIPv4(ctx context.Context, host string) ([]net.IP, error)
}

// System resolves through net.DefaultResolver, so it honors
// /etc/nsswitch.conf, /etc/hosts, and the usual environment knobs.
type System struct{}

// LookupIPv4 resolves host and keeps only the IPv4 addresses.
func (System) LookupIPv4(ctx context.Context, host string) ([]net.IP, error) {
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", host, err)
	}

	v4 := make([]net.IP, 0, len(ips))
	for _, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			v4 = append(v4, ip4)
		}
	}
	if len(v4) == 0 {
		return nil, fmt.Errorf("lookup %s: %w", host, ErrNoIPv4)
	}
	return v4, nil
}
