package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
	"github.com/patrickmn/go-cache"
)

// Client resolves by sending A queries straight to one DNS server,
// bypassing the platform resolver. Positive answers are cached for the
// minimum TTL across the answer records.
type Client struct {
	server string
	client *dns.Client
	cache  *cache.Cache
}

// NewClient returns a Client querying server, an ip or ip:port (port 53
// assumed if missing). timeout bounds each query exchange.
func NewClient(server string, timeout time.Duration) *Client {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	return &Client{
		server: server,
		client: &dns.Client{Timeout: timeout},
		cache:  cache.New(cache.NoExpiration, time.Minute),
	}
}

// LookupIPv4 queries the configured server for host's A records. Cached
// answers are served until their TTL runs out; NXDOMAIN surfaces as the
// standard "no such host" DNS error.
func (c *Client) LookupIPv4(ctx context.Context, host string) ([]net.IP, error) {
	fqdn := dns.Fqdn(host)

	if v, ok := c.cache.Get(fqdn); ok {
		return v.([]net.IP), nil
	}

	m := new(dns.Msg)
	m.SetQuestion(fqdn, dns.TypeA)
	m.RecursionDesired = true

	resp, _, err := c.client.ExchangeContext(ctx, m, c.server)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", host, err)
	}

	if resp.Rcode == dns.RcodeNameError {
		return nil, &net.DNSError{Err: "no such host", Name: host, Server: c.server, IsNotFound: true}
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("lookup %s: server returned %s", host, dns.RcodeToString[resp.Rcode])
	}

	var ips []net.IP
	minTTL := uint32(0)
	for _, rr := range resp.Answer {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		ips = append(ips, a.A.To4())
		if ttl := rr.Header().Ttl; minTTL == 0 || ttl < minTTL {
			minTTL = ttl
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("lookup %s: %w", host, ErrNoIPv4)
	}

	if minTTL > 0 {
		c.cache.Set(fqdn, ips, time.Duration(minTTL)*time.Second)
	}
	return ips, nil
}
