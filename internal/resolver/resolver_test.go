package resolver

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/miekg/dns"
)

// startDNSServer runs a miekg/dns UDP server on a loopback port that
// answers a fixed zone: known.test has two A records, v6only.test has only
// an AAAA record, and everything else is NXDOMAIN. It counts the queries
// it serves so cache behavior is observable.
func startDNSServer(t *testing.T) (addr string, queries *atomic.Int64) {
	t.Helper()

	queries = new(atomic.Int64)

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		queries.Add(1)

		m := new(dns.Msg)
		m.SetReply(r)

		q := r.Question[0]
		hdr := dns.RR_Header{Name: q.Name, Class: dns.ClassINET, Ttl: 300}

		switch q.Name {
		case "known.test.":
			if q.Qtype == dns.TypeA {
				hdr.Rrtype = dns.TypeA
				m.Answer = append(m.Answer,
					&dns.A{Hdr: hdr, A: net.IPv4(127, 0, 0, 1)},
					&dns.A{Hdr: hdr, A: net.IPv4(127, 0, 0, 2)},
				)
			}
		case "v6only.test.":
			if q.Qtype == dns.TypeAAAA {
				hdr.Rrtype = dns.TypeAAAA
				m.Answer = append(m.Answer, &dns.AAAA{Hdr: hdr, AAAA: net.ParseIP("2001:db8::1")})
			}
		default:
			m.Rcode = dns.RcodeNameError
		}

		_ = w.WriteMsg(m)
	})

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	srv := &dns.Server{PacketConn: pc, Handler: handler}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String(), queries
}

func TestClientLookupIPv4(t *testing.T) {
	addr, _ := startDNSServer(t)
	c := NewClient(addr, 2*time.Second)

	ips, err := c.LookupIPv4(context.Background(), "known.test")
	if err != nil {
		t.Fatal(err)
	}
	if len(ips) != 2 {
		t.Fatalf("got %d addresses, want 2", len(ips))
	}
	if !ips[0].Equal(net.IPv4(127, 0, 0, 1)) || !ips[1].Equal(net.IPv4(127, 0, 0, 2)) {
		t.Fatalf("unexpected addresses %v", ips)
	}
}

func TestClientCachesAnswers(t *testing.T) {
	addr, queries := startDNSServer(t)
	c := NewClient(addr, 2*time.Second)

	for range 3 {
		if _, err := c.LookupIPv4(context.Background(), "known.test"); err != nil {
			t.Fatal(err)
		}
	}

	if n := queries.Load(); n != 1 {
		t.Fatalf("server saw %d queries, want 1", n)
	}
}

func TestClientNXDOMAIN(t *testing.T) {
	addr, _ := startDNSServer(t)
	c := NewClient(addr, 2*time.Second)

	_, err := c.LookupIPv4(context.Background(), "nonexistent.invalid")
	var dnsErr *net.DNSError
	if !errors.As(err, &dnsErr) || !dnsErr.IsNotFound {
		t.Fatalf("err = %v, want a not-found DNS error", err)
	}
}

func TestClientNoIPv4(t *testing.T) {
	addr, _ := startDNSServer(t)
	c := NewClient(addr, 2*time.Second)

	_, err := c.LookupIPv4(context.Background(), "v6only.test")
	if !errors.Is(err, ErrNoIPv4) {
		t.Fatalf("err = %v, want ErrNoIPv4", err)
	}
}

func TestNewClientDefaultPort(t *testing.T) {
	c := NewClient("192.0.2.1", time.Second)
	if c.server != "192.0.2.1:53" {
		t.Fatalf("server = %q, want port 53 applied", c.server)
	}

	c = NewClient("192.0.2.1:5353", time.Second)
	if c.server != "192.0.2.1:5353" {
		t.Fatalf("server = %q, want explicit port kept", c.server)
	}
}

func TestSystemRejectsNoIPv4(t *testing.T) {
	// The system resolver answers for literals without touching the
	// network, so an IPv6 literal exercises the v4 filter hermetically.
	_, err := System{}.LookupIPv4(context.Background(), "::1")
	if !errors.Is(err, ErrNoIPv4) {
		t.Fatalf("err = %v, want ErrNoIPv4", err)
	}

	ips, err := System{}.LookupIPv4(context.Background(), "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if len(ips) != 1 || !ips[0].Equal(net.IPv4(127, 0, 0, 1)) {
		t.Fatalf("unexpected addresses %v", ips)
	}
}
