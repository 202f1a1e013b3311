package dialer

import (
	"context"
	"fmt"
	"net"

	"github.com/txthinking/socks5"
)

type SOCKS5ProxyDialer struct {
	cfg       Config
	proxyAddr string
	user      string
	pass      string
}

func NewSOCKS5ProxyDialer(cfg Config, proxyAddr, user, pass string) Dialer {
	return &SOCKS5ProxyDialer{cfg: cfg, proxyAddr: proxyAddr, user: user, pass: pass}
}

func (d *SOCKS5ProxyDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if network != "tcp" {
		return nil, fmt.Errorf("socks5 proxy dial %s %s: unsupported network", network, address)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("socks5 proxy dial %s %s: %w", network, address, err)
	}

	// The client takes its TCP timeout in whole seconds.
	tcpTimeout := 0
	if d.cfg.DialTimeout > 0 {
		tcpTimeout = max(1, int(d.cfg.DialTimeout.Seconds()))
	}

	client, err := socks5.NewClient(d.proxyAddr, d.user, d.pass, tcpTimeout, 0)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy init: %w", err)
	}

	c, err := client.Dial(network, address)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy dial %s %s: %w", network, address, err)
	}

	if tc, ok := c.(*net.TCPConn); ok {
		_ = tc.SetKeepAliveConfig(d.cfg.KeepAlive)
	}

	return c, nil
}
