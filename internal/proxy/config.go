package proxy

import (
	"net"
	"time"

	"github.com/die-net/sluice/internal/dialer"
	"github.com/die-net/sluice/internal/resolver"
)

type Config struct {
	// NegotiationTimeout bounds the handshake, resolve, dial, and reply
	// steps of a session. It does not apply once the relay is running.
	NegotiationTimeout time.Duration

	// IdleTimeout ends a relay on which no data moved in either
	// direction. Zero leaves relays unbounded.
	IdleTimeout time.Duration

	KeepAlive net.KeepAliveConfig

	Dialer   dialer.Dialer
	Resolver resolver.Resolver
}
