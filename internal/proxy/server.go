package proxy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/die-net/sluice/internal/relay"
	"github.com/die-net/sluice/internal/resolver"
	"github.com/die-net/sluice/internal/socks5"
)

// acceptBackoff is how long Serve pauses after a transient accept error
// before trying again.
const acceptBackoff = 100 * time.Millisecond

// Server is the SOCKS5 connection dispatcher. Each accepted connection is
// driven through handshake, resolve, dial, reply, and relay on its own
// goroutine, then both sockets are closed.
type Server struct {
	ctx     context.Context
	cfg     Config
	verbose bool
}

// NewServer returns a Server using cfg. Canceling ctx ends every running
// relay through its normal teardown path; verbose enables per-connection
// error logging.
func NewServer(ctx context.Context, cfg Config, verbose bool) *Server {
	return &Server{ctx: ctx, cfg: cfg, verbose: verbose}
}

// Serve accepts connections from ln until it is closed. Per-connection
// accept errors are logged and accepting continues; they never take the
// listener down.
func (s *Server) Serve(ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("socks5 accept: %v", err)
			time.Sleep(acceptBackoff)
			continue
		}

		go s.handle(c)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("socks5 %s: session panic: %v", conn.RemoteAddr(), r)
		}
	}()

	if err := s.session(conn); err != nil && s.verbose {
		log.Printf("socks5 %s: %v", conn.RemoteAddr(), err)
	}
}

// session runs one client from handshake to relay. The caller closes conn;
// the target is closed here. Whatever goes wrong, at most one reply frame
// is ever written.
func (s *Server) session(conn net.Conn) error {
	if s.cfg.NegotiationTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.cfg.NegotiationTimeout))
	}

	ver, err := socks5.NegotiateMethod(conn)
	if err != nil {
		return fmt.Errorf("negotiate: %w", err)
	}

	// Handshake failures past this point close the connection without a
	// reply; the client learns nothing about why.
	dest, err := socks5.ReadRequest(conn)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}

	target, code, err := s.connect(dest)
	if err != nil {
		_ = socks5.WriteReply(conn, ver, code, nil)
		return fmt.Errorf("connect %s: %w", dest, err)
	}
	defer target.Close()

	if err := socks5.WriteReply(conn, ver, socks5.ReplySucceeded, target.LocalAddr()); err != nil {
		return fmt.Errorf("connect %s: %w", dest, err)
	}

	// The negotiation deadline must not outlive the handshake, or it
	// would fire mid-relay.
	_ = conn.SetDeadline(time.Time{})

	if err := relay.Streams(s.ctx, conn, target, s.cfg.IdleTimeout); err != nil {
		return fmt.Errorf("relay %s: %w", dest, err)
	}
	return nil
}

// connect resolves dest if needed and dials it, returning the reply code
// to send on failure.
func (s *Server) connect(dest socks5.Dest) (net.Conn, socks5.ReplyCode, error) {
	ctx := s.ctx
	if s.cfg.NegotiationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.NegotiationTimeout)
		defer cancel()
	}

	addr := dest.String()
	if dest.IsDomain() {
		ips, err := s.cfg.Resolver.LookupIPv4(ctx, dest.Domain)
		if err != nil {
			if errors.Is(err, resolver.ErrNoIPv4) {
				return nil, socks5.ReplyAddrNotSupported, err
			}
			return nil, socks5.ReplyGeneralFailure, err
		}
		addr = (&net.TCPAddr{IP: ips[0], Port: int(dest.Port)}).String()
	}

	target, err := s.cfg.Dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, socks5.ReplyGeneralFailure, err
	}
	return target, socks5.ReplySucceeded, nil
}
