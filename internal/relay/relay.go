package relay

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// bufSize is the relay's read buffer size. Each direction of a session
// moves at most this many bytes per readiness event.
const bufSize = 4096

// ErrIdleTimeout ends a session on which no readiness event arrived
// within the configured idle bound.
var ErrIdleTimeout = errors.New("relay: idle timeout")

type filer interface {
	File() (*os.File, error)
}

// Streams relays between a and b until either side reaches end-of-stream,
// fails, or stays idle past idle (0 disables the bound). Whatever ends
// the session, both connections are shut down in both directions before
// Streams returns; canceling ctx forces the same shutdown.
//
// Peer-caused endings (half-close, reset) return nil: they are how relays
// normally finish, not failures. ErrIdleTimeout and setup problems are
// returned.
func Streams(ctx context.Context, a, b net.Conn, idle time.Duration) error {
	if epollSupported {
		af, aok := a.(filer)
		bf, bok := b.(filer)
		if aok && bok {
			return epollStreams(ctx, af, bf, idle)
		}
	}
	return copyStreams(ctx, a, b, idle)
}

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufSize)
		return &b
	},
}

func getBuffer() []byte  { return *bufPool.Get().(*[]byte) }
func putBuffer(b []byte) { bufPool.Put(&b) }

// copyStreams is the portable pump: one goroutine per direction, relying
// on the runtime netpoller for readiness. The first direction to finish
// closes both connections, which unblocks the other.
func copyStreams(ctx context.Context, a, b net.Conn, idle time.Duration) error {
	var closeOnce sync.Once
	closeBoth := func() {
		closeOnce.Do(func() {
			_ = a.Close()
			_ = b.Close()
		})
	}
	defer closeBoth()

	stop := context.AfterFunc(ctx, closeBoth)
	defer stop()

	var g errgroup.Group
	g.Go(func() error {
		defer closeBoth()
		return pumpConn(a, b, idle)
	})
	g.Go(func() error {
		defer closeBoth()
		return pumpConn(b, a, idle)
	})
	return g.Wait()
}

// pumpConn copies src to dst one buffer at a time. Deadlines are pushed
// forward on every iteration so only a genuinely idle session trips the
// bound.
func pumpConn(src, dst net.Conn, idle time.Duration) error {
	buf := getBuffer()
	defer putBuffer(buf)

	for {
		if idle > 0 {
			_ = src.SetReadDeadline(time.Now().Add(idle))
		}
		n, err := src.Read(buf)
		if n > 0 {
			if idle > 0 {
				_ = dst.SetWriteDeadline(time.Now().Add(idle))
			}
			if _, werr := dst.Write(buf[:n]); werr != nil {
				if isTimeout(werr) {
					return ErrIdleTimeout
				}
				return nil
			}
		}
		if err != nil {
			if isTimeout(err) {
				return ErrIdleTimeout
			}
			return nil
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
