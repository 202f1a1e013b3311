//go:build linux

package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const epollSupported = true

// epollStreams drives one session over duplicated, non-blocking
// descriptors with a session-private epoll instance. The calling
// goroutine's thread parks in the epoll wait; reads and writes themselves
// never block.
func epollStreams(ctx context.Context, a, b filer, idle time.Duration) error {
	af, err := a.File()
	if err != nil {
		return fmt.Errorf("dup client socket: %w", err)
	}
	defer af.Close()

	bf, err := b.File()
	if err != nil {
		return fmt.Errorf("dup target socket: %w", err)
	}
	defer bf.Close()

	afd := int(af.Fd())
	bfd := int(bf.Fd())

	if err := unix.SetNonblock(afd, true); err != nil {
		return fmt.Errorf("set nonblock: %w", err)
	}
	if err := unix.SetNonblock(bfd, true); err != nil {
		return fmt.Errorf("set nonblock: %w", err)
	}

	// Both directions of both sockets come down together however the
	// session ends; in-flight data on the surviving side is abandoned.
	// The same shutdown runs on context cancellation, which also wakes
	// the epoll wait below.
	teardown := func() {
		shutdownFile(af)
		shutdownFile(bf)
	}
	defer teardown()

	stop := context.AfterFunc(ctx, teardown)
	defer stop()

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return fmt.Errorf("epoll create: %w", err)
	}
	defer unix.Close(epfd)

	for _, fd := range [...]int{afd, bfd} {
		ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLRDHUP | unix.EPOLLET, Fd: int32(fd)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
			return fmt.Errorf("epoll add: %w", err)
		}
	}

	msec := -1
	if idle > 0 {
		msec = max(1, int(idle.Milliseconds()))
	}

	buf := getBuffer()
	defer putBuffer(buf)

	var events [2]unix.EpollEvent
	for {
		n, err := unix.EpollWait(epfd, events[:], msec)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("epoll wait: %w", err)
		}
		if n == 0 {
			return ErrIdleTimeout
		}

		for _, ev := range events[:n] {
			src, dst := afd, bfd
			if int(ev.Fd) == bfd {
				src, dst = bfd, afd
			}
			done, err := pump(src, dst, buf, msec)
			if done || err != nil {
				return err
			}
		}

		// Re-arm both registrations. A MOD re-queues an edge for data
		// that was already buffered, so the one-read-per-event loop
		// never strands bytes and converges to an idle wait otherwise.
		for _, fd := range [...]int{afd, bfd} {
			ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLRDHUP | unix.EPOLLET, Fd: int32(fd)}
			if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
				return fmt.Errorf("epoll rearm: %w", err)
			}
		}
	}
}

// pump moves at most one buffer from src to dst. done reports that the
// session is over: end-of-stream and peer failures finish it quietly,
// matching how relays normally end.
func pump(src, dst int, buf []byte, msec int) (done bool, err error) {
	n, rerr := unix.Read(src, buf)
	switch {
	case rerr == unix.EAGAIN || rerr == unix.EINTR:
		return false, nil
	case rerr != nil || n == 0:
		return true, nil
	}

	if werr := writeFull(dst, buf[:n], msec); werr != nil {
		if errors.Is(werr, ErrIdleTimeout) {
			return true, werr
		}
		return true, nil
	}
	return false, nil
}

// writeFull writes all of b to fd, polling out transient full-buffer
// conditions. A destination that stays unwritable past the idle bound
// ends the session as idle.
func writeFull(fd int, b []byte, msec int) error {
	for len(b) > 0 {
		n, err := unix.Write(fd, b)
		switch {
		case n > 0:
			b = b[n:]
		case err == unix.EAGAIN:
			pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
			ready, perr := unix.Poll(pfd, msec)
			if perr != nil && perr != unix.EINTR {
				return perr
			}
			if perr == nil && ready == 0 {
				return ErrIdleTimeout
			}
		case err == unix.EINTR:
			// retry
		case err != nil:
			return err
		default:
			return io.ErrShortWrite
		}
	}
	return nil
}

// shutdownFile shuts down both directions of the socket behind f. Going
// through SyscallConn pins the descriptor, so this is safe against a
// concurrent Close.
func shutdownFile(f *os.File) {
	rc, err := f.SyscallConn()
	if err != nil {
		return
	}
	_ = rc.Control(func(fd uintptr) {
		_ = unix.Shutdown(int(fd), unix.SHUT_RDWR)
	})
}
