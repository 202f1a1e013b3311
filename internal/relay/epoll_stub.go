//go:build !linux

package relay

import (
	"context"
	"errors"
	"time"
)

const epollSupported = false

func epollStreams(_ context.Context, _, _ filer, _ time.Duration) error {
	return errors.New("relay: epoll is only supported on linux")
}
