package socks5

import (
	"fmt"
	"io"
	"net"
)

// WriteReply frames a reply for code with bound as the bound address and
// writes it to w in one call. A failed write is fatal for the session;
// there is no retry.
func WriteReply(w io.Writer, ver byte, code ReplyCode, bound net.Addr) error {
	if _, err := w.Write(AppendReply(nil, ver, code, bound)); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}
