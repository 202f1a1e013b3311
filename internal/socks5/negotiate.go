package socks5

import (
	"fmt"
	"io"
)

// NegotiateMethod runs the method-selection phase on rw and returns the
// version byte the client sent, which later frames echo back.
//
// The server always selects "no authentication required", even when the
// client offered only authenticated methods; a strict client will then
// drop the connection. RFC 1928 says to answer 0xFF in that case — this
// server deliberately does not.
func NegotiateMethod(rw io.ReadWriter) (byte, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(rw, hdr[:]); err != nil {
		return 0, fmt.Errorf("read method header: %w", err)
	}
	ver := hdr[0]

	// A method count of zero is a valid frame with nothing to read.
	methods := make([]byte, int(hdr[1]))
	if _, err := io.ReadFull(rw, methods); err != nil {
		return 0, fmt.Errorf("read methods: %w", err)
	}

	if _, err := rw.Write([]byte{ver, MethodNoAuth}); err != nil {
		return 0, fmt.Errorf("write method selection: %w", err)
	}
	return ver, nil
}

// ReadRequest reads the command request that follows method selection and
// returns the decoded destination. Anything but CONNECT fails with
// ErrCommandNotAllowed before the address bytes are touched.
func ReadRequest(r io.Reader) (Dest, error) {
	// Version, command, reserved. The address type that follows belongs
	// to the destination codec.
	var hdr [3]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Dest{}, fmt.Errorf("read request header: %w", err)
	}

	if cmd := hdr[1]; cmd != CmdConnect {
		return Dest{}, fmt.Errorf("command 0x%02x: %w", cmd, ErrCommandNotAllowed)
	}

	dest, err := ReadDest(r)
	if err != nil {
		return Dest{}, fmt.Errorf("read destination: %w", err)
	}
	return dest, nil
}
