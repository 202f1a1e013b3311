package socks5

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"unicode/utf8"
)

// Dest is a CONNECT destination: an IPv4 literal or a domain name that
// still needs resolving, plus a port.
type Dest struct {
	IP     net.IP // set for AtypIPv4 requests
	Domain string // set for AtypDomain requests
	Port   uint16
}

// IsDomain reports whether the destination needs name resolution before
// it can be dialed.
func (d Dest) IsDomain() bool { return d.Domain != "" }

// Host returns the domain name or the IP literal, without the port.
func (d Dest) Host() string {
	if d.IsDomain() {
		return d.Domain
	}
	return d.IP.String()
}

// String returns the destination in dialable host:port form.
func (d Dest) String() string {
	return net.JoinHostPort(d.Host(), strconv.Itoa(int(d.Port)))
}

// ReadDest decodes one destination from r: an address-type byte, the
// address in that type's encoding, and a big-endian port.
//
// IPv6 (and any unknown address type) fails with ErrAddrTypeNotSupported;
// the reply frame has no IPv6 form here, so such requests never get far
// enough to dial.
func ReadDest(r io.Reader) (Dest, error) {
	var atyp [1]byte
	if _, err := io.ReadFull(r, atyp[:]); err != nil {
		return Dest{}, fmt.Errorf("read address type: %w", err)
	}

	switch atyp[0] {
	case AtypIPv4:
		ip := make(net.IP, net.IPv4len)
		if _, err := io.ReadFull(r, ip); err != nil {
			return Dest{}, fmt.Errorf("read IPv4 address: %w", err)
		}
		port, err := readPort(r)
		if err != nil {
			return Dest{}, err
		}
		return Dest{IP: ip, Port: port}, nil

	case AtypDomain:
		var n [1]byte
		if _, err := io.ReadFull(r, n[:]); err != nil {
			return Dest{}, fmt.Errorf("read domain length: %w", err)
		}
		if n[0] == 0 {
			return Dest{}, errors.New("empty domain name")
		}
		name := make([]byte, n[0])
		if _, err := io.ReadFull(r, name); err != nil {
			return Dest{}, fmt.Errorf("read domain: %w", err)
		}
		if !utf8.Valid(name) {
			return Dest{}, fmt.Errorf("domain %q is not valid UTF-8", name)
		}
		port, err := readPort(r)
		if err != nil {
			return Dest{}, err
		}
		return Dest{Domain: string(name), Port: port}, nil

	default:
		return Dest{}, fmt.Errorf("address type 0x%02x: %w", atyp[0], ErrAddrTypeNotSupported)
	}
}

func readPort(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("read port: %w", err)
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// AppendReply appends a reply frame to b: version, code, a reserved zero,
// then the bound address as ATYP 0x01 with four octets and a big-endian
// port. Only IPv4 bounds are representable; any other bound degrades to
// 0.0.0.0 with the port kept, never to a frame with a mismatched length.
func AppendReply(b []byte, ver byte, code ReplyCode, bound net.Addr) []byte {
	ip := net.IPv4zero
	port := 0
	if ta, ok := bound.(*net.TCPAddr); ok && ta != nil {
		if ta.IP != nil {
			ip = ta.IP
		}
		port = ta.Port
	}

	ip4 := ip.To4()
	if ip4 == nil {
		ip4 = net.IPv4zero.To4()
	}

	b = append(b, ver, byte(code), 0x00, AtypIPv4)
	b = append(b, ip4...)
	return binary.BigEndian.AppendUint16(b, uint16(port))
}
