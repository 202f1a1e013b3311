package socks5

import "errors"

// Version is the protocol version byte in every SOCKS5 frame.
const Version byte = 0x05

// MethodNoAuth is the "no authentication required" method identifier.
// It is the only method this server ever selects.
const MethodNoAuth byte = 0x00

// Request commands from RFC 1928 section 4. Only CmdConnect is served;
// BIND and UDP ASSOCIATE are rejected during the handshake.
const (
	CmdConnect      byte = 0x01
	CmdBind         byte = 0x02
	CmdUDPAssociate byte = 0x03
)

// Address types from RFC 1928 section 5.
const (
	AtypIPv4   byte = 0x01
	AtypDomain byte = 0x03
	AtypIPv6   byte = 0x04
)

// ReplyCode is the status field of a SOCKS5 reply, RFC 1928 section 6.
// Exactly one reply is written per session, before any relaying.
type ReplyCode byte

const (
	ReplySucceeded           ReplyCode = 0x00
	ReplyGeneralFailure      ReplyCode = 0x01
	ReplyNotAllowed          ReplyCode = 0x02
	ReplyNetworkUnreachable  ReplyCode = 0x03
	ReplyHostUnreachable     ReplyCode = 0x04
	ReplyConnectionRefused   ReplyCode = 0x05
	ReplyTTLExpired          ReplyCode = 0x06
	ReplyCommandNotSupported ReplyCode = 0x07
	ReplyAddrNotSupported    ReplyCode = 0x08
)

// Errors the dispatcher branches on. Handshake failures carrying either of
// these (or any other error) close the session without a reply.
var (
	ErrCommandNotAllowed    = errors.New("socks5: command not allowed")
	ErrAddrTypeNotSupported = errors.New("socks5: address type not supported")
)
