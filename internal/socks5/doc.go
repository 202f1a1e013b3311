package socks5

// Package socks5 implements the server side of the SOCKS5 wire protocol
// subset that sluice speaks: method selection, the CONNECT request with
// IPv4 and domain-name destinations, and the reply frame.
//
// Frames are decoded with exact-length reads straight off the connection,
// never through a buffered reader, so no client bytes beyond the handshake
// are consumed and the relay that follows inherits a clean socket.
//
// Only the server side lives here. The client side of the protocol (used
// for upstream chaining and as a counterparty in tests) comes from
// github.com/txthinking/socks5 rather than being duplicated.
