package dialer

// Package dialer provides outbound dialing implementations used by sluice.
//
// Dialers implement a small interface (DialContext) and are used by the
// SOCKS5 server to establish outbound connections either directly or via
// an upstream SOCKS5 proxy.
