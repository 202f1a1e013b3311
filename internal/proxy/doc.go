package proxy

// Package proxy implements sluice's listener-side SOCKS5 server.
//
// The Server owns the lifecycle of one session per accepted connection:
// handshake, destination resolution, outbound dial, the reply frame, and
// finally the byte relay. Shared plumbing such as the keepalive-applying
// listener also lives here.
