package resolver

// Package resolver turns destination domain names into IPv4 addresses for
// the dialer. Only IPv4 matters here: the SOCKS5 reply frame sluice speaks
// has no IPv6 form, so a name that resolves to nothing but IPv6 is treated
// the same as an unsupported address type.
//
// Two implementations are provided: System delegates to the platform
// resolver, and Client queries a specific DNS server directly, caching
// answers for their advertised TTL.
