package relay

// Package relay moves bytes between a client connection and a target
// connection, in both directions, until either side closes, errors, or
// goes idle. It has no protocol awareness.
//
// On Linux both sockets are duplicated, switched to non-blocking mode,
// and driven by a per-session epoll loop: wait for readiness on either
// socket, read once into a fixed 4096-byte buffer, write what arrived to
// the other socket in full, re-arm both registrations, repeat. A
// half-close from either peer finishes the whole session; whatever the
// other socket still had queued is abandoned.
//
// Elsewhere, and for connections that don't expose a file descriptor, an
// equivalent goroutine-per-direction pump runs on the runtime's own
// readiness notifications.
