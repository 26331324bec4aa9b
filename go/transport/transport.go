// Package transport implements the abstract "send one request, await one
// response" channel the resolver core dispatches through (spec section 4.2),
// with two concrete implementations: a child process reached over three
// pipes, and an in-process service client keyed by correlation id.
package transport

import (
	"context"

	"github.com/flowdocs/docresolver/go/wire"
)

// Transport is a bidirectional request/response channel to a resolver peer.
// Implementations must strictly serialize calls: each SendAndWait owes the
// caller exactly one response and must not interleave with another call.
//
// A nil request is legal only on the first call against a ChildProcessTransport
// and means "read the handshake"; behavior on a later nil call is undefined.
type Transport interface {
	SendAndWait(ctx context.Context, req *wire.Request) (*wire.Response, error)

	// Close terminates the transport and releases any owned resources.
	// It is safe to call more than once.
	Close() error
}
