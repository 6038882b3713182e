package core

import "github.com/dkeye/meetsignal/internal/domain"

// Frame is an encoded outbound message.
type Frame []byte

// SignalConnection abstracts a single client messaging channel.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Transport is the Gateway capability the core sends through.
// All methods are fire-and-forget and must not block on the network.
type Transport interface {
	// Send delivers to one connection; unknown connections are ignored.
	Send(to domain.ConnID, env Envelope)
	// SendAll delivers to every open connection on the server.
	SendAll(env Envelope)
	// Close severs a connection; the gateway then reports the disconnect.
	Close(id domain.ConnID)
}
