// Package session owns matchmaking and per-game authoritative state: the
// waiting queue, the connection and game registries, protocol dispatch and
// teardown. All mutation happens on the hub's single event loop, so none
// of the registry state needs locking.
package session

import "netchess/pkg/wire"

// Conn is the capability the transport hands the session layer for one
// client connection. The session never owns socket lifecycles; it only
// sends events and may ask for a disconnect.
type Conn interface {
	// ID is an opaque identity, stable for the life of the connection.
	ID() string
	// Send delivers one event to the client.
	Send(ev *wire.Event) error
	// Disconnect asks the transport to close the connection. The
	// transport will still report the closure as a disconnect event.
	Disconnect()
}
