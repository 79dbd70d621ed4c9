package session

import "errors"

var (
	// ErrNotConnected is returned by Write when the session has no live
	// connection attached, e.g. between a drop and a successful redial.
	ErrNotConnected = errors.New("session: not connected")

	// ErrDialFailed wraps any failure to establish the long-lived TCP
	// connection for a session, surfaced to the embedder as
	// TransportError (§7).
	ErrDialFailed = errors.New("session: dial failed")

	// ErrReconnectDisabled is returned when a session drops and the
	// configuration forbids automatic reconnection (§4.4, §4.8).
	ErrReconnectDisabled = errors.New("session: reconnect disabled")
)
