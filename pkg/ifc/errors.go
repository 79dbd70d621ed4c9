package ifc

import "fmt"

// Kind enumerates the error taxonomy callers and lifecycle listeners
// can switch on (§7).
type Kind string

const (
	KindDiscoveryTimeout Kind = "discovery_timeout"
	KindManifestError    Kind = "manifest_error"
	KindTransportError   Kind = "transport_error"
	KindTimeout          Kind = "timeout"
	KindUnknownCommand   Kind = "unknown_command"
	KindTypeMismatch     Kind = "type_mismatch"
	KindNotConnected     Kind = "not_connected"
)

// ProtocolError is the error type every caller-facing failure, and
// every fatal error reported as a `msg` event of kind "error", is
// wrapped in. Per-session drop and timeout `msg` events carry the raw
// socket error instead. It carries a stable Kind
// for programmatic dispatch on top of the usual error string, and
// unwraps to whatever underlying cause produced it (e.g. a *net.OpError
// for TransportError).
type ProtocolError struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *ProtocolError) Unwrap() error { return e.Cause }

func newProtocolError(kind Kind, msg string, cause error) *ProtocolError {
	return &ProtocolError{Kind: kind, Msg: msg, Cause: cause}
}

// Is reports whether err is a ProtocolError of the given kind, so
// callers can write `errors.Is(err, ifc.ErrNotConnected)`-style checks
// against the sentinel values below.
func (e *ProtocolError) Is(target error) bool {
	other, ok := target.(*ProtocolError)
	return ok && other.Kind == e.Kind && other.Cause == nil && other.Msg == ""
}

// Sentinel ProtocolError values with no cause or message, matched via
// errors.Is against a concrete error's Kind — the ProtocolError
// equivalent of a plain sentinel error.
var (
	ErrDiscoveryTimeout = &ProtocolError{Kind: KindDiscoveryTimeout}
	ErrManifest         = &ProtocolError{Kind: KindManifestError}
	ErrTransport        = &ProtocolError{Kind: KindTransportError}
	ErrTimeout          = &ProtocolError{Kind: KindTimeout}
	ErrUnknownCommand   = &ProtocolError{Kind: KindUnknownCommand}
	ErrTypeMismatch     = &ProtocolError{Kind: KindTypeMismatch}
	ErrNotConnected     = &ProtocolError{Kind: KindNotConnected}
)
