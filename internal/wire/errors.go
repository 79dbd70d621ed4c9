package wire

import "errors"

var (
	// ErrShortPayload means a payload declared its own length but the
	// buffer handed to the decoder did not contain that many bytes. The
	// demultiplexer never constructs this situation from a live
	// connection (TryDecodeFrame already waited for the full frame) but
	// it can occur when feeding hand-built payloads, e.g. in tests.
	ErrShortPayload = errors.New("wire: payload shorter than declared")

	// ErrMalformed covers structurally invalid encodings, such as a
	// negative length prefix.
	ErrMalformed = errors.New("wire: malformed payload")

	// ErrUnsupportedType is returned when asked to decode a payload
	// against a type that isn't one of the six scalar wire types
	// (e.g. Invokable, which never carries a decodable payload).
	ErrUnsupportedType = errors.New("wire: type has no scalar payload")
)
