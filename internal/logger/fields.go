package logger

// Standard field keys for structured logging across the engine.
// Use these keys consistently so log lines stay queryable across sessions.
const (
	// Distributed tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// Session identification
	KeySession      = "session"       // "command" or "poll"
	KeyConnectionID = "connection_id" // per-connection uuid
	KeyPeer         = "peer"          // host:port

	// Manifest / command
	KeyCommandID = "command_id"
	KeyName      = "name"
	KeyWireType  = "wire_type"

	// Wait list / queue / poll
	KeyWaitListLen = "wait_list_len"
	KeyQueueLen    = "queue_len"
	KeyCursor      = "cursor"

	// Framing
	KeyPayloadLen = "payload_len"
	KeyBufferLen  = "buffer_len"

	// Errors and timing
	KeyError     = "error"
	KeyErrorKind = "error_kind"
	KeyDuration  = "duration_ms"
	KeyAttempt   = "attempt"
)
