package session

import (
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/ifconnect/internal/logger"
)

// Kind distinguishes the command session from the poll session. Both
// dial the same peer and port but are otherwise fully independent
// (§4.4): separate receive buffers, separate wait lists, separate
// reconnect state.
type Kind string

const (
	KindCommand Kind = "command"
	KindPoll    Kind = "poll"
)

// Session owns the mutable state of one long-lived TCP connection: its
// receive buffer, its wait list of outstanding command ids, and an
// identity used for log correlation across reconnects.
//
// Session is not safe for concurrent use. Per the single-executor model
// the protocol engine is built on (§5), a Session's fields are read and
// mutated only from the goroutine that runs the owning Client's event
// loop; a dedicated reader goroutine (see Reader) only ever pushes raw
// bytes across a channel, never touching the Session directly.
type Session struct {
	Kind Kind
	ID   string

	conn net.Conn
	buf  Buffer
	wait WaitList
	log  *logger.Logger

	connectedAt int64 // unix nanos of the current connection's Attach, for logging only
}

// New returns an unattached session of the given kind.
func New(kind Kind, log *logger.Logger) *Session {
	return &Session{Kind: kind, ID: uuid.NewString(), log: log}
}

// Attach binds conn as the session's live connection, discarding any
// previous receive buffer and wait list contents — a fresh connection
// starts with no partial frame and no outstanding requests (§4.4).
func (s *Session) Attach(conn net.Conn) {
	s.conn = conn
	s.buf.Reset()
	s.wait.Clear()
	s.connectedAt = time.Now().UnixNano()
}

// Detach drops the session's reference to its connection without
// closing it; callers that observed the socket error close it
// themselves before calling Detach.
func (s *Session) Detach() {
	s.conn = nil
}

// Connected reports whether the session currently has a live
// connection attached.
func (s *Session) Connected() bool {
	return s.conn != nil
}

// Conn returns the session's current connection, or nil if detached.
func (s *Session) Conn() net.Conn {
	return s.conn
}

// Write sends p over the session's connection.
func (s *Session) Write(p []byte) (int, error) {
	if s.conn == nil {
		return 0, ErrNotConnected
	}
	return s.conn.Write(p)
}

// PushWait records id as an outstanding request on this session.
func (s *Session) PushWait(id int32) {
	s.wait.Push(id)
}

// WaitLen reports how many responses are outstanding on this session.
func (s *Session) WaitLen() int {
	return s.wait.Len()
}

// WaitContains reports whether id is currently outstanding.
func (s *Session) WaitContains(id int32) bool {
	return s.wait.Contains(id)
}

// ResolveWait removes id from the wait list, reporting whether it was
// actually outstanding (a response for an id the session never asked
// for is discarded by the caller).
func (s *Session) ResolveWait(id int32) bool {
	return s.wait.RemoveFirst(id)
}

// Feed appends newly-arrived bytes to the receive buffer.
func (s *Session) Feed(chunk []byte) {
	s.buf.Append(chunk)
}

// Buffered returns the session's current unconsumed receive bytes.
func (s *Session) Buffered() []byte {
	return s.buf.Bytes()
}

// Advance discards n consumed bytes from the head of the receive
// buffer after a frame has been decoded out of it.
func (s *Session) Advance(n int) {
	s.buf.Advance(n)
}
