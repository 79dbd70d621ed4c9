package session

import "net"

// Chunk is a slice of bytes read off one session's socket, tagged with
// which session it came from so the owning event loop can route it to
// the right receive buffer.
type Chunk struct {
	Kind Kind
	Data []byte
}

// DropNotice reports that a session's socket returned an error (or
// EOF), tagged with which session dropped.
type DropNotice struct {
	Kind Kind
	Err  error
}

// Reader pumps conn.Read in a loop, forwarding each chunk of bytes and
// any terminal error to the given channels. It never touches a Session
// directly — only the owning event loop goroutine does that — so this
// function is the only piece of the engine that runs off the executor
// goroutine (§5, "I/O boundary").
//
// Reader returns once conn.Read fails; the caller is responsible for
// closing conn and deciding whether to redial.
func Reader(conn net.Conn, kind Kind, chunks chan<- Chunk, drops chan<- DropNotice, done <-chan struct{}) {
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			cp := make([]byte, n)
			copy(cp, buf[:n])
			select {
			case chunks <- Chunk{Kind: kind, Data: cp}:
			case <-done:
				return
			}
		}
		if err != nil {
			select {
			case drops <- DropNotice{Kind: kind, Err: err}:
			case <-done:
			}
			return
		}
	}
}
