// Package queue implements the command session's request queue: a FIFO
// of pending one-shot reads with at most one outstanding on the wire at
// a time (§4.5).
package queue

import "github.com/marmos91/ifconnect/internal/wire"

// Callback delivers the result of a single queued read, either the
// decoded value or the error that prevented it from completing.
type Callback func(name string, value wire.Value, err error)

// Entry is a pending read: the manifest name being read, its resolved
// command id, and the optional per-call callback. A nil Callback means
// the result is delivered only via the embedder's general data event.
type Entry struct {
	Name      string
	CommandID int32
	Callback  Callback
}

// Queue holds entries in arrival order. Nothing is deduplicated: asking
// to read the same name twice queues two independent entries, each
// answered in turn (§4.5, "no suppression on the command queue").
type Queue struct {
	entries []Entry
}

// Enqueue appends e to the back of the queue.
func (q *Queue) Enqueue(e Entry) {
	q.entries = append(q.entries, e)
}

// Len reports the number of entries still waiting to be dispatched or
// answered.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Front returns the entry at the head of the queue without removing it.
func (q *Queue) Front() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return q.entries[0], true
}

// PopFront removes the head entry once its response has been delivered.
func (q *Queue) PopFront() {
	if len(q.entries) == 0 {
		return
	}
	q.entries = q.entries[1:]
}
