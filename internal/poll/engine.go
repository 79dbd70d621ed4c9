// Package poll implements the poll session's round-robin subscription
// engine: an insertion-ordered set of names, one in-flight poll at a
// time, and a cursor that wraps (§4.6).
package poll

import "github.com/marmos91/ifconnect/internal/wire"

// Callback delivers the result of one poll cycle for a subscribed name.
type Callback func(name string, value wire.Value, err error)

type subscription struct {
	name     string
	callback Callback
}

// Engine holds the set of currently-registered poll targets and the
// cursor that walks them round-robin. It has no knowledge of sockets or
// manifests; the owning session resolves names to command ids and
// writes frames.
type Engine struct {
	order    []string
	byName   map[string]*subscription
	cursor   int
	inFlight bool
}

// New returns an empty poll engine.
func New() *Engine {
	return &Engine{byName: make(map[string]*subscription)}
}

// Register adds name to the round-robin set with an optional per-name
// callback. Registering an already-registered name is a no-op — the
// engine keeps the existing subscription and its position (§4.6,
// "register is idempotent").
func (e *Engine) Register(name string, cb Callback) {
	if _, exists := e.byName[name]; exists {
		return
	}
	e.byName[name] = &subscription{name: name, callback: cb}
	e.order = append(e.order, name)
}

// Deregister removes name from the round-robin set. Removing a name
// that isn't registered is a no-op. If the removed entry sat at or
// before the cursor, the cursor is adjusted so it still points at a
// live entry (or wraps to 0 once the set is empty).
func (e *Engine) Deregister(name string) {
	idx := -1
	for i, n := range e.order {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	e.order = append(e.order[:idx], e.order[idx+1:]...)
	delete(e.byName, name)

	switch {
	case len(e.order) == 0:
		e.cursor = 0
	case idx < e.cursor:
		e.cursor--
	default:
		e.cursor = e.cursor % len(e.order)
	}
}

// Len reports how many names are currently registered.
func (e *Engine) Len() int {
	return len(e.order)
}

// InFlight reports whether a poll dispatched by Next is still awaiting
// its response.
func (e *Engine) InFlight() bool {
	return e.inFlight
}

// Next returns the name the cursor currently points at and its
// callback, advances the cursor, and marks the engine in-flight.
// Callers must not call Next unless InFlight() is false and Len() > 0.
func (e *Engine) Next() (string, Callback) {
	name := e.order[e.cursor]
	sub := e.byName[name]
	e.cursor = (e.cursor + 1) % len(e.order)
	e.inFlight = true
	return name, sub.callback
}

// MarkIdle clears the in-flight flag, either because a response arrived
// or because the cycle was skipped outright (duplicate suppression).
func (e *Engine) MarkIdle() {
	e.inFlight = false
}

// CallbackFor looks up the callback registered for name, used by the
// demultiplexer to route a decoded poll response.
func (e *Engine) CallbackFor(name string) (Callback, bool) {
	sub, ok := e.byName[name]
	if !ok {
		return nil, false
	}
	return sub.callback, true
}
