package ifc

import (
	"sync"

	"github.com/marmos91/ifconnect/internal/manifest"
	"github.com/marmos91/ifconnect/internal/wire"
)

// Event names an `On` subscription topic (§6: "manifest", "data", "msg").
const (
	EventManifest = "manifest"
	EventData     = "data"
	EventMsg      = "msg"
)

// Update is the payload of a `data` event: a decoded value delivered
// either from a one-shot get or a poll cycle, addressed by manifest
// name (§4.7 step 6).
type Update struct {
	Command string
	Data    wire.Value
}

// Message is the payload of a `msg` lifecycle event: reconnecting,
// reconnected, timeout and fatal-error notifications (§4.4, §4.8, §5).
type Message struct {
	Kind    string
	Session string
	Err     error
}

// Callback is the optional per-call delivery function accepted by Get
// and PollRegister. A nil Callback routes the result to the `data`
// event instead (§4.5, §4.6, §4.7 step 6 — "either/or", never both).
type Callback func(name string, value wire.Value, err error)

// listener bus. Registration can happen before Init (callers typically
// subscribe, then call Init), so it is guarded by its own mutex rather
// than routed through the executor.
type listenerBus struct {
	mu       sync.Mutex
	manifest []func(*manifest.Manifest)
	data     []func(Update)
	msg      []func(Message)
}

// On subscribes listener to topic. Unrecognized topics are accepted but
// never fire, matching a permissive pub/sub surface rather than
// panicking on a typo.
func (c *Client) On(topic string, listener any) {
	c.events.mu.Lock()
	defer c.events.mu.Unlock()
	switch topic {
	case EventManifest:
		if fn, ok := listener.(func(*manifest.Manifest)); ok {
			c.events.manifest = append(c.events.manifest, fn)
		}
	case EventData:
		if fn, ok := listener.(func(Update)); ok {
			c.events.data = append(c.events.data, fn)
		}
	case EventMsg:
		if fn, ok := listener.(func(Message)); ok {
			c.events.msg = append(c.events.msg, fn)
		}
	}
}

func (c *Client) emitManifest(m *manifest.Manifest) {
	c.events.mu.Lock()
	fns := append([]func(*manifest.Manifest){}, c.events.manifest...)
	c.events.mu.Unlock()
	for _, fn := range fns {
		fn(m)
	}
}

func (c *Client) emitData(name string, v wire.Value) {
	c.events.mu.Lock()
	fns := append([]func(Update){}, c.events.data...)
	c.events.mu.Unlock()
	for _, fn := range fns {
		fn(Update{Command: name, Data: v})
	}
}

func (c *Client) emitMsg(msg Message) {
	c.events.mu.Lock()
	fns := append([]func(Message){}, c.events.msg...)
	c.events.mu.Unlock()
	for _, fn := range fns {
		fn(msg)
	}
}
