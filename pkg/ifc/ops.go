package ifc

import (
	"context"
	"fmt"

	"github.com/marmos91/ifconnect/internal/logger"
	"github.com/marmos91/ifconnect/internal/poll"
	"github.com/marmos91/ifconnect/internal/queue"
	"github.com/marmos91/ifconnect/internal/telemetry"
	"github.com/marmos91/ifconnect/internal/wire"
)

// traceOp starts a span for op/name when tracing is enabled, returning a
// no-op end func otherwise. The span covers only the executor's
// synchronous handling of the call (enqueue, socket write or poll
// registration), not the asynchronous response: each
// command id has no natural correlation back to a span once queued.
func (c *Client) traceOp(op, name string) func() {
	if !c.cfg.TracingEnabled {
		return func() {}
	}
	_, span := telemetry.StartCommandSpan(context.Background(), op, name)
	return span.End
}

// Get enqueues a one-shot read of name (§6 "get"). The result arrives
// via cb if non-nil, otherwise via the `data` event (§4.7 step 6).
// UnknownCommand, TypeMismatch and NotConnected are reported
// synchronously; everything else arrives asynchronously.
func (c *Client) Get(name string, cb Callback) error {
	if err := c.requireReady(); err != nil {
		return err
	}
	entry, err := c.lookup(name)
	if err != nil {
		return err
	}
	if !entry.Type.IsScalar() {
		return newProtocolError(KindTypeMismatch, fmt.Sprintf("%q is invokable, not readable", name), nil)
	}

	deliver := cb
	if deliver == nil {
		deliver = func(n string, v wire.Value, err error) {
			if err != nil {
				return
			}
			c.emitData(n, v)
		}
	}

	end := c.traceOp("ifc.get", name)
	c.submit(func() {
		defer end()
		c.cmdQueue.Enqueue(queue.Entry{Name: name, CommandID: entry.CommandID, Callback: queue.Callback(deliver)})
		c.cfg.Metrics.QueueLength(c.cmdQueue.Len())
		c.dispatchCommandIfIdle()
	})
	return nil
}

// Set writes value to name (§6 "set"). No response is expected on the
// wire, so Set only ever fails synchronously.
func (c *Client) Set(name string, value wire.Value) error {
	if err := c.requireReady(); err != nil {
		return err
	}
	entry, err := c.lookup(name)
	if err != nil {
		return err
	}
	if !entry.Type.IsScalar() {
		return newProtocolError(KindTypeMismatch, fmt.Sprintf("%q is invokable, not writable", name), nil)
	}
	if value.Type() != entry.Type {
		return newProtocolError(KindTypeMismatch, fmt.Sprintf("%q is %s, got %s", name, entry.Type, value.Type()), nil)
	}

	end := c.traceOp("ifc.set", name)
	c.submit(func() {
		defer end()
		if c.conn == nil {
			return
		}
		if _, err := c.conn.Command.Write(wire.EncodeWrite(entry.CommandID, value)); err != nil {
			c.log.Warn("set write failed", logger.KeyName, name, logger.KeyError, err.Error())
		}
	})
	return nil
}

// Run invokes the command named name with args (§6 "run"). No response
// is expected on the wire.
func (c *Client) Run(name string, args []wire.Arg) error {
	if err := c.requireReady(); err != nil {
		return err
	}
	entry, err := c.lookup(name)
	if err != nil {
		return err
	}
	if entry.Type != wire.Invokable {
		return newProtocolError(KindTypeMismatch, fmt.Sprintf("%q is not invokable", name), nil)
	}

	end := c.traceOp("ifc.run", name)
	c.submit(func() {
		defer end()
		if c.conn == nil {
			return
		}
		if _, err := c.conn.Command.Write(wire.EncodeInvoke(entry.CommandID, args)); err != nil {
			c.log.Warn("run write failed", logger.KeyName, name, logger.KeyError, err.Error())
		}
	})
	return nil
}

// PollRegister subscribes name to the round-robin poll loop (§6
// "poll_register"). Registering an already-registered name is a no-op
// (§4.6, §8 idempotence).
func (c *Client) PollRegister(name string, cb Callback) error {
	if err := c.requireReady(); err != nil {
		return err
	}
	entry, err := c.lookup(name)
	if err != nil {
		return err
	}
	if !entry.Type.IsScalar() {
		return newProtocolError(KindTypeMismatch, fmt.Sprintf("%q is invokable, not pollable", name), nil)
	}

	deliver := cb
	if deliver == nil {
		deliver = func(n string, v wire.Value, err error) {
			if err != nil {
				return
			}
			c.emitData(n, v)
		}
	}

	end := c.traceOp("ifc.poll_register", name)
	c.submit(func() {
		defer end()
		c.pollEngine.Register(name, poll.Callback(deliver))
		c.cfg.Metrics.PollCursor(c.pollEngine.Len())
	})
	return nil
}

// PollDeregister removes name from the round-robin poll loop (§6
// "poll_deregister").
func (c *Client) PollDeregister(name string) error {
	if err := c.requireReady(); err != nil {
		return err
	}
	c.submit(func() {
		c.pollEngine.Deregister(name)
		c.cfg.Metrics.PollCursor(c.pollEngine.Len())
	})
	return nil
}
