package ifc

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/marmos91/ifconnect/internal/discovery"
	"github.com/marmos91/ifconnect/internal/logger"
	"github.com/marmos91/ifconnect/internal/manifest"
	"github.com/marmos91/ifconnect/internal/poll"
	"github.com/marmos91/ifconnect/internal/queue"
	"github.com/marmos91/ifconnect/internal/session"
	"github.com/marmos91/ifconnect/internal/wire"
)

const drainPollInterval = 250 * time.Millisecond

// run is the single logical executor (§5): every read and mutation of
// the manifest pointer excluded, queues, wait lists, receive buffers,
// poll cursor and cache are touched only from this goroutine.
func (c *Client) run(ctx context.Context, onReady func()) {
	defer close(c.done)

	peer, err := c.resolvePeer(ctx)
	if err != nil {
		c.abort(newProtocolError(KindDiscoveryTimeout, "discovery failed", err))
		return
	}

	c.setState(StateManifestLoading)
	addr := net.JoinHostPort(peer, strconv.Itoa(c.peerPort()))
	m, err := manifest.Load(ctx, addr, c.cfg.ManifestTimeout)
	if err != nil {
		c.abort(newProtocolError(KindManifestError, "manifest load failed", err))
		return
	}
	c.manifestPtr.Store(m)
	c.emitManifest(m)

	mgr := session.NewConnectionManager(session.Config{
		Peer:             addr,
		DialTimeout:      c.cfg.ManifestTimeout,
		ReconnectEnabled: c.cfg.ReconnectEnabled,
		KeepAlive:        c.cfg.Timeout,
	}, c.log, c.onSessionLifecycle)
	c.conn = mgr // assigned before dialing so fail() can always clean up a partial connect

	c.setState(StateConnectingCommand)
	if err := mgr.DialCommand(ctx); err != nil {
		c.abort(newProtocolError(KindTransportError, "command session connect failed", err))
		return
	}
	c.setState(StateConnectingPoll)
	if err := mgr.DialPoll(ctx); err != nil {
		c.abort(newProtocolError(KindTransportError, "poll session connect failed", err))
		return
	}
	c.applySessionTimeouts()

	c.setState(StateReady)
	if onReady != nil {
		onReady()
	}

	go session.Reader(mgr.Command.Conn(), session.KindCommand, c.chunks, c.drops, c.done)
	go session.Reader(mgr.Poll.Conn(), session.KindPoll, c.chunks, c.drops, c.done)

	c.loop(ctx)
}

// loop drives the event select for the lifetime of a Ready client: ops
// submitted by the public API, socket bytes, socket drops, the 250ms
// queue-drain poll (§4.5), and the poll-throttle timer (§4.6).
func (c *Client) loop(ctx context.Context) {
	drainTicker := time.NewTicker(drainPollInterval)
	defer drainTicker.Stop()

	var pollTimer *time.Timer
	var pollTimerC <-chan time.Time
	pollArmed := false

	for {
		select {
		case fn := <-c.opsCh:
			fn()
		case chunk := <-c.chunks:
			c.handleChunk(chunk)
		case drop := <-c.drops:
			if !c.handleDrop(ctx, drop) {
				return
			}
		case <-drainTicker.C:
			c.dispatchCommandIfIdle()
		case <-pollTimerC:
			pollArmed = false
			pollTimerC = nil
			c.dispatchPoll()
		case onClosed := <-c.closeCh:
			if pollTimer != nil {
				pollTimer.Stop()
			}
			c.teardown(onClosed)
			return
		}

		if !pollArmed && !c.pollEngine.InFlight() && c.pollEngine.Len() > 0 {
			if c.cfg.PollThrottle <= 0 {
				c.dispatchPoll()
			} else {
				pollArmed = true
				if pollTimer == nil {
					pollTimer = time.NewTimer(c.cfg.PollThrottle)
				} else {
					pollTimer.Reset(c.cfg.PollThrottle)
				}
				pollTimerC = pollTimer.C
			}
		}
	}
}

// peerPort is the TCP port dialed for the manifest, command and poll
// connections: the fixed protocol port (§4.3, §6), unless Config.Port
// overrides it (e.g. a direct-connect test peer on an ephemeral port).
func (c *Client) peerPort() int {
	if c.cfg.Port != 0 {
		return c.cfg.Port
	}
	return wire.Port
}

func (c *Client) resolvePeer(ctx context.Context) (string, error) {
	if c.cfg.Host != "" {
		c.setState(StateDiscovering) // transient, for State() observers
		return c.cfg.Host, nil
	}
	result, err := discovery.WithTimeout(ctx, c.cfg.DiscoveryTimeout)
	if err != nil {
		return "", err
	}
	return result.Addr.String(), nil
}

func (c *Client) applySessionTimeouts() {
	// KeepAlive (§6) enables TCP keepalive on both sessions; Timeout
	// sets the net.Conn read deadline (an expiry reaches handleDrop as a
	// timeout), and handleChunk refreshes it each time bytes are fed.
	for _, s := range []*session.Session{c.conn.Command, c.conn.Poll} {
		conn := s.Conn()
		if conn == nil {
			continue
		}
		if tcp, ok := conn.(*net.TCPConn); ok {
			_ = tcp.SetKeepAlive(c.cfg.KeepAlive)
		}
		if c.cfg.Timeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(c.cfg.Timeout))
		}
	}
}

// dispatchCommandIfIdle writes the next queued read once the command
// session has no outstanding response (§4.5).
func (c *Client) dispatchCommandIfIdle() {
	if c.conn == nil || c.conn.Command.WaitLen() > 0 {
		return
	}
	entry, ok := c.cmdQueue.Front()
	if !ok {
		return
	}
	if _, err := c.conn.Command.Write(wire.EncodeRead(entry.CommandID)); err != nil {
		c.cmdQueue.PopFront()
		c.cfg.Metrics.QueueLength(c.cmdQueue.Len())
		entry.Callback(entry.Name, wire.Value{}, newProtocolError(KindTransportError, "write failed", err))
		return
	}
	c.conn.Command.PushWait(entry.CommandID)
}

// dispatchPoll writes the poll session's current cursor target, unless
// its command id is already outstanding (duplicate suppression, §4.6).
func (c *Client) dispatchPoll() {
	if c.conn == nil || c.pollEngine.Len() == 0 {
		return
	}
	name, cb := c.pollEngine.Next()
	entry, ok := c.manifestSnapshot().ByName(name)
	if !ok {
		c.pollEngine.MarkIdle()
		return
	}
	if c.conn.Poll.WaitContains(entry.CommandID) {
		c.pollEngine.MarkIdle()
		return
	}
	if _, err := c.conn.Poll.Write(wire.EncodeRead(entry.CommandID)); err != nil {
		c.pollEngine.MarkIdle()
		if cb != nil {
			cb(name, wire.Value{}, newProtocolError(KindTransportError, "poll write failed", err))
		}
		return
	}
	c.conn.Poll.PushWait(entry.CommandID)
}

// handleChunk feeds newly-arrived bytes into the originating session's
// receive buffer and drains every complete frame from it (§4.7).
func (c *Client) handleChunk(chunk session.Chunk) {
	if c.conn == nil {
		return
	}
	sess := c.sessionFor(chunk.Kind)
	sess.Feed(chunk.Data)
	if c.cfg.Timeout > 0 {
		if conn := sess.Conn(); conn != nil {
			_ = conn.SetReadDeadline(time.Now().Add(c.cfg.Timeout))
		}
	}

	for {
		frame, consumed, ok := wire.TryDecodeFrame(sess.Buffered())
		if !ok {
			return
		}
		sess.Advance(consumed)
		c.handleFrame(chunk.Kind, sess, frame)
	}
}

func (c *Client) sessionFor(kind session.Kind) *session.Session {
	if kind == session.KindPoll {
		return c.conn.Poll
	}
	return c.conn.Command
}

// handleFrame correlates one decoded frame against its session's wait
// list and delivers it, following §4.7 steps 1-8.
func (c *Client) handleFrame(kind session.Kind, sess *session.Session, frame wire.Frame) {
	entry, ok := c.manifestSnapshot().ByID(frame.CommandID)
	if !ok {
		c.log.Warn("discarding frame for unknown command id", logger.KeyCommandID, frame.CommandID)
		return
	}
	if !sess.ResolveWait(frame.CommandID) {
		c.log.Debug("discarding unsolicited frame", logger.KeyCommandID, frame.CommandID, logger.KeyName, entry.Name)
		return
	}

	value, decodeErr := wire.DecodeScalar(entry.Type, frame.Payload)
	if decodeErr != nil {
		c.log.Warn("discarding malformed payload", logger.KeyName, entry.Name, logger.KeyError, decodeErr.Error())
	} else {
		c.cache.set(entry.Name, value, time.Now())
		c.cfg.Metrics.FrameDecoded(string(kind))
	}
	c.cfg.Metrics.WaitListDepth(string(kind), sess.WaitLen())

	switch kind {
	case session.KindCommand:
		if qe, hasEntry := c.cmdQueue.Front(); hasEntry {
			c.cmdQueue.PopFront()
			c.cfg.Metrics.QueueLength(c.cmdQueue.Len())
			if decodeErr == nil {
				qe.Callback(entry.Name, value, nil)
			}
		}
		c.dispatchCommandIfIdle()
	case session.KindPoll:
		if decodeErr == nil {
			if cb, hasCB := c.pollEngine.CallbackFor(entry.Name); hasCB && cb != nil {
				cb(entry.Name, value, nil)
			}
		}
		c.pollEngine.MarkIdle()
	}
}

// handleDrop reacts to a session socket error (possibly a timeout) and
// either redials it or, when reconnection is disabled, ends the
// executor loop. It returns false when the loop should exit.
func (c *Client) handleDrop(ctx context.Context, drop session.DropNotice) bool {
	sess := c.sessionFor(drop.Kind)

	kind := "error"
	if netErr, ok := drop.Err.(net.Error); ok && netErr.Timeout() {
		kind = "timeout"
	}
	c.emitMsg(Message{Kind: kind, Session: string(drop.Kind), Err: drop.Err})

	// Abandon whatever was in flight on this session (§8 scenario 6):
	// no callback or event will ever fire for it.
	switch drop.Kind {
	case session.KindCommand:
		if _, ok := c.cmdQueue.Front(); ok {
			c.cmdQueue.PopFront()
		}
	case session.KindPoll:
		c.pollEngine.MarkIdle()
	}

	if err := c.conn.HandleDrop(ctx, sess, drop.Err); err != nil {
		c.abort(newProtocolError(KindTransportError, "reconnect failed", err))
		return false
	}
	c.cfg.Metrics.Reconnected(string(drop.Kind))

	c.applySessionTimeouts()
	go session.Reader(sess.Conn(), drop.Kind, c.chunks, c.drops, c.done)
	if drop.Kind == session.KindCommand {
		c.dispatchCommandIfIdle()
	}
	return true
}

func (c *Client) onSessionLifecycle(kind session.Kind, event session.LifecycleEvent) {
	c.emitMsg(Message{Kind: string(event), Session: string(kind)})
}

// fail ends the executor loop from any non-Idle state after a fatal
// error, emitting it as a `msg` lifecycle event (§4.8).
func (c *Client) fail(err error) {
	if c.conn != nil {
		c.conn.Close()
	}
	c.manifestPtr.Store(nil)
	c.setState(StateIdle)
	c.emitMsg(Message{Kind: "error", Err: err})
}

// abort calls fail and then honors a Close that raced with the
// failure: if the caller had already handed Close an onClosed callback
// before the executor loop ever started consuming closeCh, that
// callback would otherwise sit unread in the buffered channel forever.
func (c *Client) abort(err error) {
	c.fail(err)
	select {
	case onClosed := <-c.closeCh:
		if onClosed != nil {
			onClosed()
		}
	default:
	}
}

// teardown implements Close's semantics: destroy sessions, clear every
// queue, wait list, buffer, the manifest and the cache, then invoke
// onClosed exactly once (§4.4).
func (c *Client) teardown(onClosed func()) {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil // drops both sessions' wait lists and receive buffers
	}
	c.cmdQueue = queue.Queue{}
	c.pollEngine = poll.New()
	c.manifestPtr.Store(nil)
	c.cache.reset()
	c.setState(StateIdle)
	if onClosed != nil {
		onClosed()
	}
}
