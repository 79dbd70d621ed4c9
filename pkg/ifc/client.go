// Package ifc is the public client library for the Infinite Flight
// Connect v2 API: discovery, manifest negotiation, and a protocol
// engine that reads, writes, invokes and polls state variables over two
// long-lived TCP sessions (§1, §2).
package ifc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/marmos91/ifconnect/internal/logger"
	"github.com/marmos91/ifconnect/internal/manifest"
	"github.com/marmos91/ifconnect/internal/poll"
	"github.com/marmos91/ifconnect/internal/queue"
	"github.com/marmos91/ifconnect/internal/session"
	"github.com/marmos91/ifconnect/internal/wire"
)

// State is the instance-wide lifecycle state (§4.8).
type State int32

const (
	StateIdle State = iota
	StateDiscovering
	StateManifestLoading
	StateConnectingCommand
	StateConnectingPoll
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscovering:
		return "discovering"
	case StateManifestLoading:
		return "manifest_loading"
	case StateConnectingCommand:
		return "connecting_command"
	case StateConnectingPoll:
		return "connecting_poll"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Client is one explicit handle onto a simulator connection: its own
// configuration, sockets, queues, manifest and cache. Nothing here is
// process-global, so any number of Clients can run concurrently in one
// process (§9 "Global singleton state").
type Client struct {
	cfg Config
	log *logger.Logger

	state       atomic.Int32
	manifestPtr atomic.Pointer[manifest.Manifest]
	cache       *cache

	// executor-only state: touched exclusively from within run().
	conn       *session.ConnectionManager
	cmdQueue   queue.Queue
	pollEngine *poll.Engine

	events listenerBus

	opsCh   chan func()
	chunks  chan session.Chunk
	drops   chan session.DropNotice
	closeCh chan func()
	done    chan struct{}

	closeOnce sync.Once
	cancel    context.CancelFunc
}

// New builds a Client from cfg. Nothing is dialed until Init is called.
func New(cfg Config) (*Client, error) {
	cfg = cfg.ApplyDefaults()

	log, err := logger.New(logger.Config{
		Enabled: cfg.LogEnabled,
		Level:   cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return &Client{
		cfg:        cfg,
		log:        log,
		cache:      newCache(),
		pollEngine: poll.New(),
		opsCh:      make(chan func(), 16),
		chunks:     make(chan session.Chunk, 16),
		drops:      make(chan session.DropNotice, 4),
		closeCh:    make(chan func(), 1),
		done:       make(chan struct{}),
	}, nil
}

// State reports the instance's current lifecycle state. Safe to call
// from any goroutine.
func (c *Client) State() State {
	return State(c.state.Load())
}

func (c *Client) setState(s State) {
	c.state.Store(int32(s))
}

func (c *Client) manifestSnapshot() *manifest.Manifest {
	return c.manifestPtr.Load()
}

// Manifest returns the catalog negotiated during Init, or nil before
// the manifest event has fired. Safe to call from any goroutine.
func (c *Client) Manifest() *manifest.Manifest {
	return c.manifestSnapshot()
}

// Init begins discovery (or a direct connect, when Config.Host is set)
// and, once both long-lived sessions are open, calls onReady. Init
// returns immediately; the connect sequence runs on its own goroutine.
// It is an error to call Init more than once on the same Client
// (§4.8 — Idle is the only state Init may start from).
func (c *Client) Init(onReady func()) error {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateDiscovering)) {
		return fmt.Errorf("ifc: Init called from state %s, expected idle", c.State())
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx, onReady)
	return nil
}

// Close tears down every session, clears all queues, wait lists,
// buffers, manifest indices and the state cache, and invokes onClosed
// exactly once (§4.4 "Close"). Calling Close more than once is safe;
// only the first call's onClosed is honored.
func (c *Client) Close(onClosed func()) {
	c.closeOnce.Do(func() {
		select {
		case c.closeCh <- onClosed:
		case <-c.done:
			// The executor already exited (e.g. a fatal error before
			// Init ever reached Ready) — honor the callback directly.
			if onClosed != nil {
				onClosed()
			}
			return
		}
		// Unblocks a discovery wait or an in-progress dial immediately.
		// A manifest load already past its request write still waits out
		// ManifestTimeout: its response read is bounded by a socket
		// deadline, not ctx, matching internal/manifest's own contract.
		if c.cancel != nil {
			c.cancel()
		}
	})
}

// submit hands fn to the executor goroutine, to be run synchronously
// within its event loop. It is a no-op once the executor has exited.
func (c *Client) submit(fn func()) {
	select {
	case c.opsCh <- fn:
	case <-c.done:
	}
}

// lookup resolves name against the current manifest, synchronously and
// without touching the executor, so UnknownCommand can be reported to
// the caller immediately (§7 "reported synchronously to the caller").
func (c *Client) lookup(name string) (wire.Entry, error) {
	m := c.manifestSnapshot()
	entry, ok := m.ByName(name)
	if !ok {
		return wire.Entry{}, newProtocolError(KindUnknownCommand, fmt.Sprintf("no manifest entry named %q", name), nil)
	}
	return entry, nil
}

func (c *Client) requireReady() error {
	if c.State() != StateReady {
		return newProtocolError(KindNotConnected, fmt.Sprintf("client is %s, not ready", c.State()), nil)
	}
	return nil
}
