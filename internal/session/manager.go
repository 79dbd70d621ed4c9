package session

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/marmos91/ifconnect/internal/logger"
)

// LifecycleEvent names a connection manager transition, forwarded by the
// owning Client to its reconnecting/reconnected listeners (§4.4, §6).
type LifecycleEvent string

const (
	EventReconnecting LifecycleEvent = "reconnecting"
	EventReconnected  LifecycleEvent = "reconnected"
)

// Config controls how a ConnectionManager dials and redials its two
// sessions.
type Config struct {
	// Peer is the "host:port" the command and poll sessions both dial.
	Peer string
	// DialTimeout bounds each individual dial attempt.
	DialTimeout time.Duration
	// ReconnectEnabled mirrors the embedder's reconnect_enabled setting
	// (§6): when false, a dropped session is a fatal transport error
	// instead of a redial attempt.
	ReconnectEnabled bool
	// KeepAlive is the delay between a session dropping and the next
	// redial attempt.
	KeepAlive time.Duration
}

// ConnectionManager owns the command and poll sessions to one peer.
// Each Session keeps its own receive buffer, wait list and attach
// state; the manager only coordinates dialing, redialing and lifecycle
// notification across the two of them (§4.4).
type ConnectionManager struct {
	cfg Config
	log *logger.Logger

	Command *Session
	Poll    *Session

	onLifecycle func(kind Kind, event LifecycleEvent)
}

// NewConnectionManager builds a manager with fresh, unattached command
// and poll sessions.
func NewConnectionManager(cfg Config, log *logger.Logger, onLifecycle func(Kind, LifecycleEvent)) *ConnectionManager {
	return &ConnectionManager{
		cfg:         cfg,
		log:         log,
		Command:     New(KindCommand, log),
		Poll:        New(KindPoll, log),
		onLifecycle: onLifecycle,
	}
}

// DialAll opens both sessions in turn, returning the first error
// encountered. Callers start a Reader goroutine per session once this
// succeeds.
func (m *ConnectionManager) DialAll(ctx context.Context) error {
	if err := m.DialCommand(ctx); err != nil {
		return err
	}
	return m.DialPoll(ctx)
}

// DialCommand opens the command session, letting callers observe the
// Connecting(command) -> Connecting(poll) state transition (§4.8)
// between the two dials.
func (m *ConnectionManager) DialCommand(ctx context.Context) error {
	return m.dial(ctx, m.Command)
}

// DialPoll opens the poll session.
func (m *ConnectionManager) DialPoll(ctx context.Context) error {
	return m.dial(ctx, m.Poll)
}

func (m *ConnectionManager) dial(ctx context.Context, s *Session) error {
	dialCtx := ctx
	if m.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, m.cfg.DialTimeout)
		defer cancel()
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "tcp", m.cfg.Peer)
	if err != nil {
		return fmt.Errorf("%w: %s session to %s: %w", ErrDialFailed, s.Kind, m.cfg.Peer, err)
	}
	s.Attach(conn)
	m.log.Info("session connected", logger.KeySession, string(s.Kind), logger.KeyPeer, m.cfg.Peer)
	return nil
}

// HandleDrop reacts to a session's socket error or EOF. It closes the
// stale connection, detaches it, and — when reconnection is enabled —
// waits KeepAlive and redials, emitting reconnecting/reconnected
// lifecycle events around the attempt (§4.4, §4.8). It returns a
// non-nil error if reconnection is disabled or the redial itself fails.
func (m *ConnectionManager) HandleDrop(ctx context.Context, s *Session, cause error) error {
	if conn := s.Conn(); conn != nil {
		_ = conn.Close()
	}
	s.Detach()
	m.log.Warn("session dropped", logger.KeySession, string(s.Kind), logger.KeyError, cause.Error())

	if !m.cfg.ReconnectEnabled {
		return fmt.Errorf("%w: %s session: %w", ErrReconnectDisabled, s.Kind, cause)
	}

	m.notify(s.Kind, EventReconnecting)

	if m.cfg.KeepAlive > 0 {
		timer := time.NewTimer(m.cfg.KeepAlive)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := m.dial(ctx, s); err != nil {
		return err
	}
	m.notify(s.Kind, EventReconnected)
	return nil
}

func (m *ConnectionManager) notify(kind Kind, event LifecycleEvent) {
	if m.onLifecycle != nil {
		m.onLifecycle(kind, event)
	}
}

// Close tears down both sessions' connections without reconnecting —
// a deliberate embedder-initiated shutdown (§4.8 close transition).
func (m *ConnectionManager) Close() {
	for _, s := range []*Session{m.Command, m.Poll} {
		if conn := s.Conn(); conn != nil {
			_ = conn.Close()
		}
		s.Detach()
	}
}
