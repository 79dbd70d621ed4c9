package session

import (
	"net"
	"testing"

	"github.com/marmos91/ifconnect/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_WriteWithoutConnectionFails(t *testing.T) {
	s := New(KindCommand, logger.NewDiscard())
	_, err := s.Write([]byte{1})
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestSession_AttachClearsStaleState(t *testing.T) {
	s := New(KindPoll, logger.NewDiscard())
	s.Feed([]byte{1, 2, 3})
	s.PushWait(7)

	client, server := net.Pipe()
	t.Cleanup(func() { _ = client.Close(); _ = server.Close() })

	s.Attach(client)
	assert.Equal(t, 0, s.WaitLen())
	assert.Equal(t, 0, len(s.Buffered()))
	assert.True(t, s.Connected())
}

func TestSession_WaitListRoundTrip(t *testing.T) {
	s := New(KindCommand, logger.NewDiscard())
	s.PushWait(1)
	s.PushWait(2)
	assert.True(t, s.WaitContains(1))
	assert.True(t, s.ResolveWait(1))
	assert.False(t, s.WaitContains(1))
	assert.Equal(t, 1, s.WaitLen())
}

func TestSession_FeedAndAdvance(t *testing.T) {
	s := New(KindCommand, logger.NewDiscard())
	s.Feed([]byte{1, 2, 3, 4})
	assert.Equal(t, 4, len(s.Buffered()))
	s.Advance(2)
	assert.Equal(t, []byte{3, 4}, s.Buffered())
}

func TestSession_DetachMakesWriteFail(t *testing.T) {
	s := New(KindCommand, logger.NewDiscard())
	client, server := net.Pipe()
	t.Cleanup(func() { _ = server.Close() })
	s.Attach(client)
	require.True(t, s.Connected())

	_ = client.Close()
	s.Detach()
	assert.False(t, s.Connected())
	_, err := s.Write([]byte{1})
	require.ErrorIs(t, err, ErrNotConnected)
}
