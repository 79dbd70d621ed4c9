package manifest

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeListener serves a single connection off a real loopback TCP
// listener, so Load exercises its real net.Dialer + deadline path rather
// than a net.Pipe() stand-in.
func fakeListener(t *testing.T, serve func(net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		serve(conn)
	}()

	return ln.Addr().String()
}

func manifestReply(text string) []byte {
	buf := make([]byte, 12+len(text))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(int32(-1)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(4+len(text)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(text)))
	copy(buf[12:], text)
	return buf
}

func TestLoad_Success(t *testing.T) {
	addr := fakeListener(t, func(conn net.Conn) {
		req := make([]byte, 5)
		_, _ = conn.Read(req)
		_, _ = conn.Write(manifestReply("1,2,aircraft/0/alt\n7,4,aircraft/0/callsign\n"))
	})

	m, err := Load(context.Background(), addr, time.Second)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 2, m.Len())

	entry, ok := m.ByName("aircraft/0/alt")
	require.True(t, ok)
	assert.Equal(t, int32(1), entry.CommandID)
}

func TestLoad_SplitAcrossWrites(t *testing.T) {
	addr := fakeListener(t, func(conn net.Conn) {
		req := make([]byte, 5)
		_, _ = conn.Read(req)
		reply := manifestReply("1,2,aircraft/0/alt\n")
		for _, b := range reply {
			_, _ = conn.Write([]byte{b})
		}
	})

	m, err := Load(context.Background(), addr, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestLoad_PeerClosesEarly(t *testing.T) {
	addr := fakeListener(t, func(conn net.Conn) {
		req := make([]byte, 5)
		_, _ = conn.Read(req)
		_, _ = conn.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF}) // truncated header
	})

	_, err := Load(context.Background(), addr, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestLoad_Timeout(t *testing.T) {
	addr := fakeListener(t, func(conn net.Conn) {
		req := make([]byte, 5)
		_, _ = conn.Read(req)
		time.Sleep(500 * time.Millisecond) // never replies in time
	})

	_, err := Load(context.Background(), addr, 50*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestLoad_MalformedText(t *testing.T) {
	addr := fakeListener(t, func(conn net.Conn) {
		req := make([]byte, 5)
		_, _ = conn.Read(req)
		// Duplicate command id across two entries -> New() rejects it.
		_, _ = conn.Write(manifestReply("1,2,aircraft/0/alt\n1,1,aircraft/0/throttle\n"))
	})

	_, err := Load(context.Background(), addr, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)
}
