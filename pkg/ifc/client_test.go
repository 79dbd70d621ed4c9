package ifc

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/marmos91/ifconnect/internal/manifest"
	"github.com/marmos91/ifconnect/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startFakePeer listens on loopback and hands every accepted connection to
// the returned channel, in acceptance order: the manifest connection first,
// then the command session, then the poll session (§4.3, §4.4) — mirroring
// the same real-socket style used by internal/manifest and internal/session.
func startFakePeer(t *testing.T) (host string, port int, conns <-chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ch := make(chan net.Conn, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				close(ch)
				return
			}
			ch <- conn
		}
	}()

	tcpAddr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", tcpAddr.Port, ch
}

func acceptConn(t *testing.T, conns <-chan net.Conn) net.Conn {
	t.Helper()
	select {
	case conn, ok := <-conns:
		require.True(t, ok, "peer listener closed before a connection arrived")
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a connection")
		return nil
	}
}

func manifestReplyBytes(text string) []byte {
	buf := make([]byte, 12+len(text))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(int32(-1)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(4+len(text)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(text)))
	copy(buf[12:], text)
	return buf
}

// serveManifest reads the one manifest request off conn, replies with text,
// and closes conn — mirroring the short-lived manifest connection (§4.3).
func serveManifest(t *testing.T, conn net.Conn, text string) {
	t.Helper()
	req := make([]byte, 5)
	_, err := io.ReadFull(conn, req)
	require.NoError(t, err)
	_, err = conn.Write(manifestReplyBytes(text))
	require.NoError(t, err)
	_ = conn.Close()
}

func encodeResponseFrame(commandID int32, payload []byte) []byte {
	buf := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(commandID))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[8:], payload)
	return buf
}

func int32Payload(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

// readRequest reads one [i32 command_id][u8 flag] request header off conn.
func readRequest(t *testing.T, conn net.Conn) (commandID int32, flag byte) {
	t.Helper()
	hdr := make([]byte, 5)
	_, err := io.ReadFull(conn, hdr)
	require.NoError(t, err)
	return int32(binary.LittleEndian.Uint32(hdr[0:4])), hdr[4]
}

// tryReadRequest is readRequest without a *testing.T, for a background
// responder goroutine that must be able to exit cleanly on conn close.
func tryReadRequest(conn net.Conn) (commandID int32, flag byte, err error) {
	hdr := make([]byte, 5)
	if _, err := io.ReadFull(conn, hdr); err != nil {
		return 0, 0, err
	}
	return int32(binary.LittleEndian.Uint32(hdr[0:4])), hdr[4], nil
}

const testManifestText = "1,1,aircraft/0/altitude\n2,4,aircraft/0/callsign\n3,99,aircraft/0/trigger\n"

func dialTestClient(t *testing.T, host string, port int) *Client {
	t.Helper()
	c, err := New(Config{
		Host:             host,
		Port:             port,
		ManifestTimeout:  time.Second,
		ReconnectEnabled: false,
	})
	require.NoError(t, err)
	return c
}

func TestClient_InitReachesReadyAndEmitsManifest(t *testing.T) {
	host, port, conns := startFakePeer(t)
	c := dialTestClient(t, host, port)

	var gotManifest *manifest.Manifest
	manifestCh := make(chan struct{})
	c.On(EventManifest, func(m *manifest.Manifest) {
		gotManifest = m
		close(manifestCh)
	})

	ready := make(chan struct{})
	require.NoError(t, c.Init(func() { close(ready) }))

	serveManifest(t, acceptConn(t, conns), testManifestText)
	acceptConn(t, conns) // command session
	acceptConn(t, conns) // poll session

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("Init never reached ready")
	}
	assert.Equal(t, StateReady, c.State())

	select {
	case <-manifestCh:
	case <-time.After(time.Second):
		t.Fatal("manifest event never fired")
	}
	require.NotNil(t, gotManifest)
	assert.Equal(t, 3, gotManifest.Len())

	c.Close(nil)
}

func TestClient_InitTwiceReturnsError(t *testing.T) {
	host, port, conns := startFakePeer(t)
	c := dialTestClient(t, host, port)

	require.NoError(t, c.Init(nil))
	serveManifest(t, acceptConn(t, conns), testManifestText)
	acceptConn(t, conns)
	acceptConn(t, conns)

	require.Eventually(t, func() bool { return c.State() == StateReady }, time.Second, 10*time.Millisecond)
	assert.Error(t, c.Init(nil))

	c.Close(nil)
}

func TestClient_GetUnknownCommandIsSynchronous(t *testing.T) {
	host, port, conns := startFakePeer(t)
	c := dialTestClient(t, host, port)
	require.NoError(t, c.Init(nil))
	serveManifest(t, acceptConn(t, conns), testManifestText)
	acceptConn(t, conns)
	acceptConn(t, conns)
	require.Eventually(t, func() bool { return c.State() == StateReady }, time.Second, 10*time.Millisecond)

	err := c.Get("does/not/exist", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	c.Close(nil)
}

func TestClient_GetBeforeReadyIsNotConnected(t *testing.T) {
	c, err := New(Config{Host: "127.0.0.1", Port: 1})
	require.NoError(t, err)

	err = c.Get("aircraft/0/altitude", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClient_SetTypeMismatchIsSynchronous(t *testing.T) {
	host, port, conns := startFakePeer(t)
	c := dialTestClient(t, host, port)
	require.NoError(t, c.Init(nil))
	serveManifest(t, acceptConn(t, conns), testManifestText)
	acceptConn(t, conns)
	acceptConn(t, conns)
	require.Eventually(t, func() bool { return c.State() == StateReady }, time.Second, 10*time.Millisecond)

	err := c.Set("aircraft/0/altitude", wire.StringValue("not an integer"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = c.Run("aircraft/0/altitude", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	c.Close(nil)
}

func TestClient_GetDeliversViaCallback(t *testing.T) {
	host, port, conns := startFakePeer(t)
	c := dialTestClient(t, host, port)
	require.NoError(t, c.Init(nil))
	serveManifest(t, acceptConn(t, conns), testManifestText)
	cmdConn := acceptConn(t, conns)
	acceptConn(t, conns)
	require.Eventually(t, func() bool { return c.State() == StateReady }, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	var gotName string
	var gotValue wire.Value
	require.NoError(t, c.Get("aircraft/0/altitude", func(name string, v wire.Value, err error) {
		gotName, gotValue = name, v
		require.NoError(t, err)
		close(done)
	}))

	id, flag := readRequest(t, cmdConn)
	assert.Equal(t, int32(1), id)
	assert.Equal(t, byte(0), flag)
	_, err := cmdConn.Write(encodeResponseFrame(1, int32Payload(37000)))
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Get callback never fired")
	}
	assert.Equal(t, "aircraft/0/altitude", gotName)
	assert.Equal(t, int32(37000), gotValue.Int32())

	cached, ok := c.Cached("aircraft/0/altitude")
	require.True(t, ok)
	assert.Equal(t, int32(37000), cached.Value.Int32())

	c.Close(nil)
}

func TestClient_GetWithoutCallbackEmitsDataEvent(t *testing.T) {
	host, port, conns := startFakePeer(t)
	c := dialTestClient(t, host, port)
	require.NoError(t, c.Init(nil))
	serveManifest(t, acceptConn(t, conns), testManifestText)
	cmdConn := acceptConn(t, conns)
	acceptConn(t, conns)
	require.Eventually(t, func() bool { return c.State() == StateReady }, time.Second, 10*time.Millisecond)

	done := make(chan Update, 1)
	c.On(EventData, func(u Update) { done <- u })

	require.NoError(t, c.Get("aircraft/0/callsign", nil))
	id, _ := readRequest(t, cmdConn)
	assert.Equal(t, int32(2), id)

	payload := make([]byte, 4+len("UAL123"))
	binary.LittleEndian.PutUint32(payload[0:4], uint32(len("UAL123")))
	copy(payload[4:], "UAL123")
	_, err := cmdConn.Write(encodeResponseFrame(2, payload))
	require.NoError(t, err)

	select {
	case u := <-done:
		assert.Equal(t, "aircraft/0/callsign", u.Command)
		assert.Equal(t, "UAL123", u.Data.String())
	case <-time.After(time.Second):
		t.Fatal("data event never fired")
	}

	c.Close(nil)
}

func TestClient_PollRegisterRoundRobinsBothNames(t *testing.T) {
	host, port, conns := startFakePeer(t)
	c := dialTestClient(t, host, port)
	require.NoError(t, c.Init(nil))
	serveManifest(t, acceptConn(t, conns), testManifestText)
	acceptConn(t, conns)
	pollConn := acceptConn(t, conns)
	require.Eventually(t, func() bool { return c.State() == StateReady }, time.Second, 10*time.Millisecond)

	altitudes := make(chan int32, 4)
	callsigns := make(chan string, 4)
	require.NoError(t, c.PollRegister("aircraft/0/altitude", func(n string, v wire.Value, err error) {
		require.NoError(t, err)
		altitudes <- v.Int32()
	}))
	require.NoError(t, c.PollRegister("aircraft/0/callsign", func(n string, v wire.Value, err error) {
		require.NoError(t, err)
		callsigns <- v.String()
	}))

	// The two registrations race to land on the executor before the first
	// dispatch fires, so neither the wire order between the two names nor
	// how many cycles land on the same name first is guaranteed; keep
	// answering whatever id is actually requested until both names have
	// delivered at least once.
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			id, _, err := tryReadRequest(pollConn)
			if err != nil {
				return
			}
			switch id {
			case 1:
				_, _ = pollConn.Write(encodeResponseFrame(1, int32Payload(1000)))
			case 2:
				payload := make([]byte, 4+len("DAL1"))
				binary.LittleEndian.PutUint32(payload[0:4], uint32(len("DAL1")))
				copy(payload[4:], "DAL1")
				_, _ = pollConn.Write(encodeResponseFrame(2, payload))
			}
		}
	}()

	var gotAltitude, gotCallsign bool
	for !gotAltitude || !gotCallsign {
		select {
		case v := <-altitudes:
			assert.Equal(t, int32(1000), v)
			gotAltitude = true
		case v := <-callsigns:
			assert.Equal(t, "DAL1", v)
			gotCallsign = true
		case <-time.After(time.Second):
			t.Fatal("round-robin never delivered both names")
		}
	}

	require.NoError(t, c.PollDeregister("aircraft/0/altitude"))
	c.Close(nil)
}

func TestClient_CloseInvokesOnClosedExactlyOnce(t *testing.T) {
	host, port, conns := startFakePeer(t)
	c := dialTestClient(t, host, port)
	require.NoError(t, c.Init(nil))
	serveManifest(t, acceptConn(t, conns), testManifestText)
	acceptConn(t, conns)
	acceptConn(t, conns)
	require.Eventually(t, func() bool { return c.State() == StateReady }, time.Second, 10*time.Millisecond)

	calls := make(chan struct{}, 4)
	c.Close(func() { calls <- struct{}{} })
	c.Close(func() { calls <- struct{}{} })

	require.Eventually(t, func() bool { return c.State() == StateIdle }, time.Second, 10*time.Millisecond)
	assert.Len(t, calls, 1)
}

func TestClient_CloseDuringManifestLoadStillInvokesOnClosed(t *testing.T) {
	host, port, conns := startFakePeer(t)
	c := dialTestClient(t, host, port)
	require.NoError(t, c.Init(nil))

	// Accept the manifest connection but never reply, then close before
	// the manifest load would otherwise time out.
	manifestConn := acceptConn(t, conns)
	t.Cleanup(func() { _ = manifestConn.Close() })

	done := make(chan struct{})
	c.Close(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("onClosed never fired for a Close during startup")
	}
}

func TestClient_SessionDropEmitsMsgEventAndAbandonsInFlightGet(t *testing.T) {
	host, port, conns := startFakePeer(t)
	c := dialTestClient(t, host, port)
	require.NoError(t, c.Init(nil))
	serveManifest(t, acceptConn(t, conns), testManifestText)
	cmdConn := acceptConn(t, conns)
	acceptConn(t, conns)
	require.Eventually(t, func() bool { return c.State() == StateReady }, time.Second, 10*time.Millisecond)

	msgs := make(chan Message, 4)
	c.On(EventMsg, func(m Message) { msgs <- m })

	callbackFired := false
	require.NoError(t, c.Get("aircraft/0/altitude", func(n string, v wire.Value, err error) {
		callbackFired = true
	}))
	readRequest(t, cmdConn) // drain the request so the session has one in flight
	_ = cmdConn.Close()     // simulate the peer dropping the command session

	select {
	case m := <-msgs:
		assert.Equal(t, "command", m.Session)
	case <-time.After(2 * time.Second):
		t.Fatal("drop never produced a msg event")
	}

	require.Eventually(t, func() bool { return c.State() == StateIdle }, time.Second, 10*time.Millisecond)
	assert.False(t, callbackFired, "abandoned in-flight get must never fire its callback (§8 scenario 6)")
}
