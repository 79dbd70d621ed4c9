package poll

import (
	"testing"

	"github.com/marmos91/ifconnect/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_RoundRobinWraps(t *testing.T) {
	e := New()
	e.Register("a", nil)
	e.Register("b", nil)
	e.Register("c", nil)

	var seen []string
	for i := 0; i < 6; i++ {
		name, _ := e.Next()
		seen = append(seen, name)
		e.MarkIdle()
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, seen)
}

func TestEngine_RegisterIsIdempotent(t *testing.T) {
	e := New()
	e.Register("a", nil)
	e.Register("a", nil)
	assert.Equal(t, 1, e.Len())
}

func TestEngine_DeregisterUnknownIsNoop(t *testing.T) {
	e := New()
	e.Register("a", nil)
	e.Deregister("nonexistent")
	assert.Equal(t, 1, e.Len())
}

func TestEngine_DeregisterCurrentCursorWraps(t *testing.T) {
	e := New()
	e.Register("a", nil)
	e.Register("b", nil)
	e.Register("c", nil)

	name, _ := e.Next() // "a", cursor now at "b"
	require.Equal(t, "a", name)
	e.MarkIdle()

	e.Deregister("b")
	assert.Equal(t, 2, e.Len())

	name, _ = e.Next()
	assert.Equal(t, "c", name)
}

func TestEngine_DeregisterLastEntryResetsCursor(t *testing.T) {
	e := New()
	e.Register("a", nil)
	e.Deregister("a")
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 0, e.cursor)
	assert.False(t, e.InFlight())
}

func TestEngine_InFlightGatesNext(t *testing.T) {
	e := New()
	e.Register("a", nil)
	require.False(t, e.InFlight())
	e.Next()
	assert.True(t, e.InFlight())
	e.MarkIdle()
	assert.False(t, e.InFlight())
}

func TestEngine_CallbackForDeliversRegisteredCallback(t *testing.T) {
	e := New()
	var got wire.Value
	e.Register("aircraft/0/alt", func(name string, value wire.Value, err error) {
		got = value
	})

	cb, ok := e.CallbackFor("aircraft/0/alt")
	require.True(t, ok)
	cb("aircraft/0/alt", wire.DoubleValue(42), nil)
	assert.Equal(t, 42.0, got.Float64())
}

func TestEngine_CallbackForUnknownName(t *testing.T) {
	e := New()
	_, ok := e.CallbackFor("nope")
	assert.False(t, ok)
}
