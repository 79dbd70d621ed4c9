package queue

import (
	"testing"

	"github.com/marmos91/ifconnect/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	var q Queue
	q.Enqueue(Entry{Name: "a", CommandID: 1})
	q.Enqueue(Entry{Name: "b", CommandID: 2})
	q.Enqueue(Entry{Name: "c", CommandID: 3})

	require.Equal(t, 3, q.Len())

	front, ok := q.Front()
	require.True(t, ok)
	assert.Equal(t, "a", front.Name)

	q.PopFront()
	front, ok = q.Front()
	require.True(t, ok)
	assert.Equal(t, "b", front.Name)
	assert.Equal(t, 2, q.Len())
}

func TestQueue_DuplicateNamesAreIndependentEntries(t *testing.T) {
	var q Queue
	q.Enqueue(Entry{Name: "aircraft/0/alt", CommandID: 1})
	q.Enqueue(Entry{Name: "aircraft/0/alt", CommandID: 1})

	assert.Equal(t, 2, q.Len())
	q.PopFront()
	assert.Equal(t, 1, q.Len())
	front, ok := q.Front()
	require.True(t, ok)
	assert.Equal(t, "aircraft/0/alt", front.Name)
}

func TestQueue_FrontOnEmpty(t *testing.T) {
	var q Queue
	_, ok := q.Front()
	assert.False(t, ok)
}

func TestQueue_PopFrontOnEmptyIsNoop(t *testing.T) {
	var q Queue
	q.PopFront()
	assert.Equal(t, 0, q.Len())
}

func TestQueue_CallbackInvokedWithDecodedValue(t *testing.T) {
	var q Queue
	var got wire.Value
	var gotErr error
	q.Enqueue(Entry{
		Name:      "aircraft/0/alt",
		CommandID: 1,
		Callback: func(name string, value wire.Value, err error) {
			got = value
			gotErr = err
		},
	})

	front, _ := q.Front()
	front.Callback(front.Name, wire.DoubleValue(1234.5), nil)
	require.NoError(t, gotErr)
	assert.Equal(t, 1234.5, got.Float64())
}
