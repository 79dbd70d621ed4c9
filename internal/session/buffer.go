package session

// Buffer is an append-only receive buffer: raw socket bytes accumulate
// at the tail, and complete frames are sliced off the head as they are
// decoded (§3 "Receive buffer", §4.7).
type Buffer struct {
	data []byte
}

// Append adds newly-arrived bytes to the tail of the buffer.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// Bytes returns the buffer's current contents. The slice is only valid
// until the next Append or Advance call.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len reports how many unconsumed bytes remain buffered.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Advance discards the first n bytes, which the caller has just decoded
// into a complete frame. The backing array is compacted in place rather
// than reallocated, so repeated small advances don't leak capacity.
func (b *Buffer) Advance(n int) {
	remaining := copy(b.data, b.data[n:])
	b.data = b.data[:remaining]
}

// Reset drops all buffered bytes, used when a session reconnects and
// any partially-received frame is discarded (§4.4 reconnect policy).
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}
