package session

// WaitList is a per-session FIFO of command ids whose responses are
// still outstanding. Responses are matched against it by id, not by
// position, so a peer that answers out of order is still handled
// correctly (§3 "Pending request", §4.7 step 2).
type WaitList struct {
	ids []int32
}

// Push appends id to the back of the wait list.
func (w *WaitList) Push(id int32) {
	w.ids = append(w.ids, id)
}

// Len reports how many responses are still outstanding.
func (w *WaitList) Len() int {
	return len(w.ids)
}

// Contains reports whether id is currently outstanding.
func (w *WaitList) Contains(id int32) bool {
	for _, x := range w.ids {
		if x == id {
			return true
		}
	}
	return false
}

// RemoveFirst removes the first occurrence of id and reports whether it
// was found. An id not on the wait list indicates an unsolicited or
// duplicate response and is left to the caller to discard (§4.7 step 2).
func (w *WaitList) RemoveFirst(id int32) bool {
	for i, x := range w.ids {
		if x == id {
			w.ids = append(w.ids[:i], w.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the wait list, used when a session reconnects — every
// outstanding request is abandoned rather than replayed (§4.4).
func (w *WaitList) Clear() {
	w.ids = w.ids[:0]
}
