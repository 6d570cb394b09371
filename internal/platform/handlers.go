package platform

// Handlers is a list of callbacks that can be removed after registration.
// Like the backends that hold it, it is used from the control thread only.
type Handlers[T any] struct {
	next    int
	entries []handlerEntry[T]
}

type handlerEntry[T any] struct {
	id int
	fn func(T)
}

// Add registers fn and returns a function that removes it again. Calling
// the returned function more than once is harmless.
func (h *Handlers[T]) Add(fn func(T)) (remove func()) {
	h.next++
	id := h.next
	h.entries = append(h.entries, handlerEntry[T]{id: id, fn: fn})
	return func() {
		for i, e := range h.entries {
			if e.id == id {
				h.entries = append(h.entries[:i:i], h.entries[i+1:]...)
				return
			}
		}
	}
}

// Call runs every registered handler in registration order. Handlers
// removed while Call runs may still see this value.
func (h *Handlers[T]) Call(v T) {
	for _, e := range h.entries {
		e.fn(v)
	}
}

// Len returns the number of registered handlers.
func (h *Handlers[T]) Len() int {
	return len(h.entries)
}
