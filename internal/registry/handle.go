package registry

import "sync"

// Handle is the send side of one connection. Deliver never blocks: the
// session's writer drains Outbox, and once Close is called every later
// Deliver is dropped.
type Handle struct {
	out  chan string
	done chan struct{}
	once sync.Once
}

func NewHandle(size int) *Handle {
	if size < 1 {
		size = 1
	}
	return &Handle{
		out:  make(chan string, size),
		done: make(chan struct{}),
	}
}

func (h *Handle) Outbox() <-chan string { return h.out }

func (h *Handle) Done() <-chan struct{} { return h.done }

// Deliver queues text for the connection. It reports false when the
// handle is closed or its buffer is full.
func (h *Handle) Deliver(text string) bool {
	select {
	case <-h.done:
		return false
	default:
	}

	select {
	case h.out <- text:
		return true
	default:
		return false
	}
}

func (h *Handle) Close() {
	h.once.Do(func() { close(h.done) })
}
