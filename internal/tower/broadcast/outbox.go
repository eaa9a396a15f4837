// Package broadcast delivers outbound protocol messages: unicast to one
// connection or room-cast to a membership snapshot. Delivery is
// fire-and-forget with an independent bounded queue per connection, so a
// slow receiver never blocks the sender or its room mates.
package broadcast

import (
	"fmt"
	"sync"
)

// defaultDepth is used when an Outbox is created with a non-positive depth.
const defaultDepth = 64

// Outbox is one connection's bounded outbound queue. The transport's writer
// goroutine drains Events; Push never blocks.
type Outbox struct {
	connID string
	events chan []byte
	mu     sync.Mutex
	closed bool
}

// NewOutbox creates an Outbox for the given connection id.
//
// Precondition: connID must be non-empty.
// Postcondition: Returns an Outbox with an open events channel.
func NewOutbox(connID string, depth int) *Outbox {
	if depth <= 0 {
		depth = defaultDepth
	}
	return &Outbox{
		connID: connID,
		events: make(chan []byte, depth),
	}
}

// ConnID returns the owning connection's id.
func (o *Outbox) ConnID() string {
	return o.connID
}

// Push enqueues an encoded frame without blocking.
//
// Postcondition: The frame is enqueued, or an error is returned if the
// outbox is closed or full. A full outbox drops the frame; the connection
// only loses its own messages.
func (o *Outbox) Push(frame []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return fmt.Errorf("outbox %s is closed", o.connID)
	}
	select {
	case o.events <- frame:
		return nil
	default:
		return fmt.Errorf("outbox %s is full", o.connID)
	}
}

// Events returns the read-only frame channel. The channel is closed when
// the outbox is closed.
func (o *Outbox) Events() <-chan []byte {
	return o.events
}

// Close marks the outbox closed and closes the events channel. Safe to call
// more than once.
//
// Postcondition: Further Push calls return an error.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.closed = true
		close(o.events)
	}
}

// IsClosed reports whether the outbox has been closed.
func (o *Outbox) IsClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}
