// Package testutil provides shared test doubles.
package testutil

import "sync"

// Delivery records one message handed to a CaptureSender.
type Delivery struct {
	Mode    string // "unicast" or "roomcast"
	Targets []string
	Msg     any
}

// CaptureSender records every delivery instead of transmitting anything. It
// satisfies the dispatcher's Sender interface and is safe for concurrent
// use.
type CaptureSender struct {
	mu         sync.Mutex
	deliveries []Delivery
}

// Unicast records a single-target delivery.
func (c *CaptureSender) Unicast(connID string, msg any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deliveries = append(c.deliveries, Delivery{Mode: "unicast", Targets: []string{connID}, Msg: msg})
}

// RoomCast records a multi-target delivery. The target slice is copied so
// later mutation by the caller cannot corrupt the record.
func (c *CaptureSender) RoomCast(connIDs []string, msg any) {
	targets := make([]string, len(connIDs))
	copy(targets, connIDs)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.deliveries = append(c.deliveries, Delivery{Mode: "roomcast", Targets: targets, Msg: msg})
}

// Deliveries returns a snapshot of everything recorded so far, in order.
func (c *CaptureSender) Deliveries() []Delivery {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Delivery, len(c.deliveries))
	copy(out, c.deliveries)
	return out
}

// To returns the messages delivered to the given connection, in order,
// across both unicasts and room-casts.
func (c *CaptureSender) To(connID string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []any
	for _, d := range c.deliveries {
		for _, t := range d.Targets {
			if t == connID {
				out = append(out, d.Msg)
				break
			}
		}
	}
	return out
}

// Reset discards everything recorded so far.
func (c *CaptureSender) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deliveries = nil
}
