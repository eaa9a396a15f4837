package broadcast

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Fanout routes messages to registered connection outboxes.
// All methods are safe for concurrent use.
type Fanout struct {
	logger *zap.Logger
	depth  int

	mu       sync.RWMutex
	outboxes map[string]*Outbox
}

// NewFanout creates a Fanout whose outboxes hold up to depth frames each.
//
// Precondition: logger must be non-nil.
func NewFanout(logger *zap.Logger, depth int) *Fanout {
	return &Fanout{
		logger:   logger,
		depth:    depth,
		outboxes: make(map[string]*Outbox),
	}
}

// Register creates and tracks an outbox for the connection. Registering a
// connection id twice replaces the previous outbox, closing it first.
//
// Postcondition: Returns the outbox the transport should drain.
func (f *Fanout) Register(connID string) *Outbox {
	out := NewOutbox(connID, f.depth)

	f.mu.Lock()
	prev := f.outboxes[connID]
	f.outboxes[connID] = out
	f.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return out
}

// Unregister closes and forgets the connection's outbox. No-op for unknown
// connections.
func (f *Fanout) Unregister(connID string) {
	f.mu.Lock()
	out := f.outboxes[connID]
	delete(f.outboxes, connID)
	f.mu.Unlock()

	if out != nil {
		out.Close()
	}
}

// ConnCount returns the number of registered connections.
func (f *Fanout) ConnCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.outboxes)
}

// Unicast delivers a message to exactly one connection. Unknown connections
// and full outboxes lose the message; neither blocks the caller.
func (f *Fanout) Unicast(connID string, msg any) {
	frame, err := json.Marshal(msg)
	if err != nil {
		f.logger.Error("encoding unicast message", zap.Error(err))
		return
	}
	f.deliver(connID, frame)
}

// RoomCast delivers a message to every listed connection. The caller passes
// a membership snapshot taken under the registry lock, so the target set is
// consistent even while members come and go. The message is encoded once.
func (f *Fanout) RoomCast(connIDs []string, msg any) {
	if len(connIDs) == 0 {
		return
	}
	frame, err := json.Marshal(msg)
	if err != nil {
		f.logger.Error("encoding room-cast message", zap.Error(err))
		return
	}
	for _, connID := range connIDs {
		f.deliver(connID, frame)
	}
}

func (f *Fanout) deliver(connID string, frame []byte) {
	f.mu.RLock()
	out, ok := f.outboxes[connID]
	f.mu.RUnlock()

	if !ok {
		// The connection raced a disconnect; nothing to deliver to.
		return
	}
	if err := out.Push(frame); err != nil {
		f.logger.Warn("dropping outbound frame",
			zap.String("conn_id", connID),
			zap.Error(err),
		)
	}
}
