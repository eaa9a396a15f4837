// Package ws accepts WebSocket connections and bridges them to the event
// dispatcher. Each connection gets a reader loop (this handler's goroutine)
// and one writer goroutine draining its outbox; the reader invokes the
// dispatcher inline, so a connection's events are applied in arrival order.
package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/emberdragonc/ember-tower/internal/config"
	"github.com/emberdragonc/ember-tower/internal/tower/broadcast"
	"github.com/emberdragonc/ember-tower/internal/tower/dispatch"
)

// Server upgrades HTTP requests to WebSocket connections and runs their
// read/write loops.
type Server struct {
	logger       *zap.Logger
	dispatcher   *dispatch.Dispatcher
	fanout       *broadcast.Fanout
	readTimeout  time.Duration
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer creates a Server wired to the dispatcher and fanout.
//
// Precondition: logger, dispatcher, and fanout must be non-nil.
func NewServer(logger *zap.Logger, dispatcher *dispatch.Dispatcher, fanout *broadcast.Fanout, cfg config.WebSocketConfig) *Server {
	return &Server{
		logger:       logger,
		dispatcher:   dispatcher,
		fanout:       fanout,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the http.HandlerFunc that accepts WebSocket upgrades.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.logger.Debug("upgrade failed", zap.Error(err))
			return
		}
		s.serve(conn)
	}
}

func (s *Server) serve(conn *websocket.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	out := s.fanout.Register(connID)
	s.logger.Info("connection opened", zap.String("conn_id", connID))

	writerDone := make(chan struct{})
	go s.writeLoop(conn, out, writerDone)

	s.readLoop(conn, connID)

	// Reader is done: tear down in an order that lets queued frames drain
	// nowhere. Disconnect cleanup runs before the outbox closes so the
	// departure broadcast still reaches the other connections.
	s.dispatcher.HandleDisconnect(connID)
	s.fanout.Unregister(connID)
	<-writerDone
	s.logger.Info("connection closed", zap.String("conn_id", connID))
}

func (s *Server) readLoop(conn *websocket.Conn, connID string) {
	for {
		if s.readTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("read failed", zap.String("conn_id", connID), zap.Error(err))
			}
			return
		}
		// Malformed frames are dropped inside the dispatcher.
		s.dispatcher.HandleFrame(connID, frame)
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, out *broadcast.Outbox, done chan<- struct{}) {
	defer close(done)
	for frame := range out.Events() {
		if s.writeTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		}
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			// Closing the connection unblocks the reader, which drives
			// the rest of the teardown.
			_ = conn.Close()
			return
		}
	}
}
