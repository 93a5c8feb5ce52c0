package devserver

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	readWait   = 300 * time.Second
	pingPeriod = 54 * time.Second
)

// Server accepts websocket connections and broadcasts messages to all
// of them. It serves a development workflow on localhost; the origin
// check accepts everything.
type Server struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	sessions map[uint64]*session
	nextID   uint64
}

type session struct {
	id     uint64
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}
	once   sync.Once
}

// NewServer creates a server with no connected clients.
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions: make(map[uint64]*session),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered
// until the client goes away.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("devserver: upgrade failed: %v", err)
		return
	}

	sess := &session{
		conn:   conn,
		send:   make(chan []byte, 16),
		closed: make(chan struct{}),
	}
	s.mu.Lock()
	s.nextID++
	sess.id = s.nextID
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	go sess.writer()
	s.readLoop(sess)
}

// Clients returns the number of connected sessions.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Broadcast sends msg to every connected client and reports how many
// accepted it. Clients with a full send buffer are skipped rather than
// blocked on.
func (s *Server) Broadcast(msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("devserver: encode %s message: %v", msg.Type, err)
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sent := 0
	for _, sess := range s.sessions {
		select {
		case sess.send <- data:
			sent++
		default:
		}
	}
	return sent
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		sessions = append(sessions, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
}

// readLoop consumes inbound frames until the connection drops. Clients
// send nothing meaningful; reading keeps pong handling alive.
func (s *Server) readLoop(sess *session) {
	defer s.drop(sess)
	sess.conn.SetReadDeadline(time.Now().Add(readWait))
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(readWait))
		return nil
	})
	for {
		if _, _, err := sess.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) drop(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	sess.close()
}

func (sess *session) close() {
	sess.once.Do(func() {
		close(sess.closed)
		sess.conn.Close()
	})
}

// writer owns all writes to the connection: queued broadcasts and the
// keepalive pings.
func (sess *session) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-sess.send:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sess.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sess.closed:
			return
		}
	}
}
