// Package overlay provides the trajectory feed consumed by atlas overlay
// front ends: an HTTP + WebSocket service exposing the session's planned
// insertion records so a renderer can draw needle and overshoot lines on
// reference images. The server only hands data out; rendering stays on
// the client.
package overlay

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"stereotax-go/pkg/log"
	"stereotax-go/pkg/trajectory"
)

// PlanSource supplies the records the feed serves.
type PlanSource interface {
	Records() []trajectory.InsertionRecord
}

// Server serves the trajectory feed.
type Server struct {
	source PlanSource
	addr   string
	logger *log.Logger

	httpServer *http.Server

	wsUpgrader websocket.Upgrader
	wsClients  map[int64]*wsClient
	wsClientMu sync.RWMutex
	nextWSID   int64

	running   atomic.Bool
	startTime time.Time
}

// New creates a feed server for the given listen address and record
// source.
func New(addr string, source PlanSource) *Server {
	s := &Server{
		source:    source,
		addr:      addr,
		logger:    log.GetLogger("overlay"),
		wsClients: make(map[int64]*wsClient),
		startTime: time.Now(),
	}
	s.wsUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // local tooling, any origin
		},
	}
	return s
}

// Handler returns the feed's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/server/info", s.handleServerInfo)
	mux.HandleFunc("/session/records", s.handleRecords)
	mux.HandleFunc("/websocket", s.handleWebSocket)
	return mux
}

// Start starts the feed server. It blocks until the server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}
	s.running.Store(true)
	s.logger.Info("overlay feed listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the feed server and disconnects all clients.
func (s *Server) Stop() error {
	s.running.Store(false)

	s.wsClientMu.Lock()
	for _, client := range s.wsClients {
		client.close()
	}
	s.wsClients = make(map[int64]*wsClient)
	s.wsClientMu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// RecordPlanned pushes a newly accepted record to every connected
// client. It is the session observer hook.
func (s *Server) RecordPlanned(rec trajectory.InsertionRecord) {
	msg := map[string]any{
		"method": "notify_record_planned",
		"params": recordStatus(rec),
	}

	s.wsClientMu.RLock()
	defer s.wsClientMu.RUnlock()
	for _, client := range s.wsClients {
		client.send(msg)
	}
}

// recordStatus flattens a record into the fields an overlay renderer
// consumes.
func recordStatus(rec trajectory.InsertionRecord) map[string]any {
	return map[string]any{
		"kind":         rec.Kind.String(),
		"name":         rec.Name,
		"label":        rec.Label,
		"ap":           rec.AP,
		"ml":           rec.ML,
		"dv":           rec.DV,
		"angle":        rec.Angle,
		"hole_ml":      rec.HoleML,
		"target_ml":    rec.TargetML,
		"target_dv":    rec.TargetDV,
		"overshoot_ml": rec.OvershootML,
		"overshoot_dv": rec.OvershootDV,
	}
}

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"result": map[string]any{
			"service": "stereotax",
			"records": len(s.source.Records()),
			"uptime":  time.Since(s.startTime).Seconds(),
		},
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	recs := s.source.Records()
	out := make([]map[string]any, len(recs))
	for i, rec := range recs {
		out[i] = recordStatus(rec)
	}
	s.writeJSON(w, map[string]any{"result": out})
}

func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// wsClient represents one WebSocket client connection.
type wsClient struct {
	id     int64
	conn   *websocket.Conn
	server *Server
	sendCh chan any
	done   chan struct{}
	mu     sync.Mutex
}

func (s *Server) newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		id:     atomic.AddInt64(&s.nextWSID, 1),
		conn:   conn,
		server: s,
		sendCh: make(chan any, 64),
		done:   make(chan struct{}),
	}
}

func (c *wsClient) send(msg any) {
	select {
	case c.sendCh <- msg:
	case <-c.done:
	default:
		// Channel full, drop message
		c.server.logger.Warn("dropping message to client %d (channel full)", c.id)
	}
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return // Already closed
	default:
		close(c.done)
	}
	c.conn.Close()
}

// readPump reads until the connection drops; incoming messages are
// ignored, the feed is push-only.
func (c *wsClient) readPump() {
	defer func() {
		c.server.removeClient(c)
		c.close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.server.logger.WithError(err).Warn("websocket write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := s.newWSClient(conn)

	s.wsClientMu.Lock()
	s.wsClients[client.id] = client
	s.wsClientMu.Unlock()

	s.logger.Debug("websocket client %d connected", client.id)

	go client.writePump()

	// Replay the records planned before this client connected.
	for _, rec := range s.source.Records() {
		client.send(map[string]any{
			"method": "notify_record_planned",
			"params": recordStatus(rec),
		})
	}

	client.readPump() // Blocks until connection closes
}

func (s *Server) removeClient(client *wsClient) {
	s.wsClientMu.Lock()
	delete(s.wsClients, client.id)
	s.wsClientMu.Unlock()

	s.logger.Debug("websocket client %d disconnected", client.id)
}
