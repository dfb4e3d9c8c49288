// Package server exposes the job registry over REST and WebSocket.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cheachwood/GitOnBoard/board"
	"github.com/cheachwood/GitOnBoard/config"
)

const (
	// MaxClients limits concurrent WebSocket connections
	MaxClients = 256
)

// BoardServer serves the registry's REST API and pushes committed events
// to WebSocket clients.
type BoardServer struct {
	registry *board.Registry
	cfg      *config.Config

	mux        *http.ServeMux
	httpServer *http.Server

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *board.Event
	mu         sync.RWMutex

	limiter *ipRateLimiter
	logger  *zap.SugaredLogger

	// Lifecycle management
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	broadcastDrops atomic.Int64
}

// NewBoardServer creates a server over the given registry.
func NewBoardServer(registry *board.Registry, cfg *config.Config, logger *zap.SugaredLogger) *BoardServer {
	ctx, cancel := context.WithCancel(context.Background())

	s := &BoardServer{
		registry:   registry,
		cfg:        cfg,
		mux:        http.NewServeMux(),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *board.Event, board.SubscriberChannelBufferSize),
		limiter:    newIPRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}

	s.setupHTTPRoutes()
	return s
}

// Run starts the server hub event loop
func (s *BoardServer) Run() {
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Server hub stopping due to context cancellation")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		case event := <-s.broadcast:
			s.handleBroadcast(event)
		}
	}
}

// handleClientRegister handles a new client connection
func (s *BoardServer) handleClientRegister(client *Client) {
	s.mu.Lock()

	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			"client_id", client.id,
			"max_clients", MaxClients,
		)
		client.close()
		return
	}

	s.clients[client] = true
	totalClients := len(s.clients)
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		"client_id", client.id,
		"total_clients", totalClients,
	)
}

// handleClientUnregister handles a client disconnection
func (s *BoardServer) handleClientUnregister(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		totalClients := len(s.clients)
		s.mu.Unlock()

		client.close()

		s.logger.Infow("Client disconnected",
			"client_id", client.id,
			"total_clients", totalClients,
		)
	} else {
		s.mu.Unlock()
	}
}

// handleBroadcast fans a committed event out to every connected client.
// Slow clients are dropped rather than allowed to stall the hub.
func (s *BoardServer) handleBroadcast(event *board.Event) {
	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- event:
		default:
			s.broadcastDrops.Add(1)
			s.removeSlowClient(client)
		}
	}
}

// removeSlowClient removes a client that can't keep up with broadcasts.
// Only called from the hub goroutine, so channel close is safe here.
func (s *BoardServer) removeSlowClient(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		s.mu.Unlock()
	} else {
		s.mu.Unlock()
		return // Already removed
	}

	client.close()

	s.logger.Warnw("Client send channel full, removing client",
		"client_id", client.id,
		"total_drops", s.broadcastDrops.Load(),
	)
}

// Handler exposes the configured HTTP routes (used by tests).
func (s *BoardServer) Handler() http.Handler {
	return s.mux
}
