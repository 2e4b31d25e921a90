package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/pkg/logger"
)

// Client represents a connected SSE subscriber
type Client struct {
	ID       string
	Writer   http.ResponseWriter
	Flusher  http.Flusher
	Done     chan struct{}
	LastSeen time.Time

	mutex     sync.Mutex // serializes writes to this client
	closeOnce sync.Once
}

// close waits for an in-flight write so nothing touches Writer after the
// handler returns
func (c *Client) close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.closeOnce.Do(func() { close(c.Done) })
}

// Option configures a Broadcaster
type Option func(*Broadcaster)

// WithHeartbeat sets how often idle connections get a heartbeat frame
func WithHeartbeat(interval time.Duration) Option {
	return func(b *Broadcaster) { b.heartbeatInterval = interval }
}

// WithStaleAfter sets how long a client may go without a successful write.
// Non-positive durations keep the default.
func WithStaleAfter(d time.Duration) Option {
	return func(b *Broadcaster) {
		if d > 0 {
			b.staleAfter = d
		}
	}
}

// WithConnectionHooks registers callbacks run when clients join and leave
func WithConnectionHooks(onConnect, onDisconnect func()) Option {
	return func(b *Broadcaster) {
		b.onConnect = onConnect
		b.onDisconnect = onDisconnect
	}
}

// Broadcaster fans JSON messages out to every connected SSE client
type Broadcaster struct {
	logger    *logger.Logger
	clients   map[string]*Client
	mutex     sync.RWMutex
	broadcast chan []byte
	shutdown  chan struct{}
	closeOnce sync.Once

	heartbeatInterval time.Duration
	staleAfter        time.Duration
	onConnect         func()
	onDisconnect      func()
}

// NewBroadcaster creates a broadcaster and starts its background loops
func NewBroadcaster(log *logger.Logger, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		logger:            log.WithComponent("sse-broadcaster"),
		clients:           make(map[string]*Client),
		broadcast:         make(chan []byte, 1000),
		shutdown:          make(chan struct{}),
		heartbeatInterval: 30 * time.Second,
		staleAfter:        90 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.broadcastLoop()
	go b.cleanupLoop()

	return b
}

// AddClient registers a client
func (b *Broadcaster) AddClient(client *Client) {
	b.mutex.Lock()
	b.clients[client.ID] = client
	b.mutex.Unlock()

	if b.onConnect != nil {
		b.onConnect()
	}
	b.logger.Debug("SSE client connected", zap.String("clientId", client.ID))
}

// RemoveClient unregisters a client and signals its handler to return
func (b *Broadcaster) RemoveClient(clientID string) {
	b.mutex.Lock()
	client, exists := b.clients[clientID]
	if exists {
		delete(b.clients, clientID)
	}
	b.mutex.Unlock()

	if !exists {
		return
	}

	client.close()
	if b.onDisconnect != nil {
		b.onDisconnect()
	}
	b.logger.Debug("SSE client disconnected", zap.String("clientId", clientID))
}

// BroadcastToAll queues message for every connected client. Messages are
// dropped when the queue is full or the broadcaster is closed.
func (b *Broadcaster) BroadcastToAll(message any) {
	data, err := json.Marshal(message)
	if err != nil {
		b.logger.Error("Failed to marshal SSE message", zap.Error(err))
		return
	}

	select {
	case <-b.shutdown:
		return
	default:
	}

	select {
	case b.broadcast <- data:
	default:
		b.logger.Warn("Broadcast channel full, dropping message")
	}
}

func (b *Broadcaster) snapshot() []*Client {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	clients := make([]*Client, 0, len(b.clients))
	for _, client := range b.clients {
		clients = append(clients, client)
	}
	return clients
}

func (b *Broadcaster) broadcastLoop() {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in broadcastLoop", zap.Any("panic", r))
			go b.broadcastLoop()
		}
	}()

	for {
		select {
		case <-b.shutdown:
			b.logger.Info("Broadcast loop shutting down")
			return
		case data := <-b.broadcast:
			for _, client := range b.snapshot() {
				if err := b.sendToClient(client, fmt.Sprintf("data: %s\n\n", data)); err != nil {
					b.logger.Warn("Failed to send to client",
						zap.String("clientId", client.ID),
						zap.Error(err))
					b.RemoveClient(client.ID)
				}
			}
		}
	}
}

func (b *Broadcaster) sendToClient(client *Client, frame string) error {
	if client.Writer == nil || client.Flusher == nil {
		return fmt.Errorf("client %s has no writer", client.ID)
	}

	client.mutex.Lock()
	defer client.mutex.Unlock()

	select {
	case <-client.Done:
		return fmt.Errorf("client connection closed")
	default:
	}

	n, err := client.Writer.Write([]byte(frame))
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if n != len(frame) {
		return fmt.Errorf("incomplete write: wrote %d/%d bytes", n, len(frame))
	}

	client.Flusher.Flush()
	client.LastSeen = time.Now()
	return nil
}

// cleanupLoop removes clients that have not been written to recently
func (b *Broadcaster) cleanupLoop() {
	ticker := time.NewTicker(b.staleAfter / 3)
	defer ticker.Stop()

	for {
		select {
		case <-b.shutdown:
			return
		case now := <-ticker.C:
			for _, client := range b.snapshot() {
				client.mutex.Lock()
				stale := now.Sub(client.LastSeen) > b.staleAfter
				client.mutex.Unlock()

				if stale {
					b.logger.Debug("Removing stale SSE client", zap.String("clientId", client.ID))
					b.RemoveClient(client.ID)
				}
			}
		}
	}
}

// ClientCount returns the number of connected clients
func (b *Broadcaster) ClientCount() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.clients)
}

// Close disconnects every client and stops the background loops
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() {
		b.logger.Debug("Shutting down SSE broadcaster")
		close(b.shutdown)

		for _, client := range b.snapshot() {
			b.RemoveClient(client.ID)
		}
	})
}

// ServeHTTP streams broadcast messages to one client until it disconnects
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		b.logger.Error("SSE: response writer does not support flushing")
		http.Error(w, "Server-Sent Events not supported", http.StatusInternalServerError)
		return
	}

	select {
	case <-b.shutdown:
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	// The stream outlives the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)

	client := &Client{
		ID:       uuid.New().String(),
		Writer:   w,
		Flusher:  flusher,
		Done:     make(chan struct{}),
		LastSeen: time.Now(),
	}

	b.AddClient(client)
	defer b.RemoveClient(client.ID)

	connected := fmt.Sprintf("data: {\"type\":\"connected\",\"client_id\":\"%s\"}\n\n", client.ID)
	if err := b.sendToClient(client, connected); err != nil {
		b.logger.Warn("Failed to send connected frame", zap.String("clientId", client.ID), zap.Error(err))
		return
	}

	heartbeat := time.NewTicker(b.heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-client.Done:
			return
		case <-r.Context().Done():
			b.logger.Debug("SSE request context cancelled", zap.String("clientId", client.ID))
			return
		case <-heartbeat.C:
			frame := fmt.Sprintf("data: {\"type\":\"heartbeat\",\"timestamp\":\"%s\"}\n\n", time.Now().Format(time.RFC3339))
			if err := b.sendToClient(client, frame); err != nil {
				b.logger.Warn("Failed to send heartbeat",
					zap.String("clientId", client.ID),
					zap.Error(err))
				return
			}
		}
	}
}
