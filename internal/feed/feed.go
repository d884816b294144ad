// Package feed streams scored predictions to browser clients over WebSocket.
//
// The HTTP layer publishes every successful prediction with Broadcast; a single
// broadcaster goroutine fans the event out to connected clients. New clients
// receive a hello event describing the model state before any prediction.
package feed

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	EventHello      = "hello"
	EventPrediction = "prediction"

	writeWait  = 5 * time.Second
	bufferSize = 100
)

// ErrStopped is returned when the feed is used after Stop.
var ErrStopped = errors.New("feed stopped")

// Event is one message sent to clients.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// Feed is a WebSocket hub. It implements http.Handler for the upgrade endpoint.
type Feed struct {
	upgrader  websocket.Upgrader
	hello     func() any // payload of the hello event
	onClients func(int)  // called whenever the client count changes

	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex

	writeTimeout time.Duration

	events  chan Event
	stop    chan struct{}
	done    chan struct{}
	running bool
	stopped bool
	stateMu sync.Mutex
}

// Option configures a Feed.
type Option func(*Feed)

// WithHello sets the payload sent to every new client.
func WithHello(fn func() any) Option {
	return func(f *Feed) { f.hello = fn }
}

// WithClientCounter registers a callback for client count changes.
func WithClientCounter(fn func(int)) Option {
	return func(f *Feed) { f.onClients = fn }
}

// WithCheckOrigin overrides the upgrader origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(f *Feed) { f.upgrader.CheckOrigin = fn }
}

// New creates a feed. Call Start before publishing.
func New(opts ...Option) *Feed {
	f := &Feed{
		upgrader:     websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:      make(map[*websocket.Conn]bool),
		writeTimeout: writeWait,
		events:       make(chan Event, bufferSize),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start launches the broadcaster goroutine.
func (f *Feed) Start() error {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()

	if f.stopped {
		return ErrStopped
	}
	if f.running {
		return errors.New("feed is already running")
	}
	f.running = true
	go f.broadcaster()

	log.Info().Msg("Prediction feed started")
	return nil
}

// Stop closes every client connection and terminates the broadcaster.
func (f *Feed) Stop() {
	f.stateMu.Lock()
	if f.stopped {
		f.stateMu.Unlock()
		return
	}
	f.stopped = true
	wasRunning := f.running
	close(f.stop)
	f.stateMu.Unlock()

	if wasRunning {
		<-f.done
	}

	f.clientsMu.Lock()
	for client := range f.clients {
		client.Close()
	}
	f.clients = make(map[*websocket.Conn]bool)
	f.clientsMu.Unlock()
	f.reportClients(0)

	log.Info().Msg("Prediction feed stopped")
}

// Broadcast queues an event for all clients. It never blocks; events are
// dropped when the buffer is full or the feed is stopped.
func (f *Feed) Broadcast(eventType string, data any) {
	evt := Event{Type: eventType, Timestamp: time.Now().UTC(), Data: data}
	select {
	case <-f.stop:
		return
	default:
	}
	select {
	case f.events <- evt:
	default:
		log.Warn().Str("type", eventType).Msg("Prediction feed buffer full, dropping event")
	}
}

// Clients returns the number of connected clients.
func (f *Feed) Clients() int {
	f.clientsMu.Lock()
	defer f.clientsMu.Unlock()
	return len(f.clients)
}

// ServeHTTP upgrades the request and keeps the connection until the client leaves.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-f.stop:
		http.Error(w, ErrStopped.Error(), http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	var payload any
	if f.hello != nil {
		payload = f.hello()
	}
	if err := f.writeEvent(conn, Event{Type: EventHello, Timestamp: time.Now().UTC(), Data: payload}); err != nil {
		log.Debug().Err(err).Msg("Failed to send hello to feed client")
		return
	}

	f.clientsMu.Lock()
	select {
	case <-f.stop:
		f.clientsMu.Unlock()
		return
	default:
	}
	f.clients[conn] = true
	n := len(f.clients)
	f.clientsMu.Unlock()
	f.reportClients(n)

	log.Debug().Str("remote", r.RemoteAddr).Int("clients", n).Msg("Feed client connected")

	// Client messages are ignored; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	f.clientsMu.Lock()
	delete(f.clients, conn)
	n = len(f.clients)
	f.clientsMu.Unlock()
	f.reportClients(n)

	log.Debug().Str("remote", r.RemoteAddr).Int("clients", n).Msg("Feed client disconnected")
}

func (f *Feed) broadcaster() {
	defer close(f.done)
	for {
		select {
		case <-f.stop:
			return
		case evt := <-f.events:
			f.send(evt)
		}
	}
}

func (f *Feed) send(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal feed event")
		return
	}

	// Writes happen outside clientsMu so a stalled client delays only the
	// broadcaster, not Clients or new registrations.
	f.clientsMu.Lock()
	clients := make([]*websocket.Conn, 0, len(f.clients))
	for client := range f.clients {
		clients = append(clients, client)
	}
	f.clientsMu.Unlock()

	var failed []*websocket.Conn
	for _, client := range clients {
		client.SetWriteDeadline(time.Now().Add(f.writeTimeout))
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn().Err(err).Msg("Failed to send message to feed client")
			client.Close()
			failed = append(failed, client)
		}
	}
	if len(failed) == 0 {
		return
	}

	f.clientsMu.Lock()
	for _, client := range failed {
		delete(f.clients, client)
	}
	n := len(f.clients)
	f.clientsMu.Unlock()
	f.reportClients(n)
}

func (f *Feed) reportClients(n int) {
	if f.onClients != nil {
		f.onClients(n)
	}
}

func (f *Feed) writeEvent(conn *websocket.Conn, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(f.writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}
