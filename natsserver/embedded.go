// Package natsserver runs the in-process NATS server carrying the relay's
// domain events (detection alerts) from the state store to the alert hub.
package natsserver

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// EmbeddedNATS wraps an embedded NATS server with a client connection.
type EmbeddedNATS struct {
	server *server.Server
	conn   *nats.Conn
	port   int

	eventsPublished uint64
	eventsDropped   uint64
}

// Config holds configuration for the embedded NATS server.
type Config struct {
	Port       int
	MaxPayload int32 // max message size in bytes
}

// DefaultConfig returns sensible defaults for small JSON event payloads.
func DefaultConfig() Config {
	return Config{
		Port:       4233,
		MaxPayload: 1024 * 1024,
	}
}

// New creates and starts an embedded NATS server on localhost, then opens
// the internal client connection used for publishing.
func New(cfg Config) (*EmbeddedNATS, error) {
	if cfg.MaxPayload <= 0 {
		cfg.MaxPayload = 1024 * 1024
	}

	opts := &server.Options{
		Host:          "127.0.0.1",
		Port:          cfg.Port,
		NoLog:         true,
		NoSigs:        true,
		MaxPayload:    cfg.MaxPayload,
		WriteDeadline: 10 * time.Second,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		return nil, fmt.Errorf("NATS server not ready after 5 seconds")
	}

	// Resolve the bound port; cfg.Port may be -1 for a random port in tests
	port := cfg.Port
	if addr, ok := ns.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}

	nc, err := nats.Connect(
		ns.ClientURL(),
		nats.Name("smartfarm-internal"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to embedded NATS: %w", err)
	}

	return &EmbeddedNATS{
		server: ns,
		conn:   nc,
		port:   port,
	}, nil
}

// Publish publishes a message to a subject.
func (e *EmbeddedNATS) Publish(subject string, data []byte) error {
	if err := e.conn.Publish(subject, data); err != nil {
		atomic.AddUint64(&e.eventsDropped, 1)
		return err
	}
	atomic.AddUint64(&e.eventsPublished, 1)
	return nil
}

// Subscribe subscribes to a subject.
func (e *EmbeddedNATS) Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error) {
	return e.conn.Subscribe(subject, handler)
}

// Conn returns the underlying NATS connection.
func (e *EmbeddedNATS) Conn() *nats.Conn {
	return e.conn
}

// Address returns the NATS server address.
func (e *EmbeddedNATS) Address() string {
	return fmt.Sprintf("nats://127.0.0.1:%d", e.port)
}

// Port returns the NATS server port.
func (e *EmbeddedNATS) Port() int {
	return e.port
}

// Stats holds NATS server statistics.
type Stats struct {
	Clients         int    `json:"clients"`
	Subscriptions   uint32 `json:"subscriptions"`
	EventsPublished uint64 `json:"eventsPublished"`
	EventsDropped   uint64 `json:"eventsDropped"`
}

// GetStats returns current server statistics.
func (e *EmbeddedNATS) GetStats() Stats {
	return Stats{
		Clients:         e.server.NumClients(),
		Subscriptions:   e.server.NumSubscriptions(),
		EventsPublished: atomic.LoadUint64(&e.eventsPublished),
		EventsDropped:   atomic.LoadUint64(&e.eventsDropped),
	}
}

// Shutdown closes the client connection and stops the server.
func (e *EmbeddedNATS) Shutdown() {
	if e.conn != nil {
		e.conn.Close()
	}
	if e.server != nil {
		e.server.Shutdown()
	}
}
