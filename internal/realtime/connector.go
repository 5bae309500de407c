package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultReconnectDelay = 5 * time.Second
	pingInterval          = 30 * time.Second
	readTimeout           = 60 * time.Second
)

// Connector handles the WebSocket connection to the store's change feed
type Connector struct {
	consumer       *Consumer
	wsURL          string
	reconnectDelay time.Duration
}

// NewConnector creates a change feed connector
func NewConnector(consumer *Consumer, wsURL string) *Connector {
	return &Connector{
		consumer:       consumer,
		wsURL:          wsURL,
		reconnectDelay: defaultReconnectDelay,
	}
}

// Start begins consuming change events.
// Runs until ctx is cancelled, reconnecting on errors.
func (c *Connector) Start(ctx context.Context) error {
	log.Printf("[REALTIME] Starting change feed consumer: %s", c.wsURL)

	for {
		select {
		case <-ctx.Done():
			log.Println("[REALTIME] Change feed consumer shutting down")
			return ctx.Err()
		default:
		}

		if err := c.connect(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Printf("[REALTIME] Connection error: %v. Retrying in %s...", err, c.reconnectDelay)
			select {
			case <-time.After(c.reconnectDelay):
			case <-ctx.Done():
			}
		}
	}
}

// connect establishes the WebSocket connection and processes events
func (c *Connector) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to change feed: %w", err)
	}
	// Closed from the read loop on return and from the ping goroutine on shutdown.
	var connCloseOnce sync.Once
	closeConn := func() {
		connCloseOnce.Do(func() {
			if closeErr := conn.Close(); closeErr != nil {
				log.Printf("[REALTIME] Failed to close WebSocket connection: %v", closeErr)
			}
		})
	}
	defer closeConn()

	log.Println("[REALTIME] Connected to change feed")

	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		log.Printf("[REALTIME] Failed to set read deadline: %v", err)
	}

	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			log.Printf("[REALTIME] Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	var closeOnce sync.Once
	stop := func() { closeOnce.Do(func() { close(done) }) }
	defer stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					log.Printf("[REALTIME] Failed to send ping: %v", err)
					stop()
					return
				}
			case <-ctx.Done():
				// Unblock ReadMessage
				closeConn()
				return
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return fmt.Errorf("connection closed by ping failure")
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		var event ChangeEvent
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("[REALTIME] Failed to parse change event: %v", err)
			continue
		}

		if err := c.consumer.HandleEvent(ctx, &event); err != nil {
			log.Printf("[REALTIME] Failed to handle change event: %v", err)
		}
	}
}
