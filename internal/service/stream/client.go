package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"PortfolioOne/internal/domain/models"
	drepo "PortfolioOne/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a MarketStream backed by a Finnhub-style trade WebSocket.
type Client struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	mu        sync.Mutex // guards conn writes and connection state
	conn      *websocket.Conn
	connected bool
	pingStop  chan struct{}
}

// New creates a new WebSocket MarketStream.
func New(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration) drepo.MarketStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection and starts a ping loop scoped
// to this connection. Reconnecting tears the old loop down first.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("stream connect: %w", err)
	}

	c.mu.Lock()
	c.stopPingLocked()
	c.conn = conn
	c.connected = true
	if c.pingInterval > 0 {
		c.pingStop = make(chan struct{})
		go c.pingLoop(conn, c.pingStop)
	}
	c.mu.Unlock()

	log.Printf("stream: connected")
	return nil
}

// Subscribe subscribes to configured symbols.
func (c *Client) Subscribe(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || !c.connected {
		return fmt.Errorf("stream not connected")
	}
	for _, s := range c.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		log.Printf("stream: subscribed %s", s)
	}
	return nil
}

// pingLoop keeps one connection alive; it dies with that connection. Writes
// go through the client mutex since gorilla allows one concurrent writer.
func (c *Client) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// stopPingLocked stops the current connection's ping loop. Caller holds mu.
func (c *Client) stopPingLocked() {
	if c.pingStop != nil {
		close(c.pingStop)
		c.pingStop = nil
	}
}

type wsTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	T int64   `json:"t"` // ms
}

type wsMessage struct {
	Type string    `json:"type"`
	Data []wsTrade `json:"data"`
}

// Read streams price ticks and errors from the current connection.
func (c *Client) Read(ctx context.Context) (<-chan *models.PricePoint, <-chan error) {
	ticks := make(chan *models.PricePoint, 1024)
	errs := make(chan error, 1)

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	go func() {
		defer close(ticks)
		defer close(errs)
		if conn == nil {
			errs <- fmt.Errorf("stream conn nil")
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			default:
				_, b, err := conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("stream read: %w", err)
					return
				}
				var m wsMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-trade frames
					continue
				}
				if m.Type != "trade" {
					continue
				}
				for _, d := range m.Data {
					tick := &models.PricePoint{
						Date:  time.Unix(d.T/1000, 0).UTC(),
						Close: d.P,
					}
					select {
					case ticks <- tick:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return ticks, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection and its ping loop.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.stopPingLocked()
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
