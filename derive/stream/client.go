// Package stream provides a read-only websocket client for Derive's
// market-data channels (tickers, orderbooks). It speaks the exchange's
// JSON-RPC subscribe protocol and restores subscriptions after reconnects.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/betbot/goderive/pkg/logger"
)

// Handler receives every notification published on a subscribed channel.
type Handler func(channel string, data json.RawMessage)

// Options tune connection behavior. Zero values get sensible defaults.
type Options struct {
	PingInterval   time.Duration
	ReconnectDelay time.Duration
	MaxReconnects  int // 0: unlimited
	Logger         *logrus.Entry
}

// Client is a websocket market-data subscriber. It is safe for concurrent
// Subscribe calls; handlers run on the single read loop goroutine and must
// not block.
type Client struct {
	url  string
	opts Options
	log  *logrus.Entry

	mu         sync.RWMutex
	conn       *websocket.Conn
	handlers   map[string]Handler
	connected  bool
	reconnects int
	nextID     int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a client for the given websocket URL (see
// signing.NetworkConstants.WSURL).
func New(wsURL string, opts Options) *Client {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 15 * time.Second
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 3 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logger.Component("derive_stream")
	}
	return &Client{
		url:      wsURL,
		opts:     opts,
		log:      log,
		handlers: make(map[string]Handler),
	}
}

// Connect dials the exchange and starts the read and ping loops.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.conn = conn
	c.connected = true
	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.wg.Add(2)
	go c.readLoop()
	go c.pingLoop()
	c.log.Infof("connected to %s", c.url)
	return nil
}

// Subscribe registers a handler and sends the subscribe request for the
// given channels. Already-registered channels are resent harmlessly.
func (c *Client) Subscribe(channels []string, handler Handler) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return fmt.Errorf("not connected")
	}
	for _, ch := range channels {
		c.handlers[ch] = handler
	}
	conn := c.conn
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	req := map[string]any{
		"id":     id,
		"method": "subscribe",
		"params": map[string]any{"channels": channels},
	}
	return conn.WriteJSON(req)
}

// TickerChannel names the ticker channel for an instrument at a publish
// interval such as "100ms" or "1000ms".
func TickerChannel(instrumentName, interval string) string {
	return fmt.Sprintf("ticker.%s.%s", instrumentName, interval)
}

// OrderbookChannel names the grouped orderbook channel for an instrument.
func OrderbookChannel(instrumentName string, group, depth int) string {
	return fmt.Sprintf("orderbook.%s.%d.%d", instrumentName, group, depth)
}

// SubscribeTicker subscribes to one instrument's ticker channel.
func (c *Client) SubscribeTicker(instrumentName, interval string, handler Handler) error {
	return c.Subscribe([]string{TickerChannel(instrumentName, interval)}, handler)
}

// SubscribeOrderbook subscribes to one instrument's grouped orderbook channel.
func (c *Client) SubscribeOrderbook(instrumentName string, group, depth int, handler Handler) error {
	return c.Subscribe([]string{OrderbookChannel(instrumentName, group, depth)}, handler)
}

// Close stops the loops and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.connected = false
	cancel := c.cancel
	conn := c.conn
	c.mu.Unlock()

	cancel()
	err := conn.Close()
	c.wg.Wait()
	return err
}

type notification struct {
	Method string `json:"method"`
	Params struct {
		Channel string          `json:"channel"`
		Data    json.RawMessage `json:"data"`
	} `json:"params"`
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	for {
		c.mu.RLock()
		conn := c.conn
		connected := c.connected
		c.mu.RUnlock()
		if !connected {
			return
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.ctx.Done():
				return
			default:
			}
			c.log.WithError(err).Warn("read failed, reconnecting")
			if !c.reconnect() {
				return
			}
			continue
		}

		var note notification
		if err := json.Unmarshal(msg, &note); err != nil || note.Method != "subscription" {
			// Subscribe acks and heartbeats land here; nothing to do.
			continue
		}
		c.mu.RLock()
		handler := c.handlers[note.Params.Channel]
		c.mu.RUnlock()
		if handler != nil {
			handler(note.Params.Channel, note.Params.Data)
		}
	}
}

func (c *Client) pingLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.mu.RLock()
			conn := c.conn
			connected := c.connected
			c.mu.RUnlock()
			if !connected {
				return
			}
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.log.WithError(err).Debug("ping failed")
			}
		}
	}
}

// reconnect redials and replays the active subscriptions. Returns false when
// the reconnect budget is exhausted.
func (c *Client) reconnect() bool {
	for {
		c.mu.Lock()
		if !c.connected {
			c.mu.Unlock()
			return false
		}
		c.reconnects++
		if c.opts.MaxReconnects > 0 && c.reconnects > c.opts.MaxReconnects {
			c.connected = false
			c.mu.Unlock()
			c.log.Error("reconnect budget exhausted")
			return false
		}
		delay := c.opts.ReconnectDelay
		c.mu.Unlock()

		select {
		case <-c.ctx.Done():
			return false
		case <-time.After(delay):
		}

		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			c.log.WithError(err).Warnf("reconnect attempt %d failed", c.reconnects)
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.reconnects = 0
		channels := make([]string, 0, len(c.handlers))
		for ch := range c.handlers {
			channels = append(channels, ch)
		}
		c.nextID++
		id := c.nextID
		c.mu.Unlock()

		if len(channels) > 0 {
			req := map[string]any{
				"id":     id,
				"method": "subscribe",
				"params": map[string]any{"channels": channels},
			}
			if err := conn.WriteJSON(req); err != nil {
				c.log.WithError(err).Warn("resubscribe failed")
				conn.Close()
				continue
			}
		}
		c.log.Info("reconnected")
		return true
	}
}
