// Package session owns the websocket connection to the camera device.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"facecam/remote/internal/domain"
	"facecam/remote/internal/protocol"
)

const writeTimeout = 5 * time.Second

// ErrClosed is returned by Connect on a session that was already closed.
var ErrClosed = errors.New("session closed")

// Client manages the websocket connection to the device. Inbound messages
// are decoded and handed to the handler from a single goroutine, in the
// order the device sent them. It is never reconnected.
type Client struct {
	url          string
	pingInterval time.Duration
	handler      domain.Handler
	dialer       *websocket.Dialer
	id           string
	log          zerolog.Logger

	// mu serializes writes and guards conn and state.
	mu    sync.Mutex
	conn  *websocket.Conn
	state domain.ConnState

	// notifyMu orders state transitions with their OnStateChange calls.
	// The handler must not call Close from OnStateChange.
	notifyMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
}

// NewClient creates a session for the device at url. A zero pingInterval
// disables keepalive pings.
func NewClient(url string, pingInterval time.Duration, handler domain.Handler) *Client {
	id := uuid.NewString()
	return &Client{
		url:          url,
		pingInterval: pingInterval,
		handler:      handler,
		dialer:       websocket.DefaultDialer,
		id:           id,
		log:          log.With().Str("component", "session").Str("session", id).Logger(),
		closed:       make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// ID returns the random id used to tag this session's log lines.
func (c *Client) ID() string {
	return c.id
}

// State returns the current connection state.
func (c *Client) State() domain.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the read loop has exited.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Connect dials the device and starts the read and ping loops.
func (c *Client) Connect(ctx context.Context) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	c.setState(domain.StateConnecting)
	c.log.Info().Str("url", c.url).Msg("connecting")

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.Close()
		close(c.done)
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.notifyMu.Lock()
	c.mu.Lock()
	select {
	case <-c.closed:
		c.mu.Unlock()
		c.notifyMu.Unlock()
		conn.Close()
		close(c.done)
		return ErrClosed
	default:
	}
	c.conn = conn
	c.state = domain.StateOpen
	c.mu.Unlock()
	c.notify(domain.StateOpen)
	c.notifyMu.Unlock()
	c.log.Info().Msg("connected")

	go c.readLoop()
	if c.pingInterval > 0 {
		go c.pingLoop()
	}

	return nil
}

// Close shuts down the connection. It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			c.conn.Close()
		}
		c.mu.Unlock()

		c.setState(domain.StateClosed)
	})
}

// SendText writes one text message. It fails with domain.ErrNotConnected
// unless the session is open; nothing is queued.
func (c *Client) SendText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.StateOpen || c.conn == nil {
		return domain.ErrNotConnected
	}

	c.log.Debug().Msgf(">>> %s", text)
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("websocket write: %w", err)
	}
	return nil
}

func (c *Client) setState(s domain.ConnState) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	// Closed is final.
	if c.state == domain.StateClosed && s != domain.StateClosed {
		select {
		case <-c.closed:
			c.mu.Unlock()
			return
		default:
		}
	}
	c.state = s
	c.mu.Unlock()

	c.notify(s)
}

func (c *Client) notify(s domain.ConnState) {
	if c.handler != nil {
		c.handler.OnStateChange(s)
	}
}

func (c *Client) readLoop() {
	defer close(c.done)
	defer c.Close()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
			default:
				c.log.Warn().Err(err).Msg("read error")
			}
			return
		}

		if messageType == websocket.BinaryMessage {
			c.log.Trace().Int("bytes", len(data)).Msg("<<< frame")
		} else {
			c.log.Debug().Msgf("<<< %s", data)
		}

		ev, err := protocol.Decode(messageType, data)
		if err != nil {
			c.log.Warn().Err(err).Msg("dropping message")
			c.handler.OnMalformed(err)
			continue
		}
		protocol.Dispatch(ev, c.handler)
	}
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
			c.mu.Lock()
			err := c.conn.WriteControl(
				websocket.PingMessage,
				[]byte{},
				time.Now().Add(writeTimeout),
			)
			c.mu.Unlock()
			if err != nil {
				select {
				case <-c.closed:
				default:
					c.log.Warn().Err(err).Msg("ping error")
				}
				return
			}
		}
	}
}
