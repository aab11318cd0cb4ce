package unitybridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/metrics"
)

const (
	defaultConnectTimeout     = 5 * time.Second
	defaultCommandTimeout     = 30 * time.Second
	defaultMaxConnectAttempts = 3

	commandPing = "ping"
	pongMessage = "pong"
)

// Options configures a Connection.
type Options struct {
	Address            string
	ConnectTimeout     time.Duration
	CommandTimeout     time.Duration
	MaxConnectAttempts int
	Metrics            *metrics.Metrics
}

// Connection is a Commander talking to the Unity editor listener over TCP.
// Each frame is a single JSON object; replies are read with a streaming
// decoder so no length prefix is needed. One command is in flight at a time.
type Connection struct {
	opts Options

	mu            sync.Mutex
	conn          net.Conn
	dec           *json.Decoder
	everConnected bool
	closed        bool

	statusMu sync.RWMutex
	status   Status
}

func NewConnection(opts Options) *Connection {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = defaultCommandTimeout
	}
	if opts.MaxConnectAttempts <= 0 {
		opts.MaxConnectAttempts = defaultMaxConnectAttempts
	}
	return &Connection{
		opts:   opts,
		status: Status{Address: opts.Address},
	}
}

// SendCommand writes one command frame and waits for its reply. A reply with
// status "error" is returned as an error wrapping ErrHostError. I/O failures
// drop the socket; the next command dials again.
func (c *Connection) SendCommand(ctx context.Context, name string, params map[string]any) (HostResponse, error) {
	if strings.TrimSpace(name) == "" {
		return HostResponse{}, errors.New("command name is required")
	}
	if params == nil {
		params = map[string]any{}
	}

	commandID := uuid.NewString()
	started := time.Now()

	response, status, err := c.roundTrip(ctx, name, params)
	elapsed := time.Since(started)
	c.opts.Metrics.ObserveHostCommand(name, status, elapsed)
	c.recordCommand(name, started, elapsed, err)

	if err != nil {
		logger.Warn("Unity command failed", "command", name, "command_id", commandID, "status", status, "elapsed", elapsed, "error", err)
		return HostResponse{}, err
	}
	logger.Debug("Unity command completed", "command", name, "command_id", commandID, "elapsed", elapsed, "success", response.Success)
	return response, nil
}

func (c *Connection) roundTrip(ctx context.Context, name string, params map[string]any) (HostResponse, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return HostResponse{}, "closed", ErrClosed
	}
	if err := c.ensureConnectedLocked(ctx); err != nil {
		return HostResponse{}, "connect_error", err
	}

	deadline := time.Now().Add(c.opts.CommandTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	conn := c.conn
	if err := conn.SetDeadline(deadline); err != nil {
		c.dropLocked()
		return HostResponse{}, "transport_error", fmt.Errorf("set deadline: %w", err)
	}
	// Unblock pending I/O as soon as the caller gives up.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if err := json.NewEncoder(conn).Encode(requestFrame{Type: name, Params: params}); err != nil {
		c.dropLocked()
		return HostResponse{}, "transport_error", c.ioError(ctx, "send", name, err)
	}

	var reply replyFrame
	if err := c.dec.Decode(&reply); err != nil {
		c.dropLocked()
		return HostResponse{}, "transport_error", c.ioError(ctx, "receive", name, err)
	}

	if reply.Status == statusError {
		detail := reply.Error
		if detail == "" {
			detail = reply.Message
		}
		if detail == "" {
			detail = "unknown error"
		}
		return HostResponse{}, "host_error", fmt.Errorf("%w: %s", ErrHostError, detail)
	}

	var response HostResponse
	if len(reply.Result) > 0 {
		if err := json.Unmarshal(reply.Result, &response); err != nil {
			return HostResponse{}, "decode_error", fmt.Errorf("decode %s result: %w", name, err)
		}
	}
	return response, "ok", nil
}

func (c *Connection) ioError(ctx context.Context, op, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s %s: %w", op, name, ctxErr)
	}
	return fmt.Errorf("%s %s: %w", op, name, err)
}

func (c *Connection) ensureConnectedLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	dialer := &net.Dialer{Timeout: c.opts.ConnectTimeout}
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 100 * time.Millisecond
	expo.MaxInterval = 2 * time.Second

	conn, err := backoff.Retry(ctx, func() (net.Conn, error) {
		return dialer.DialContext(ctx, "tcp", c.opts.Address)
	},
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(c.opts.MaxConnectAttempts)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotConnected, c.opts.Address, err)
	}

	if c.everConnected {
		c.opts.Metrics.IncReconnects()
		logger.Info("Reconnected to Unity editor", "address", c.opts.Address)
	} else {
		logger.Info("Connected to Unity editor", "address", c.opts.Address)
	}
	c.everConnected = true
	c.conn = conn
	c.dec = json.NewDecoder(conn)
	c.setConnected(true)
	return nil
}

func (c *Connection) dropLocked() {
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = nil
	c.dec = nil
	c.setConnected(false)
}

// Ping sends a ping command and returns the round-trip time.
func (c *Connection) Ping(ctx context.Context) (time.Duration, error) {
	started := time.Now()
	response, err := c.SendCommand(ctx, commandPing, nil)
	if err != nil {
		return 0, err
	}
	if response.Message == nil || *response.Message != pongMessage {
		return 0, fmt.Errorf("unexpected ping reply from %s", c.opts.Address)
	}
	return time.Since(started), nil
}

// Status returns a snapshot of the connection state.
func (c *Connection) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

// Close drops the socket; later commands fail with ErrClosed.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.dropLocked()
	return nil
}

func (c *Connection) setConnected(connected bool) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.status.Connected = connected
}

func (c *Connection) recordCommand(name string, started time.Time, elapsed time.Duration, err error) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.status.LastCommand = name
	c.status.LastCommandAt = started.UTC()
	c.status.LastRoundTripMS = elapsed.Milliseconds()
	if err != nil {
		c.status.LastError = err.Error()
	} else {
		c.status.LastError = ""
	}
}
