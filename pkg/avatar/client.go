package avatar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// errConnectionClosed reports a request that outlived the connection.
var errConnectionClosed = errors.New("connection closed")

// Config contains configuration for the websocket Client.
type Config struct {
	// URL is the endpoint's websocket address, e.g. "ws://127.0.0.1:8001".
	URL string

	// APIName and APIVersion fill the request envelope. Defaulted when
	// empty.
	APIName    string
	APIVersion string

	// PluginName and PluginDeveloper identify this bridge to the
	// endpoint during authentication.
	PluginName      string
	PluginDeveloper string

	// AuthToken is a previously granted authentication token. When
	// empty, Authenticate requests a fresh one (the endpoint usually
	// prompts its operator to approve it).
	AuthToken string

	// RequestTimeout bounds each Send round-trip. Default: 10s.
	RequestTimeout time.Duration

	// HandshakeTimeout bounds the websocket dial. Default: 5s.
	HandshakeTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.APIName == "" {
		c.APIName = "AvatarParameterAPI"
	}
	if c.APIVersion == "" {
		c.APIVersion = "1.0"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 5 * time.Second
	}
}

// Client is the websocket Transport implementation. A single connection
// carries all requests; responses are correlated by requestID, so
// concurrent Sends are safe.
type Client struct {
	config Config
	logger *slog.Logger
	conn   *websocket.Conn

	// writeMu serializes writes; gorilla/websocket allows only one
	// concurrent writer.
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan envelope
	readErr error

	closed    chan struct{}
	closeOnce sync.Once
	connOnce  sync.Once
}

// Dial connects to the avatar endpoint and starts the response reader.
func Dial(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	config.applyDefaults()

	if config.URL == "" {
		return nil, fmt.Errorf("endpoint URL cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dialer := websocket.Dialer{HandshakeTimeout: config.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, config.URL, nil)
	if err != nil {
		return nil, &TransportError{Op: "dial", Cause: err}
	}

	c := &Client{
		config:  config,
		logger:  logger.With("component", "avatar.client"),
		conn:    conn,
		pending: make(map[string]chan envelope),
		closed:  make(chan struct{}),
	}

	go c.readLoop()

	c.logger.Info("connected to avatar endpoint", "url", config.URL)

	return c, nil
}

// Send implements Transport. It round-trips one request and decodes the
// correlated response data into response when non-nil.
func (c *Client) Send(ctx context.Context, messageType MessageType, payload any, response any) error {
	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", messageType, err)
		}
		data = encoded
	}

	requestID := uuid.NewString()
	reply := make(chan envelope, 1)

	c.mu.Lock()
	if c.readErr != nil {
		err := c.readErr
		c.mu.Unlock()
		return &TransportError{Op: "send", Cause: err}
	}
	c.pending[requestID] = reply
	c.mu.Unlock()

	request := envelope{
		APIName:     c.config.APIName,
		APIVersion:  c.config.APIVersion,
		RequestID:   requestID,
		MessageType: messageType,
		Data:        data,
	}

	c.writeMu.Lock()
	err := c.conn.WriteJSON(request)
	c.writeMu.Unlock()
	if err != nil {
		c.unregister(requestID)
		return &TransportError{Op: "write", Cause: err}
	}

	select {
	case resp := <-reply:
		return c.decodeResponse(messageType, resp, response)

	case <-ctx.Done():
		c.unregister(requestID)
		return ctx.Err()

	case <-c.closed:
		c.unregister(requestID)
		c.mu.Lock()
		cause := c.readErr
		c.mu.Unlock()
		if cause == nil {
			cause = errConnectionClosed
		}
		return &TransportError{Op: "receive", Cause: cause}
	}
}

// decodeResponse turns a response envelope into the caller's result or a
// typed error.
func (c *Client) decodeResponse(requestType MessageType, resp envelope, response any) error {
	if resp.MessageType == MessageTypeAPIError {
		var apiErr struct {
			ErrorID int    `json:"errorID"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(resp.Data, &apiErr); err != nil {
			return &TransportError{Op: "receive", Cause: fmt.Errorf("malformed APIError payload: %w", err)}
		}
		return &APIError{
			ErrorID:     apiErr.ErrorID,
			Message:     apiErr.Message,
			RequestType: requestType,
		}
	}

	if response != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, response); err != nil {
			return &TransportError{Op: "receive", Cause: fmt.Errorf("malformed %s payload: %w", resp.MessageType, err)}
		}
	}

	return nil
}

// Authenticate performs the plugin authentication exchange. When no
// token is configured it first requests one, which the endpoint may
// surface to its operator for approval. The granted token is kept for
// the lifetime of the client and returned so callers can persist it.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	token := c.config.AuthToken

	if token == "" {
		var granted AuthenticationTokenResponse
		err := c.Send(ctx, MessageTypeAuthenticationToken, AuthenticationTokenRequest{
			PluginName:      c.config.PluginName,
			PluginDeveloper: c.config.PluginDeveloper,
		}, &granted)
		if err != nil {
			return "", fmt.Errorf("token request failed: %w", err)
		}
		token = granted.AuthenticationToken
	}

	var result AuthenticationResponse
	err := c.Send(ctx, MessageTypeAuthentication, AuthenticationRequest{
		PluginName:          c.config.PluginName,
		PluginDeveloper:     c.config.PluginDeveloper,
		AuthenticationToken: token,
	}, &result)
	if err != nil {
		return "", fmt.Errorf("authentication failed: %w", err)
	}

	if !result.Authenticated {
		return "", fmt.Errorf("authentication rejected by endpoint: %s", result.Reason)
	}

	c.config.AuthToken = token
	c.logger.Info("authenticated with avatar endpoint", "plugin", c.config.PluginName)

	return token, nil
}

// Close shuts the connection down. In-flight Sends fail with a
// TransportError. Close is idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})

	var err error
	c.connOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

// readLoop delivers response envelopes to their waiting Send calls. It
// exits on the first read error, failing all outstanding requests.
func (c *Client) readLoop() {
	for {
		var resp envelope
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			c.closeOnce.Do(func() {
				close(c.closed)
			})
			return
		}

		c.mu.Lock()
		reply, ok := c.pending[resp.RequestID]
		delete(c.pending, resp.RequestID)
		c.mu.Unlock()

		if !ok {
			c.logger.Debug("response with no matching request",
				"request_id", resp.RequestID,
				"message_type", resp.MessageType,
			)
			continue
		}

		reply <- resp
	}
}

// unregister removes a pending request after a failed or abandoned Send.
func (c *Client) unregister(requestID string) {
	c.mu.Lock()
	delete(c.pending, requestID)
	c.mu.Unlock()
}
