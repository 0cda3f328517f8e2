package tracking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Frame is one tracking frame as sent by the capture client.
type Frame struct {
	// Timestamp is the client's capture time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Values maps tracking identifiers to their current value.
	Values map[string]float64 `json:"values"`
}

// Receiver listens for tracking frames on a UDP socket and retains the
// newest one.
type Receiver struct {
	logger *slog.Logger
	conn   *net.UDPConn

	mu        sync.RWMutex
	latest    map[string]float64
	lastFrame time.Time
	received  uint64
	malformed uint64

	closeOnce sync.Once
}

// Listen binds the UDP socket at listenAddr (e.g. "0.0.0.0:49983") and
// starts receiving frames in the background until Close.
func Listen(listenAddr string, logger *slog.Logger) (*Receiver, error) {
	if logger == nil {
		logger = slog.Default()
	}

	addr, err := net.ResolveUDPAddr("udp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid tracking listen address %q: %w", listenAddr, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %q: %w", listenAddr, err)
	}

	r := &Receiver{
		logger: logger.With("component", "tracking.receiver"),
		conn:   conn,
	}

	go r.run()

	r.logger.Info("tracking receiver listening", "addr", conn.LocalAddr().String())

	return r, nil
}

// Addr returns the bound socket address, useful when listening on an
// ephemeral port.
func (r *Receiver) Addr() net.Addr {
	return r.conn.LocalAddr()
}

// Latest returns a copy of the newest frame's values and the local time
// it arrived. The map is empty before the first frame.
func (r *Receiver) Latest() (map[string]float64, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make(map[string]float64, len(r.latest))
	for name, value := range r.latest {
		values[name] = value
	}
	return values, r.lastFrame
}

// Stale reports whether no frame has arrived within maxAge. It is true
// before the first frame.
func (r *Receiver) Stale(maxAge time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.lastFrame.IsZero() {
		return true
	}
	return time.Since(r.lastFrame) > maxAge
}

// Stats returns the number of frames received and of malformed
// datagrams dropped.
func (r *Receiver) Stats() (received, malformed uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.received, r.malformed
}

// Close releases the socket and stops the receive loop. Idempotent.
func (r *Receiver) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.conn.Close()
	})
	return err
}

// run is the receive loop. It exits when the socket is closed.
func (r *Receiver) run() {
	buf := make([]byte, 64*1024)

	for {
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			// Closed socket or fatal error: stop receiving.
			r.logger.Debug("tracking receive loop stopped", "error", err)
			return
		}

		var frame Frame
		if err := json.Unmarshal(buf[:n], &frame); err != nil {
			r.mu.Lock()
			r.malformed++
			r.mu.Unlock()
			r.logger.Debug("dropped malformed tracking datagram", "error", err)
			continue
		}

		r.mu.Lock()
		r.latest = frame.Values
		r.lastFrame = time.Now()
		r.received++
		r.mu.Unlock()
	}
}
