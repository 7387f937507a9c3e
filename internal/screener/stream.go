package screener

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"dexwatch/internal/domain"
)

// StreamConfig configures the snapshot stream source.
type StreamConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultStreamConfig returns default stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// StreamSource keeps a websocket subscription per chain and caches the
// most recent snapshot frame, so polling callers read from memory
// instead of issuing a request. Satisfies Source.
type StreamSource struct {
	endpoint string
	chains   []string
	config   StreamConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	// latest holds the last decoded frame per chain
	latest   map[string][]domain.PairSnapshot
	latestMu sync.RWMutex

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// streamRequest subscribes to one chain's snapshot frames.
type streamRequest struct {
	Type  string `json:"type"`
	Chain string `json:"chain"`
}

// streamFrame is one published snapshot batch.
type streamFrame struct {
	Type  string `json:"type"`
	Chain string `json:"chain"`
	Pairs []Pair `json:"pairs"`
}

// NewStreamSource connects to the endpoint and subscribes to every chain.
func NewStreamSource(ctx context.Context, endpoint string, chains []string, config *StreamConfig) (*StreamSource, error) {
	cfg := DefaultStreamConfig()
	if config != nil {
		cfg = *config
	}

	s := &StreamSource{
		endpoint: endpoint,
		chains:   chains,
		config:   cfg,
		latest:   make(map[string][]domain.PairSnapshot),
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	if err := s.subscribeAll(); err != nil {
		s.Close()
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop()

	s.wg.Add(1)
	go s.pingLoop()

	return s, nil
}

// connect establishes the websocket connection.
func (s *StreamSource) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	s.conn = conn
	return nil
}

// subscribeAll sends one subscribe request per configured chain.
func (s *StreamSource) subscribeAll() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("not connected")
	}

	for _, chain := range s.chains {
		s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		if err := s.conn.WriteJSON(streamRequest{Type: "subscribe", Chain: chain}); err != nil {
			return fmt.Errorf("write subscribe %s: %w", chain, err)
		}
	}
	return nil
}

// FetchPairs returns the most recent frame for the chain. Before the
// first frame arrives the result is empty.
func (s *StreamSource) FetchPairs(ctx context.Context, chainID string) ([]domain.PairSnapshot, error) {
	if s.closed.Load() {
		return nil, fmt.Errorf("stream closed")
	}

	s.latestMu.RLock()
	defer s.latestMu.RUnlock()

	snaps := s.latest[chainID]
	out := make([]domain.PairSnapshot, len(snaps))
	copy(out, snaps)
	return out, nil
}

// Close closes the websocket connection.
func (s *StreamSource) Close() error {
	if s.closed.Swap(true) {
		return nil // Already closed
	}

	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	return nil
}

// readLoop reads frames and caches them, reconnecting on errors.
func (s *StreamSource) readLoop() {
	defer s.wg.Done()

	reconnectDelay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}

			if !s.reconnecting.Swap(true) {
				go s.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > s.config.MaxReconnectDelay {
				reconnectDelay = s.config.MaxReconnectDelay
			}

			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		reconnectDelay = s.config.ReconnectDelay

		s.handleMessage(message)
	}
}

// reconnect attempts to reconnect and resubscribe.
func (s *StreamSource) reconnect(delay time.Duration) {
	defer s.reconnecting.Store(false)

	if s.closed.Load() {
		return
	}

	select {
	case <-s.done:
		return
	case <-time.After(delay):
	}

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		return
	}

	s.subscribeAll()
}

// handleMessage decodes one frame and replaces the chain's cached batch.
func (s *StreamSource) handleMessage(message []byte) {
	var frame streamFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		return
	}
	if frame.Type != "pairs" || frame.Chain == "" {
		return
	}

	snaps := snapshots(frame.Pairs, time.Now().UTC())

	s.latestMu.Lock()
	s.latest[frame.Chain] = snaps
	s.latestMu.Unlock()
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (s *StreamSource) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			s.connMu.Unlock()
		}
	}
}

var _ Source = (*StreamSource)(nil)
