package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/aussiebroadwan/bartab-sdk/pkg/slogx"
)

var (
	ErrShardClosed   = errors.New("gateway: shard closed")
	ErrNotConnected  = errors.New("gateway: shard not connected")
	ErrAlreadyDialed = errors.New("gateway: shard already connected")
)

// tokenProvider yields the current credential. The session hands out a
// fresh token on every identify, so a rotation between reconnects is
// picked up without re-wiring the shard.
type tokenProvider interface {
	Token() string
}

// Shard owns one gateway websocket. Dispatch frames are forwarded to the
// shared deliveries channel in the order they arrive on the wire; the
// shard never reorders or drops a frame while the connection is up.
type Shard struct {
	id    int
	total int

	session    tokenProvider
	deliveries chan<- Delivery

	// The platform allows 120 sends per minute per connection.
	sendLimit *rate.Limiter

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool

	// stop ends the read and heartbeat loops. The loops deliberately do
	// not inherit the dial context: a startup timeout must not tear down
	// an established connection.
	stop context.CancelFunc

	readyOnce sync.Once
	ready     chan struct{}

	done chan struct{}
}

func newShard(id, total int, session tokenProvider, deliveries chan<- Delivery) *Shard {
	return &Shard{
		id:         id,
		total:      total,
		session:    session,
		deliveries: deliveries,
		sendLimit:  rate.NewLimiter(rate.Every(time.Minute/120), 120),
		ready:      make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// ID reports the shard's index within the shard set.
func (s *Shard) ID() int { return s.id }

// CheckReady marks the shard's startup handshake as complete. Safe to call
// more than once; only the first call closes the latch.
func (s *Shard) CheckReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Ready is closed once the shard's startup handshake has completed.
func (s *Shard) Ready() <-chan struct{} { return s.ready }

// Connect dials the gateway, identifies, and starts the read loop.
func (s *Shard) Connect(ctx context.Context, gatewayURL string) error {
	log := slogx.FromContext(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrShardClosed
	}
	if s.conn != nil {
		s.mu.Unlock()
		return ErrAlreadyDialed
	}
	s.mu.Unlock()

	// 1. Dial.
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, gatewayURL, nil)
	if err != nil {
		return fmt.Errorf("gateway: dial shard %d: %w", s.id, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	// 2. Wait for the server hello so heartbeats run at the advertised
	// interval.
	var hello Envelope
	if err := conn.ReadJSON(&hello); err != nil {
		_ = conn.Close()
		return fmt.Errorf("gateway: read hello on shard %d: %w", s.id, err)
	}
	var hp helloPayload
	if hello.Op == OpHello {
		if err := json.Unmarshal(hello.Data, &hp); err != nil {
			_ = conn.Close()
			return fmt.Errorf("gateway: decode hello on shard %d: %w", s.id, err)
		}
	}

	// 3. Identify with the current credential.
	identify, err := json.Marshal(identifyPayload{
		Token: s.session.Token(),
		Shard: [2]int{s.id, s.total},
	})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("gateway: encode identify: %w", err)
	}
	if err := s.Send(ctx, Envelope{Op: OpIdentify, Data: identify}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("gateway: identify shard %d: %w", s.id, err)
	}

	log.Debug("shard connected", "shard_id", s.id, "heartbeat_ms", hp.HeartbeatInterval)

	// 4. Run the read loop and heartbeats until Close or the connection
	// drops. The loops get a connection-lifetime context carrying the
	// caller's logger; ctx itself only governed the dial and identify.
	runCtx, stop := context.WithCancel(slogx.WithContext(context.Background(), log))
	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()

	go s.readLoop(runCtx)
	if hp.HeartbeatInterval > 0 {
		go s.heartbeatLoop(runCtx, time.Duration(hp.HeartbeatInterval)*time.Millisecond)
	}
	return nil
}

// Send writes one frame, honoring the per-connection send budget.
func (s *Shard) Send(ctx context.Context, env Envelope) error {
	if err := s.sendLimit.Wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrNotConnected
	}
	return s.conn.WriteJSON(env)
}

func (s *Shard) readLoop(ctx context.Context) {
	log := slogx.FromContext(ctx)
	defer close(s.done)

	for {
		var env Envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				log.Warn("shard read failed", "shard_id", s.id, "error", err)
			}
			return
		}

		switch env.Op {
		case OpDispatch:
			select {
			case s.deliveries <- Delivery{ShardID: s.id, Envelope: env}:
			case <-ctx.Done():
				return
			}
		case OpHeartbeatAck:
			// Nothing to track yet; the connection is alive.
		default:
			log.Debug("ignoring gateway frame", "shard_id", s.id, "op", env.Op)
		}
	}
}

func (s *Shard) heartbeatLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Send(ctx, Envelope{Op: OpHeartbeat}); err != nil {
				return
			}
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Close tears the connection down. The read loop exits on the next read.
func (s *Shard) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.stop != nil {
		s.stop()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
