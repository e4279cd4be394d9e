package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/bartab-sdk/pkg/slogx"
)

// deliveryBuffer bounds how far the wire can run ahead of the dispatch
// loop before shards block on their reads.
const deliveryBuffer = 256

// Manager runs the full shard set against one gateway endpoint. Every
// shard feeds the same deliveries channel, so a single consumer drains
// all shards and per-shard ordering is kept.
type Manager struct {
	URL    string
	shards []*Shard

	deliveries chan Delivery
}

// NewManager builds a manager with count shards sharing one fan-in
// channel. Shards are not connected until Connect.
func NewManager(gatewayURL string, count int, session tokenProvider) *Manager {
	if count < 1 {
		count = 1
	}
	m := &Manager{
		URL:        gatewayURL,
		deliveries: make(chan Delivery, deliveryBuffer),
	}
	for i := 0; i < count; i++ {
		m.shards = append(m.shards, newShard(i, count, session, m.deliveries))
	}
	return m
}

// Deliveries is the merged dispatch stream across all shards.
func (m *Manager) Deliveries() <-chan Delivery { return m.deliveries }

// Shards returns the shard set in index order.
func (m *Manager) Shards() []*Shard { return m.shards }

// Shard returns the shard at the given index.
func (m *Manager) Shard(id int) (*Shard, error) {
	if id < 0 || id >= len(m.shards) {
		return nil, fmt.Errorf("gateway: no shard %d", id)
	}
	return m.shards[id], nil
}

// Connect dials every shard. A failure tears down the shards that already
// connected so the manager is left cold.
func (m *Manager) Connect(ctx context.Context) error {
	log := slogx.FromContext(ctx)

	for _, s := range m.shards {
		if err := s.Connect(slogx.WithShard(ctx, s.ID()), m.URL); err != nil {
			_ = m.Close()
			return err
		}
	}
	log.Info("gateway connected", "shards", len(m.shards))
	return nil
}

// WaitReady blocks until every shard's startup handshake has completed,
// or the context ends.
func (m *Manager) WaitReady(ctx context.Context) error {
	for _, s := range m.shards {
		select {
		case <-s.Ready():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// SendAll writes one frame on every shard.
func (m *Manager) SendAll(ctx context.Context, env Envelope) error {
	var errs []error
	for _, s := range m.shards {
		if err := s.Send(ctx, env); err != nil {
			errs = append(errs, fmt.Errorf("shard %d: %w", s.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Close tears down every shard connection.
func (m *Manager) Close() error {
	var errs []error
	for _, s := range m.shards {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
