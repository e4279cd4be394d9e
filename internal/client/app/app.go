package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
	"github.com/aussiebroadwan/bartab-sdk/internal/client/gateway"
	"github.com/aussiebroadwan/bartab-sdk/internal/client/rest"
	"github.com/aussiebroadwan/bartab-sdk/internal/client/state"
	"github.com/aussiebroadwan/bartab-sdk/internal/client/store"
	"github.com/aussiebroadwan/bartab-sdk/internal/client/store/drivers/sqlite"
	"github.com/aussiebroadwan/bartab-sdk/pkg/optionx"
	"github.com/aussiebroadwan/bartab-sdk/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

var ErrNoToken = errors.New("app: SDK_TOKEN is required")

// Client is the SDK composition root. It owns the state core and wires the
// gateway and REST collaborators to it; application code talks to the
// platform exclusively through here.
type Client struct {
	cfg    Config
	logger *slog.Logger

	state      *state.State
	dispatcher *state.Dispatcher
	api        *rest.Client
	shards     *gateway.Manager

	// db is nil when persistence is disabled.
	db store.Store

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Client with all dependencies initialized. Nothing touches
// the network until Connect.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}

	c := &Client{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "bartab-sdk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		state: state.New(cfg.Token),
		done:  make(chan struct{}),
	}
	c.dispatcher = state.NewDispatcher(c.state)
	c.api = rest.New(cfg.APIBaseURL, c.state.Session())
	c.shards = gateway.NewManager(cfg.GatewayURL, cfg.Shards, c.state.Session())

	if cfg.StateFile != "" {
		if err := c.initStore(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Client) initStore() error {
	db, err := sqlite.NewStore(c.cfg.StateFile)
	if err != nil {
		return fmt.Errorf("app: open state file: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("app: migrate state file: %w", err)
	}
	c.db = db

	if err := c.restore(); err != nil {
		c.logger.Warn("snapshot restore failed", "error", err)
	}

	// Persist committed merges as they happen. Observer callbacks run on
	// the dispatch goroutine after commit, so what we write is exactly
	// what the caches hold.
	c.state.Subscribe(c.persist)
	return nil
}

// restore warms the caches from the snapshot store, so the account is
// readable before the first handshake. A later READY patches the restored
// entity in place.
func (c *Client) restore() error {
	ctx := context.Background()
	snaps := c.db.Snapshots()

	snap, err := snaps.LoadAccount(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	acc, err := store.DecodeAccount(snap)
	if err != nil {
		return err
	}

	notes, err := snaps.ListNotes(ctx)
	if err != nil {
		return err
	}
	for _, n := range notes {
		acc.Notes.Set(n.UserID, n.Body)
	}

	settings, err := snaps.ListGuildSettings(ctx)
	if err != nil {
		return err
	}
	for _, gs := range settings {
		acc.GuildSettings.Set(gs.GuildID, gs)
	}

	if err := c.state.Restore(acc); err != nil {
		return err
	}
	c.logger.Info("state restored from snapshot", "user_id", acc.User.ID, "notes", len(notes))
	return nil
}

// persist writes the committed outcome of a state event to the snapshot
// store. Failures are logged and dropped; persistence is best effort and
// must never stall the dispatch loop.
func (c *Client) persist(ev state.Event) {
	if c.db == nil {
		return
	}
	ctx := context.Background()
	snaps := c.db.Snapshots()

	var err error
	switch e := ev.(type) {
	case state.Ready, state.AccountUpdate, state.SettingsUpdate, state.PresenceUpdate:
		err = c.saveAccount(ctx)
		if _, ok := e.(state.Ready); ok && err == nil {
			err = c.saveCaches(ctx)
		}
	case state.NoteUpdate:
		err = snaps.SaveNote(ctx, e.UserID, e.New)
	case state.GuildSettingsUpdate:
		err = snaps.SaveGuildSettings(ctx, e.New)
	}
	if err != nil {
		c.logger.Warn("snapshot write failed", "event", ev.EventName(), "error", err)
	}
}

func (c *Client) saveAccount(ctx context.Context) error {
	acc := c.state.Account()
	if acc == nil {
		return nil
	}
	snap, err := store.EncodeAccount(acc, time.Now().UTC())
	if err != nil {
		return err
	}
	return c.db.Snapshots().SaveAccount(ctx, snap)
}

func (c *Client) saveCaches(ctx context.Context) error {
	acc := c.state.Account()
	if acc == nil {
		return nil
	}
	snaps := c.db.Snapshots()

	var err error
	acc.Notes.Range(func(userID string, body *string) bool {
		err = snaps.SaveNote(ctx, userID, body)
		return err == nil
	})
	if err != nil {
		return err
	}
	acc.GuildSettings.Range(func(_ string, gs domain.GuildSettings) bool {
		err = snaps.SaveGuildSettings(ctx, gs)
		return err == nil
	})
	return err
}

// Connect dials every shard and starts the dispatch loop, then blocks until
// each shard's startup handshake completes.
func (c *Client) Connect(ctx context.Context) error {
	ctx = slogx.WithContext(ctx, c.logger)
	if err := c.shards.Connect(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(slogx.WithContext(context.Background(), c.logger))
	c.cancel = cancel
	go c.run(runCtx)

	waitCtx, cancelWait := context.WithTimeout(ctx, c.cfg.ReadyWait)
	defer cancelWait()
	if err := c.shards.WaitReady(waitCtx); err != nil {
		return fmt.Errorf("app: gateway handshake: %w", err)
	}
	return nil
}

// run is the single dispatch loop. Every shard feeds the same channel, so
// all merges happen on this one goroutine and per-shard ordering holds.
func (c *Client) run(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case d := <-c.shards.Deliveries():
			c.handle(ctx, d)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) handle(ctx context.Context, d gateway.Delivery) {
	ctx = slogx.WithShard(ctx, d.ShardID)
	log := slogx.FromContext(ctx)

	shard, err := c.shards.Shard(d.ShardID)
	if err != nil {
		log.Error("delivery from unknown shard", "error", err)
		return
	}

	if _, _, err := c.dispatcher.Dispatch(ctx, shard, d.Envelope.Type, d.Envelope.Data); err != nil {
		log.Warn("event dispatch failed", "type", d.Envelope.Type, "seq", d.Envelope.Seq, "error", err)
	}
}

// WaitReady blocks until every shard has completed its startup handshake.
func (c *Client) WaitReady(ctx context.Context) error {
	return c.shards.WaitReady(ctx)
}

// State exposes the state core for reads and subscriptions.
func (c *Client) State() *state.State { return c.state }

// OnEvent subscribes to committed state changes. The returned func removes
// the subscription.
func (c *Client) OnEvent(fn state.Observer) func() {
	return c.state.Subscribe(fn)
}

// EditAccount pushes a profile edit over REST and merges the canonical
// response through the same pipeline gateway events use. When the platform
// echoes back a state we already hold, the merge is a no-op and the current
// account is returned unchanged.
func (c *Client) EditAccount(ctx context.Context, edit domain.AccountEdit) (*domain.Account, error) {
	if edit.Empty() {
		return c.state.Account(), nil
	}

	ctx = slogx.WithContext(ctx, c.logger)
	patch, err := c.api.PatchSelf(ctx, edit)
	if err != nil {
		return nil, err
	}

	res, err := c.state.ApplyAccountUpdate(patch)
	if err != nil {
		return nil, err
	}
	return res.Account, nil
}

// SetUsername changes the account's username. The platform requires the
// current password to confirm the change.
func (c *Client) SetUsername(ctx context.Context, username, password string) (*domain.Account, error) {
	return c.EditAccount(ctx, domain.AccountEdit{
		Username: optionx.Some(username),
		Password: optionx.Some(password),
	})
}

// SetAvatar changes the account's avatar. A nil data URI removes it.
func (c *Client) SetAvatar(ctx context.Context, dataURI *string) (*domain.Account, error) {
	return c.EditAccount(ctx, domain.AccountEdit{
		Avatar: optionx.Some(dataURI),
	})
}

// SetPresence broadcasts a presence change on every shard and commits it
// locally without waiting for the echo.
func (c *Client) SetPresence(ctx context.Context, p domain.Presence) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := c.shards.SendAll(ctx, gateway.Envelope{Op: gateway.OpPresenceUpdate, Data: data}); err != nil {
		return err
	}

	_, err = c.state.ApplyPresenceUpdate(state.PresencePayload{
		Status: p.Status,
		AFK:    p.AFK,
		Since:  p.Since,
		Game:   p.Activity,
	})
	return err
}

// Mentions lists recent messages mentioning the account.
func (c *Client) Mentions(ctx context.Context, q domain.MentionsQuery) ([]domain.Message, error) {
	return c.api.Mentions(slogx.WithContext(ctx, c.logger), q)
}

// Close tears down the gateway connections, stops the dispatch loop, and
// closes the snapshot store.
func (c *Client) Close() error {
	var errs []error
	if err := c.shards.Close(); err != nil {
		errs = append(errs, err)
	}
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
