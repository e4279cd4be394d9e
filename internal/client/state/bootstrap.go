package state

import (
	"context"
	"log/slog"
	"sort"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
	"github.com/aussiebroadwan/bartab-sdk/pkg/optionx"
	"github.com/aussiebroadwan/bartab-sdk/pkg/slogx"
)

// ReadyShard is the slice of the shard surface the bootstrap coordinator
// needs: an identity for tagging guilds and a ready latch it signals exactly
// once, after all handshake state has committed. Joining readiness across
// shards is the shard manager's job.
type ReadyShard interface {
	ID() int
	CheckReady()
}

// ReadyPayload is the handshake event body: the full initial snapshot
// delivered on a fresh connection.
type ReadyPayload struct {
	User          AccountPatch                           `json:"user"`
	Guilds        []domain.Guild                         `json:"guilds"`
	Relationships []domain.Relationship                  `json:"relationships"`
	Notes         optionx.Option[map[string]string]      `json:"notes"`
	Settings      optionx.Option[SettingsPatch]          `json:"user_settings"`
	GuildSettings optionx.Option[[]domain.GuildSettings] `json:"user_guild_settings"`
}

// Bootstrap applies a handshake. The first call creates the authoritative
// account entity; every later call (another shard, or a reconnect) is an
// incremental patch over the same entity, so handshakes are idempotent and
// can arrive in any cross-shard order. The shard's ready latch is signalled
// after all state below has committed, never before.
func (s *State) Bootstrap(ctx context.Context, shard ReadyShard, p ReadyPayload) (*domain.Account, error) {
	l := slogx.FromContext(ctx)

	// The handshake carries settings beside the user object; fold them into
	// the account patch so the merger populates everything in one pass.
	if p.Settings.Present() {
		p.User.Settings = p.Settings
	}
	if p.GuildSettings.Present() {
		p.User.GuildSettings = p.GuildSettings
	}

	s.mu.Lock()

	created := false
	if s.account == nil {
		// First handshake for this client: construct the singleton and
		// share its base record with the user cache.
		s.account = domain.NewAccount()
		created = true
	}
	acc := s.account

	effects := ApplyAccount(acc, p.User)
	if created {
		s.users.Put(&acc.User)
	}

	// 1. Guilds, tagged with the shard they arrived on.
	for _, g := range p.Guilds {
		g.ShardID = shard.ID()
		s.guilds.Register(g)
	}

	// 2. Relationships, classified by wire code. Unknown codes still warm
	// the user cache but land in neither mapping.
	for _, rel := range p.Relationships {
		u := s.users.Upsert(rel.User)
		switch rel.Type {
		case domain.RelationFriend:
			acc.Friends.Set(u.ID, u)
		case domain.RelationBlocked:
			acc.Blocked.Set(u.ID, u)
		default:
			l.Debug("ignoring unknown relationship type",
				slog.Int("type", int(rel.Type)),
				slog.String("user_id", u.ID),
			)
		}
	}

	// 3. Notes, skipped entirely when the payload has none. Empty strings
	// normalize to the explicit cleared state. Go map order is random, so
	// sort for a deterministic cache order.
	if notes, ok := p.Notes.Get(); ok {
		ids := make([]string, 0, len(notes))
		for id := range notes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			acc.Notes.Set(id, normalizeNote(notes[id]))
		}
	}

	s.mu.Unlock()

	// Side effects and signals only after everything is committed.
	if tok, ok := effects.Token.Get(); ok {
		s.session.SetToken(tok)
	}

	shard.CheckReady()

	l.Info("handshake applied",
		slog.Int("shard_id", shard.ID()),
		slog.String("user_id", acc.User.ID),
		slog.Bool("created", created),
		slog.Int("guilds", len(p.Guilds)),
		slog.Int("relationships", len(p.Relationships)),
	)

	s.emit(Ready{ShardID: shard.ID(), Account: acc})
	return acc, nil
}

// normalizeNote maps the wire's note text to the cache representation: a
// non-empty string, or nil for "no note". The empty string never survives.
func normalizeNote(note string) *string {
	if note == "" {
		return nil
	}
	return &note
}
