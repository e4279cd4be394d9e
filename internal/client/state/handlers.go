package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
	"github.com/aussiebroadwan/bartab-sdk/pkg/slogx"
)

// Every delta handler follows the same shape: read the old value, compute
// the new one, commit it, notify observers, then return the old/new pair.
// Commit strictly precedes notification so an observer reading the caches
// always sees the committed value.

// NoteUpdatePayload is the body of a note delta.
type NoteUpdatePayload struct {
	ID   string `json:"id"`
	Note string `json:"note"`
}

// NoteResult is what a note delta resolves to.
type NoteResult struct {
	Old     *string
	Updated *string
}

// ApplyNoteUpdate commits a note change and notifies observers. The empty
// string normalizes to the explicit cleared state.
func (s *State) ApplyNoteUpdate(p NoteUpdatePayload) (NoteResult, error) {
	s.mu.Lock()
	if s.account == nil {
		s.mu.Unlock()
		return NoteResult{}, ErrNotReady
	}

	old, _ := s.account.Notes.Get(p.ID)
	updated := normalizeNote(p.Note)
	s.account.Notes.Set(p.ID, updated)
	s.mu.Unlock()

	s.emit(NoteUpdate{UserID: p.ID, Old: old, New: updated})
	return NoteResult{Old: old, Updated: updated}, nil
}

// AccountResult reports the outcome of merging an account payload.
type AccountResult struct {
	// Updated is true when the payload touched the entity itself (and not
	// just side-channel data such as a rotated token).
	Updated bool
	Old     domain.Account
	Account *domain.Account
}

// ApplyAccountUpdate merges an account payload through the patch merger and
// forwards the credential side channel to the session. Both the push event
// and the REST edit response funnel through here, which is what makes the
// double-path merge idempotent.
func (s *State) ApplyAccountUpdate(p AccountPatch) (AccountResult, error) {
	s.mu.Lock()
	if s.account == nil {
		s.mu.Unlock()
		return AccountResult{}, ErrNotReady
	}

	old := snapshotAccount(s.account)
	effects := ApplyAccount(s.account, p)
	updated := p.hasProfileChange()
	acc := s.account
	s.mu.Unlock()

	if tok, ok := effects.Token.Get(); ok {
		s.session.SetToken(tok)
	}

	if updated {
		s.emit(AccountUpdate{Old: old, New: snapshotAccount(acc)})
	}
	return AccountResult{Updated: updated, Old: old, Account: acc}, nil
}

// SettingsResult is the old/new pair for a settings delta.
type SettingsResult struct {
	Old *domain.Settings
	New domain.Settings
}

// ApplySettingsUpdate merges a settings payload into the account.
func (s *State) ApplySettingsUpdate(p SettingsPatch) (SettingsResult, error) {
	s.mu.Lock()
	if s.account == nil {
		s.mu.Unlock()
		return SettingsResult{}, ErrNotReady
	}

	var old *domain.Settings
	if s.account.Settings != nil {
		prev := *s.account.Settings
		old = &prev
	} else {
		s.account.Settings = &domain.Settings{}
	}
	applySettings(s.account.Settings, p)
	updated := *s.account.Settings
	s.mu.Unlock()

	s.emit(SettingsUpdate{Old: old, New: updated})
	return SettingsResult{Old: old, New: updated}, nil
}

// ApplyGuildSettingsUpdate replaces one guild's settings record wholesale.
func (s *State) ApplyGuildSettingsUpdate(gs domain.GuildSettings) (GuildSettingsUpdate, error) {
	s.mu.Lock()
	if s.account == nil {
		s.mu.Unlock()
		return GuildSettingsUpdate{}, ErrNotReady
	}

	var old *domain.GuildSettings
	if prev, ok := s.account.GuildSettings.Get(gs.GuildID); ok {
		old = &prev
	}
	s.account.GuildSettings.Set(gs.GuildID, gs)
	s.mu.Unlock()

	ev := GuildSettingsUpdate{GuildID: gs.GuildID, Old: old, New: gs}
	s.emit(ev)
	return ev, nil
}

// RelationshipResult is the old/new relation pair for one user.
type RelationshipResult struct {
	User *domain.User
	Old  domain.RelationType
	New  domain.RelationType
}

// relationOf reports which mapping currently holds userID. Caller holds the
// lock.
func (s *State) relationOf(userID string) domain.RelationType {
	if s.account.Friends.Has(userID) {
		return domain.RelationFriend
	}
	if s.account.Blocked.Has(userID) {
		return domain.RelationBlocked
	}
	return domain.RelationNone
}

// ApplyRelationshipAdd classifies and commits a relationship record. Unknown
// relation codes warm the user cache but mutate nothing else.
func (s *State) ApplyRelationshipAdd(ctx context.Context, rel domain.Relationship) (RelationshipResult, error) {
	s.mu.Lock()
	if s.account == nil {
		s.mu.Unlock()
		return RelationshipResult{}, ErrNotReady
	}

	u := s.users.Upsert(rel.User)

	if !rel.Type.Known() {
		s.mu.Unlock()
		slogx.FromContext(ctx).Debug("ignoring unknown relationship type",
			slog.Int("type", int(rel.Type)),
			slog.String("user_id", u.ID),
		)
		return RelationshipResult{User: u}, nil
	}

	old := s.relationOf(u.ID)
	switch rel.Type {
	case domain.RelationFriend:
		s.account.Blocked.Delete(u.ID)
		s.account.Friends.Set(u.ID, u)
	case domain.RelationBlocked:
		s.account.Friends.Delete(u.ID)
		s.account.Blocked.Set(u.ID, u)
	}
	s.mu.Unlock()

	s.emit(RelationshipUpdate{UserID: u.ID, User: u, Old: old, New: rel.Type})
	return RelationshipResult{User: u, Old: old, New: rel.Type}, nil
}

// RelationshipRemovePayload only carries the subject id and the code being
// removed.
type RelationshipRemovePayload struct {
	ID   string              `json:"id"`
	Type domain.RelationType `json:"type"`
}

// ApplyRelationshipRemove drops userID from both relationship mappings.
func (s *State) ApplyRelationshipRemove(p RelationshipRemovePayload) (RelationshipResult, error) {
	s.mu.Lock()
	if s.account == nil {
		s.mu.Unlock()
		return RelationshipResult{}, ErrNotReady
	}

	old := s.relationOf(p.ID)
	s.account.Friends.Delete(p.ID)
	s.account.Blocked.Delete(p.ID)
	u, _ := s.users.Get(p.ID)
	s.mu.Unlock()

	s.emit(RelationshipUpdate{UserID: p.ID, User: u, Old: old, New: domain.RelationNone})
	return RelationshipResult{User: u, Old: old, New: domain.RelationNone}, nil
}

// PresencePayload is the body of a presence delta. Only the logged-in
// account's own presence is in scope for this core; other users' presences
// belong to guild state.
type PresencePayload struct {
	User   UserPatch        `json:"user"`
	Status string           `json:"status"`
	AFK    bool             `json:"afk"`
	Since  *int64           `json:"since"`
	Game   *domain.Activity `json:"game"`
}

// PresenceResult is the old/new presence pair.
type PresenceResult struct {
	Old domain.Presence
	New domain.Presence
}

// ApplyPresenceUpdate commits the account's own presence. Payloads for other
// users are ignored without error.
func (s *State) ApplyPresenceUpdate(p PresencePayload) (PresenceResult, error) {
	s.mu.Lock()
	if s.account == nil {
		s.mu.Unlock()
		return PresenceResult{}, ErrNotReady
	}

	if id, ok := p.User.ID.Get(); ok && id != s.account.User.ID {
		old := s.account.Presence
		s.mu.Unlock()
		return PresenceResult{Old: old, New: old}, nil
	}

	old := s.account.Presence
	updated := domain.Presence{
		Status:   p.Status,
		AFK:      p.AFK,
		Since:    p.Since,
		Activity: p.Game,
	}
	s.account.Presence = updated
	userID := s.account.User.ID
	s.mu.Unlock()

	s.emit(PresenceUpdate{UserID: userID, Old: old, New: updated})
	return PresenceResult{Old: old, New: updated}, nil
}

// --- dispatcher plumbing -------------------------------------------------

func decodeInto[T any](data json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode event payload: %w", err)
	}
	return v, nil
}

func handleReady(ctx context.Context, s *State, shard ReadyShard, data json.RawMessage) (any, error) {
	p, err := decodeInto[ReadyPayload](data)
	if err != nil {
		return nil, err
	}
	return s.Bootstrap(ctx, shard, p)
}

func handleUserUpdate(_ context.Context, s *State, _ ReadyShard, data json.RawMessage) (any, error) {
	p, err := decodeInto[AccountPatch](data)
	if err != nil {
		return nil, err
	}
	return s.ApplyAccountUpdate(p)
}

func handleNoteUpdate(_ context.Context, s *State, _ ReadyShard, data json.RawMessage) (any, error) {
	p, err := decodeInto[NoteUpdatePayload](data)
	if err != nil {
		return nil, err
	}
	return s.ApplyNoteUpdate(p)
}

func handleSettingsUpdate(_ context.Context, s *State, _ ReadyShard, data json.RawMessage) (any, error) {
	p, err := decodeInto[SettingsPatch](data)
	if err != nil {
		return nil, err
	}
	return s.ApplySettingsUpdate(p)
}

func handleGuildSettingsUpdate(_ context.Context, s *State, _ ReadyShard, data json.RawMessage) (any, error) {
	p, err := decodeInto[domain.GuildSettings](data)
	if err != nil {
		return nil, err
	}
	return s.ApplyGuildSettingsUpdate(p)
}

func handleRelationshipAdd(ctx context.Context, s *State, _ ReadyShard, data json.RawMessage) (any, error) {
	p, err := decodeInto[domain.Relationship](data)
	if err != nil {
		return nil, err
	}
	return s.ApplyRelationshipAdd(ctx, p)
}

func handleRelationshipRemove(_ context.Context, s *State, _ ReadyShard, data json.RawMessage) (any, error) {
	p, err := decodeInto[RelationshipRemovePayload](data)
	if err != nil {
		return nil, err
	}
	return s.ApplyRelationshipRemove(p)
}

func handlePresenceUpdate(_ context.Context, s *State, _ ReadyShard, data json.RawMessage) (any, error) {
	p, err := decodeInto[PresencePayload](data)
	if err != nil {
		return nil, err
	}
	return s.ApplyPresenceUpdate(p)
}
