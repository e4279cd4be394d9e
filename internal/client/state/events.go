package state

import "github.com/aussiebroadwan/bartab-sdk/internal/client/domain"

// Event is a change notification emitted to observers. Every delta event
// carries the subject plus the old and new values, committed state first:
// an observer reading the caches always sees the new value already applied.
type Event interface {
	EventName() string
}

// Observer receives change notifications synchronously on the dispatch
// goroutine. Observers must not block.
type Observer func(Event)

// Ready fires once per shard handshake after all bootstrap state committed.
type Ready struct {
	ShardID int
	Account *domain.Account
}

func (Ready) EventName() string { return "ready" }

// NoteUpdate reports a note change. Nil means no note.
type NoteUpdate struct {
	UserID string
	Old    *string
	New    *string
}

func (NoteUpdate) EventName() string { return "note_update" }

// AccountUpdate reports a change to the logged-in account's profile fields.
// Old and New are shallow snapshots; the cache mappings are shared.
type AccountUpdate struct {
	Old domain.Account
	New domain.Account
}

func (AccountUpdate) EventName() string { return "account_update" }

// SettingsUpdate reports a change to the account's global settings. Old is
// nil when no settings existed before.
type SettingsUpdate struct {
	Old *domain.Settings
	New domain.Settings
}

func (SettingsUpdate) EventName() string { return "settings_update" }

// GuildSettingsUpdate reports a per-guild settings replacement. Old is nil
// for a guild that had no record.
type GuildSettingsUpdate struct {
	GuildID string
	Old     *domain.GuildSettings
	New     domain.GuildSettings
}

func (GuildSettingsUpdate) EventName() string { return "guild_settings_update" }

// RelationshipUpdate reports a relationship transition for one user.
// Old or New is RelationNone at the edges (add, remove).
type RelationshipUpdate struct {
	UserID string
	User   *domain.User
	Old    domain.RelationType
	New    domain.RelationType
}

func (RelationshipUpdate) EventName() string { return "relationship_update" }

// PresenceUpdate reports a change to the account's own presence.
type PresenceUpdate struct {
	UserID string
	Old    domain.Presence
	New    domain.Presence
}

func (PresenceUpdate) EventName() string { return "presence_update" }
