package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the local snapshot persistence interface. Concrete drivers
// (sqlite today) implement this. The client writes through it after every
// committed merge so a restart can warm the caches before the first READY
// arrives.
type Store interface {
	Snapshots() Snapshots

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Snapshots interface {
	// SaveAccount upserts the singleton account snapshot.
	SaveAccount(ctx context.Context, snap AccountSnapshot) error

	// LoadAccount returns the stored account snapshot, or ErrNotFound.
	LoadAccount(ctx context.Context) (AccountSnapshot, error)

	// SaveNote upserts one note. A nil body records a cleared note.
	SaveNote(ctx context.Context, userID string, body *string) error

	// ListNotes returns all notes in insertion order.
	ListNotes(ctx context.Context) ([]Note, error)

	// SaveGuildSettings upserts the per-guild overrides for one guild.
	SaveGuildSettings(ctx context.Context, gs domain.GuildSettings) error

	// ListGuildSettings returns all per-guild overrides in insertion order.
	ListGuildSettings(ctx context.Context) ([]domain.GuildSettings, error)
}

// AccountSnapshot is the serialized account together with bookkeeping.
type AccountSnapshot struct {
	ID        string
	Payload   []byte
	UpdatedAt time.Time
}

// Note is one stored note row.
type Note struct {
	UserID string
	Body   *string
}

// accountRecord is the persisted shape of the account. Caches are stored
// separately, so only the scalar profile travels through here.
type accountRecord struct {
	User       domain.User      `json:"user"`
	Verified   *bool            `json:"verified,omitempty"`
	Email      string           `json:"email,omitempty"`
	Premium    *bool            `json:"premium,omitempty"`
	MFAEnabled *bool            `json:"mfa_enabled,omitempty"`
	Mobile     *bool            `json:"mobile,omitempty"`
	Settings   *domain.Settings `json:"settings,omitempty"`
	Presence   domain.Presence  `json:"presence"`
}

// EncodeAccount serializes the scalar profile of an account for storage.
func EncodeAccount(acc *domain.Account, now time.Time) (AccountSnapshot, error) {
	payload, err := json.Marshal(accountRecord{
		User:       acc.User,
		Verified:   acc.Verified,
		Email:      acc.Email,
		Premium:    acc.Premium,
		MFAEnabled: acc.MFAEnabled,
		Mobile:     acc.Mobile,
		Settings:   acc.Settings,
		Presence:   acc.Presence,
	})
	if err != nil {
		return AccountSnapshot{}, err
	}
	return AccountSnapshot{ID: acc.User.ID, Payload: payload, UpdatedAt: now}, nil
}

// DecodeAccount rebuilds an account from a stored snapshot. The relation
// caches come back empty; notes and guild settings are loaded separately.
func DecodeAccount(snap AccountSnapshot) (*domain.Account, error) {
	var rec accountRecord
	if err := json.Unmarshal(snap.Payload, &rec); err != nil {
		return nil, err
	}

	acc := domain.NewAccount()
	acc.User = rec.User
	acc.Verified = rec.Verified
	acc.Email = rec.Email
	acc.Premium = rec.Premium
	acc.MFAEnabled = rec.MFAEnabled
	acc.Mobile = rec.Mobile
	acc.Settings = rec.Settings
	acc.Presence = rec.Presence
	return acc, nil
}
