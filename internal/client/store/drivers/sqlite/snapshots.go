package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
	"github.com/aussiebroadwan/bartab-sdk/internal/client/store"
)

type snapshotsRepo struct {
	db *sql.DB
}

// SaveAccount upserts the singleton account snapshot. There is exactly one
// logged-in account per database file, keyed by its platform id.
func (r *snapshotsRepo) SaveAccount(ctx context.Context, snap store.AccountSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO account_snapshot (id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, snap.ID, snap.Payload, snap.UpdatedAt)
	return err
}

func (r *snapshotsRepo) LoadAccount(ctx context.Context) (store.AccountSnapshot, error) {
	var snap store.AccountSnapshot
	err := r.db.QueryRowContext(ctx, `
		SELECT id, payload, updated_at
		FROM account_snapshot
		ORDER BY updated_at DESC
		LIMIT 1
	`).Scan(&snap.ID, &snap.Payload, &snap.UpdatedAt)
	if err != nil {
		return store.AccountSnapshot{}, mapNotFound(err)
	}
	return snap, nil
}

// SaveNote upserts one note. The seq column records first insertion so
// ListNotes can restore the cache in its original order.
func (r *snapshotsRepo) SaveNote(ctx context.Context, userID string, body *string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (user_id, body)
		VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			body = excluded.body
	`, userID, mapOptionalString(body))
	return err
}

func (r *snapshotsRepo) ListNotes(ctx context.Context) ([]store.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, body
		FROM notes
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []store.Note
	for rows.Next() {
		var (
			n    store.Note
			body sql.NullString
		)
		if err := rows.Scan(&n.UserID, &body); err != nil {
			return nil, err
		}
		n.Body = mapNullStringPtr(body)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *snapshotsRepo) SaveGuildSettings(ctx context.Context, gs domain.GuildSettings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO guild_settings (guild_id, muted, message_notifications, suppress_everyone, mobile_push)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (guild_id) DO UPDATE SET
			muted = excluded.muted,
			message_notifications = excluded.message_notifications,
			suppress_everyone = excluded.suppress_everyone,
			mobile_push = excluded.mobile_push
	`, gs.GuildID, gs.Muted, gs.MessageNotifications, gs.SuppressEveryone, gs.MobilePush)
	return err
}

func (r *snapshotsRepo) ListGuildSettings(ctx context.Context) ([]domain.GuildSettings, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT guild_id, muted, message_notifications, suppress_everyone, mobile_push
		FROM guild_settings
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GuildSettings
	for rows.Next() {
		var gs domain.GuildSettings
		if err := rows.Scan(&gs.GuildID, &gs.Muted, &gs.MessageNotifications, &gs.SuppressEveryone, &gs.MobilePush); err != nil {
			return nil, err
		}
		out = append(out, gs)
	}
	return out, rows.Err()
}
