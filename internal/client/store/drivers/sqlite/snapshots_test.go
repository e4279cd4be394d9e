package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
	"github.com/aussiebroadwan/bartab-sdk/internal/client/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAccountSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Snapshots().LoadAccount(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	verified := true
	acc := domain.NewAccount()
	acc.User = domain.User{ID: "u1", Username: "casey", Discriminator: "0001"}
	acc.Verified = &verified
	acc.Email = "casey@example.com"
	acc.Presence = domain.Presence{Status: domain.StatusIdle}

	snap, err := store.EncodeAccount(acc, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.Snapshots().SaveAccount(ctx, snap))

	// Upsert keeps a single row.
	acc.User.Username = "casey2"
	snap2, err := store.EncodeAccount(acc, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.Snapshots().SaveAccount(ctx, snap2))

	loaded, err := s.Snapshots().LoadAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, "u1", loaded.ID)

	restored, err := store.DecodeAccount(loaded)
	require.NoError(t, err)
	require.Equal(t, "casey2", restored.User.Username)
	require.NotNil(t, restored.Verified)
	require.True(t, *restored.Verified)
	require.Equal(t, domain.StatusIdle, restored.Presence.Status)
	require.Equal(t, 0, restored.Friends.Len())
}

func TestNotesKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	body := func(v string) *string { return &v }
	require.NoError(t, s.Snapshots().SaveNote(ctx, "u3", body("third friend")))
	require.NoError(t, s.Snapshots().SaveNote(ctx, "u1", body("first friend")))
	require.NoError(t, s.Snapshots().SaveNote(ctx, "u2", nil)) // cleared

	// Overwriting keeps the original position.
	require.NoError(t, s.Snapshots().SaveNote(ctx, "u3", body("updated")))

	notes, err := s.Snapshots().ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)

	require.Equal(t, "u3", notes[0].UserID)
	require.Equal(t, "updated", *notes[0].Body)
	require.Equal(t, "u1", notes[1].UserID)
	require.Equal(t, "u2", notes[2].UserID)
	require.Nil(t, notes[2].Body)
}

func TestGuildSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Snapshots().SaveGuildSettings(ctx, domain.GuildSettings{
		GuildID: "g1", Muted: true, MessageNotifications: 2, MobilePush: true,
	}))
	require.NoError(t, s.Snapshots().SaveGuildSettings(ctx, domain.GuildSettings{
		GuildID: "g2", SuppressEveryone: true,
	}))

	// Replace g1 wholesale.
	require.NoError(t, s.Snapshots().SaveGuildSettings(ctx, domain.GuildSettings{
		GuildID: "g1", MessageNotifications: 1,
	}))

	all, err := s.Snapshots().ListGuildSettings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.Equal(t, "g1", all[0].GuildID)
	require.False(t, all[0].Muted)
	require.Equal(t, 1, all[0].MessageNotifications)
	require.Equal(t, "g2", all[1].GuildID)
	require.True(t, all[1].SuppressEveryone)
}
