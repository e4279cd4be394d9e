package state

import (
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
	"github.com/aussiebroadwan/bartab-sdk/pkg/optionx"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func seededAccount() *domain.Account {
	acc := domain.NewAccount()
	acc.User = domain.User{
		ID:            "me",
		Username:      "alice",
		Discriminator: "0001",
		Avatar:        strptr("hash-a"),
	}
	acc.Email = "alice@example.com"
	v := true
	acc.Verified = &v
	return acc
}

func TestApplyAccountFieldIndependence(t *testing.T) {
	t.Parallel()

	acc := seededAccount()

	ApplyAccount(acc, AccountPatch{
		UserPatch: UserPatch{Username: optionx.Some("bob")},
	})

	// Only the named field moved.
	require.Equal(t, "bob", acc.User.Username)
	require.Equal(t, "me", acc.User.ID)
	require.Equal(t, "0001", acc.User.Discriminator)
	require.Equal(t, "alice@example.com", acc.Email)
	require.NotNil(t, acc.Verified)
	require.True(t, *acc.Verified)
	require.Equal(t, strptr("hash-a"), acc.User.Avatar)
}

func TestApplyAccountTriStateBooleans(t *testing.T) {
	t.Parallel()

	acc := domain.NewAccount()

	// Never sent: unknown, not false.
	ApplyAccount(acc, AccountPatch{})
	require.Nil(t, acc.Premium)
	require.Nil(t, acc.MFAEnabled)

	// Explicit false is a value.
	ApplyAccount(acc, AccountPatch{Premium: optionx.Some(false)})
	require.NotNil(t, acc.Premium)
	require.False(t, *acc.Premium)

	// A later payload omitting the key leaves the known value alone.
	ApplyAccount(acc, AccountPatch{Verified: optionx.Some(true)})
	require.NotNil(t, acc.Premium)
	require.False(t, *acc.Premium)
	require.True(t, *acc.Verified)
}

func TestApplyAccountExplicitNullClearsAvatar(t *testing.T) {
	t.Parallel()

	acc := seededAccount()

	var p AccountPatch
	require.NoError(t, json.Unmarshal([]byte(`{"avatar":null}`), &p))
	ApplyAccount(acc, p)

	require.Nil(t, acc.User.Avatar)
	require.Equal(t, "alice", acc.User.Username) // untouched
}

func TestApplyAccountRebuildsGuildSettingsWholesale(t *testing.T) {
	t.Parallel()

	acc := domain.NewAccount()
	acc.GuildSettings.Set("g1", domain.GuildSettings{GuildID: "g1", Muted: true})
	acc.GuildSettings.Set("g2", domain.GuildSettings{GuildID: "g2"})

	ApplyAccount(acc, AccountPatch{
		GuildSettings: optionx.Some([]domain.GuildSettings{
			{GuildID: "g3", MobilePush: true},
		}),
	})

	// Whole collection replaced, never merged element by element.
	require.Equal(t, 1, acc.GuildSettings.Len())
	gs, ok := acc.GuildSettings.Get("g3")
	require.True(t, ok)
	require.True(t, gs.MobilePush)
	require.False(t, acc.GuildSettings.Has("g1"))

	// Absent collection leaves everything in place.
	ApplyAccount(acc, AccountPatch{})
	require.Equal(t, 1, acc.GuildSettings.Len())
}

func TestApplyAccountTokenIsSideChannel(t *testing.T) {
	t.Parallel()

	acc := seededAccount()
	effects := ApplyAccount(acc, AccountPatch{Token: optionx.Some("rotated-token")})

	tok, ok := effects.Token.Get()
	require.True(t, ok)
	require.Equal(t, "rotated-token", tok)

	// The token never lands on the entity, and a token-only payload is not
	// a profile change.
	require.False(t, AccountPatch{Token: optionx.Some("x")}.hasProfileChange())
}

func TestApplyAccountSettingsMerge(t *testing.T) {
	t.Parallel()

	acc := domain.NewAccount()

	ApplyAccount(acc, AccountPatch{Settings: optionx.Some(SettingsPatch{
		Theme:  optionx.Some("dark"),
		Locale: optionx.Some("en-AU"),
	})})
	require.NotNil(t, acc.Settings)
	require.Equal(t, "dark", acc.Settings.Theme)

	// Partial settings payload only touches named fields.
	ApplyAccount(acc, AccountPatch{Settings: optionx.Some(SettingsPatch{
		Theme: optionx.Some("light"),
	})})
	require.Equal(t, "light", acc.Settings.Theme)
	require.Equal(t, "en-AU", acc.Settings.Locale)
}

func TestApplyApplicationOwnerResolution(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: "u1", Username: "owner"}
	team := &domain.Team{ID: "t1", Name: "core"}

	t.Run("team takes precedence over owner", func(t *testing.T) {
		var app domain.Application
		ApplyApplication(&app, ApplicationPatch{
			Owner: optionx.Some(user),
			Team:  optionx.Some(team),
		})
		require.Equal(t, domain.OwnerTeam, app.Owner.Kind)
		require.Equal(t, "t1", app.Owner.Team.ID)
		require.Nil(t, app.Owner.User)
	})

	t.Run("owner alone resolves to sole owner", func(t *testing.T) {
		var app domain.Application
		ApplyApplication(&app, ApplicationPatch{Owner: optionx.Some(user)})
		require.Equal(t, domain.OwnerUser, app.Owner.Kind)
		require.Equal(t, "u1", app.Owner.User.ID)
	})

	t.Run("explicit nulls resolve to no owner", func(t *testing.T) {
		app := domain.Application{Owner: domain.SoleOwner(user)}
		var p ApplicationPatch
		require.NoError(t, json.Unmarshal([]byte(`{"owner":null,"team":null}`), &p))
		ApplyApplication(&app, p)
		require.Equal(t, domain.OwnerNone, app.Owner.Kind)
	})

	t.Run("silent payload leaves ownership unchanged", func(t *testing.T) {
		app := domain.Application{Owner: domain.TeamOwner(team)}
		ApplyApplication(&app, ApplicationPatch{Name: optionx.Some("renamed")})
		require.Equal(t, domain.OwnerTeam, app.Owner.Kind)
		require.Equal(t, "renamed", app.Name)
	})
}
