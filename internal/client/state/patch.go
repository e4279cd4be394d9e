package state

import (
	"github.com/aussiebroadwan/bartab-sdk/internal/client/domain"
	"github.com/aussiebroadwan/bartab-sdk/pkg/optionx"
)

// The patch types model the platform's partial-update payloads. Every field
// is an explicit option: absent keys leave the entity untouched, present
// keys overwrite, and a present null clears. The merger trusts its input;
// validation is the transport's problem.

// UserPatch covers the generic identity fields.
type UserPatch struct {
	ID            optionx.Option[string]  `json:"id"`
	Username      optionx.Option[string]  `json:"username"`
	Discriminator optionx.Option[string]  `json:"discriminator"`
	Avatar        optionx.Option[*string] `json:"avatar"`
	Bot           optionx.Option[bool]    `json:"bot"`
}

// SettingsPatch covers the account-settings record field by field.
type SettingsPatch struct {
	Theme                 optionx.Option[string] `json:"theme"`
	Locale                optionx.Option[string] `json:"locale"`
	Status                optionx.Option[string] `json:"status"`
	MessageDisplayCompact optionx.Option[bool]   `json:"message_display_compact"`
	DeveloperMode         optionx.Option[bool]   `json:"developer_mode"`
}

// AccountPatch covers everything the platform may send for the logged-in
// account, including the handshake's attached settings collections.
type AccountPatch struct {
	UserPatch

	Verified   optionx.Option[bool]   `json:"verified"`
	Email      optionx.Option[string] `json:"email"`
	Premium    optionx.Option[bool]   `json:"premium"`
	MFAEnabled optionx.Option[bool]   `json:"mfa_enabled"`
	Mobile     optionx.Option[bool]   `json:"mobile"`

	// Token is a side channel: a freshly rotated session credential may
	// ride along in an otherwise unrelated payload. It belongs to the
	// Session, never to the entity, and is surfaced via SideEffects.
	Token optionx.Option[string] `json:"token"`

	Settings      optionx.Option[SettingsPatch]          `json:"user_settings"`
	GuildSettings optionx.Option[[]domain.GuildSettings] `json:"user_guild_settings"`
}

// SideEffects reports payload values that belong to the client session
// rather than the patched entity. Returning them keeps the side channel
// visible in the merge contract instead of mutating global state mid-merge.
type SideEffects struct {
	Token optionx.Option[string]
}

// hasProfileChange reports whether the patch touches the entity itself, as
// opposed to carrying only side-channel data.
func (p AccountPatch) hasProfileChange() bool {
	return p.ID.Present() ||
		p.Username.Present() ||
		p.Discriminator.Present() ||
		p.Avatar.Present() ||
		p.Bot.Present() ||
		p.Verified.Present() ||
		p.Email.Present() ||
		p.Premium.Present() ||
		p.MFAEnabled.Present() ||
		p.Mobile.Present() ||
		p.Settings.Present() ||
		p.GuildSettings.Present()
}

// applyUser overwrites exactly the present fields of u.
func applyUser(u *domain.User, p UserPatch) {
	if v, ok := p.ID.Get(); ok {
		u.ID = v
	}
	if v, ok := p.Username.Get(); ok {
		u.Username = v
	}
	if v, ok := p.Discriminator.Get(); ok {
		u.Discriminator = v
	}
	if v, ok := p.Avatar.Get(); ok {
		u.Avatar = v
	}
	if v, ok := p.Bot.Get(); ok {
		u.Bot = v
	}
}

// applySettings merges p into s field by field.
func applySettings(s *domain.Settings, p SettingsPatch) {
	if v, ok := p.Theme.Get(); ok {
		s.Theme = v
	}
	if v, ok := p.Locale.Get(); ok {
		s.Locale = v
	}
	if v, ok := p.Status.Get(); ok {
		s.Status = v
	}
	if v, ok := p.MessageDisplayCompact.Get(); ok {
		s.MessageDisplayCompact = &v
	}
	if v, ok := p.DeveloperMode.Get(); ok {
		s.DeveloperMode = &v
	}
}

// ApplyAccount merges p into a and returns the side effects the caller must
// forward. Absent boolean fields leave the tri-state pointers untouched, so
// a field the platform has never sent stays nil (unknown) rather than false.
// The per-guild settings collection is rebuilt wholesale whenever present;
// the platform always sends the complete list.
func ApplyAccount(a *domain.Account, p AccountPatch) SideEffects {
	applyUser(&a.User, p.UserPatch)

	if v, ok := p.Verified.Get(); ok {
		a.Verified = &v
	}
	if v, ok := p.Email.Get(); ok {
		a.Email = v
	}
	if v, ok := p.Premium.Get(); ok {
		a.Premium = &v
	}
	if v, ok := p.MFAEnabled.Get(); ok {
		a.MFAEnabled = &v
	}
	if v, ok := p.Mobile.Get(); ok {
		a.Mobile = &v
	}

	if sp, ok := p.Settings.Get(); ok {
		if a.Settings == nil {
			a.Settings = &domain.Settings{}
		}
		applySettings(a.Settings, sp)
	}

	if list, ok := p.GuildSettings.Get(); ok {
		a.GuildSettings.Clear()
		for _, gs := range list {
			a.GuildSettings.Set(gs.GuildID, gs)
		}
	}

	return SideEffects{Token: p.Token}
}

// ApplicationPatch covers OAuth application payloads. The wire `team` and
// `owner` keys are mutually exclusive views of ownership.
type ApplicationPatch struct {
	ID          optionx.Option[string]       `json:"id"`
	Name        optionx.Option[string]       `json:"name"`
	Description optionx.Option[string]       `json:"description"`
	Icon        optionx.Option[*string]      `json:"icon"`
	BotPublic   optionx.Option[bool]         `json:"bot_public"`
	Owner       optionx.Option[*domain.User] `json:"owner"`
	Team        optionx.Option[*domain.Team] `json:"team"`
}

// ApplyApplication merges p into app. Ownership is recomputed only when the
// payload speaks to it, with a present team taking precedence over a present
// owner; both null resolves to no owner.
func ApplyApplication(app *domain.Application, p ApplicationPatch) {
	if v, ok := p.ID.Get(); ok {
		app.ID = v
	}
	if v, ok := p.Name.Get(); ok {
		app.Name = v
	}
	if v, ok := p.Description.Get(); ok {
		app.Description = v
	}
	if v, ok := p.Icon.Get(); ok {
		app.Icon = v
	}
	if v, ok := p.BotPublic.Get(); ok {
		app.BotPublic = &v
	}

	if p.Team.Present() || p.Owner.Present() {
		switch {
		case p.Team.OrZero() != nil:
			app.Owner = domain.TeamOwner(p.Team.OrZero())
		case p.Owner.OrZero() != nil:
			app.Owner = domain.SoleOwner(p.Owner.OrZero())
		default:
			app.Owner = domain.AppOwner{Kind: domain.OwnerNone}
		}
	}
}
