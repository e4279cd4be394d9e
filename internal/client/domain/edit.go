package domain

import "github.com/aussiebroadwan/bartab-sdk/pkg/optionx"

// AccountEdit lists the profile fields the platform lets the account change.
// Only Present fields go on the wire, so an edit touches exactly what the
// caller asked for.
type AccountEdit struct {
	Username    optionx.Option[string]
	Email       optionx.Option[string]
	NewPassword optionx.Option[string]

	// Avatar is the image data URI; explicit nil removes the avatar.
	Avatar optionx.Option[*string]

	// Password and Code re-authenticate sensitive changes (current
	// password, and the MFA code when the account has MFA enabled).
	Password optionx.Option[string]
	Code     optionx.Option[string]
}

// Empty reports whether the edit would send nothing.
func (e AccountEdit) Empty() bool {
	return !e.Username.Present() &&
		!e.Email.Present() &&
		!e.NewPassword.Present() &&
		!e.Avatar.Present() &&
		!e.Password.Present() &&
		!e.Code.Present()
}
