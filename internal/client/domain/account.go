package domain

import "github.com/aussiebroadwan/bartab-sdk/pkg/omap"

// Account is the authoritative record for the logged-in identity. Exactly one
// instance exists per client; it is created on the first handshake and only
// ever mutated in place afterwards so references held by application code
// stay valid.
//
// The generic identity lives in the embedded-by-value User record; the
// remaining fields exist only for the logged-in account. The *bool fields are
// tri-state: nil means the platform has not told us yet.
type Account struct {
	User User

	Verified   *bool
	Premium    *bool
	MFAEnabled *bool
	Mobile     *bool
	Email      string

	Settings *Settings
	Presence Presence

	// GuildSettings entries are replaced wholesale per guild; the platform
	// always sends complete records.
	GuildSettings *omap.Map[string, GuildSettings]

	// Friends and Blocked hold references into the client's shared user
	// cache, never private copies.
	Friends *omap.Map[string, *User]
	Blocked *omap.Map[string, *User]

	// Notes maps user id to note text. A nil value is the explicit
	// "cleared" state; the empty string never appears here.
	Notes *omap.Map[string, *string]
}

// NewAccount returns an Account with all cache mappings allocated.
func NewAccount() *Account {
	return &Account{
		GuildSettings: omap.New[string, GuildSettings](),
		Friends:       omap.New[string, *User](),
		Blocked:       omap.New[string, *User](),
		Notes:         omap.New[string, *string](),
	}
}

func (a *Account) Base() *User { return &a.User }

// Note returns the note for userID. The bool reports whether any entry
// exists; a nil string with ok=true is an explicitly cleared note.
func (a *Account) Note(userID string) (*string, bool) {
	return a.Notes.Get(userID)
}
