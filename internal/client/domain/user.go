package domain

// User is the generic identity record shared by every account the client has
// seen. The logged-in account and all cached references (friends, blocked
// users, message authors) carry one of these.
type User struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	Avatar        *string `json:"avatar"` // avatar hash, nil when unset
	Bot           bool    `json:"bot"`
}

// Identity is implemented by any record that carries the shared user fields,
// giving callers one read surface over plain users and the full account.
type Identity interface {
	Base() *User
}

func (u *User) Base() *User { return u }

// Tag returns the classic username#discriminator handle, or just the
// username when the account has no discriminator.
func (u *User) Tag() string {
	if u.Discriminator == "" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}
