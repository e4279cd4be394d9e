package domain

// Guild is the client's record of a guild it is a member of. Only the fields
// the state core needs are modelled here; channel and member state belong to
// other parts of the SDK.
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Unavailable bool   `json:"unavailable"`

	// ShardID is the connection the guild arrived on, tagged at
	// registration time. Guild-scoped requests must go back out on the
	// same shard.
	ShardID int `json:"-"`
}

// GuildSettings is the logged-in account's per-guild notification record.
// The platform always sends complete records, so entries are replaced
// wholesale rather than merged.
type GuildSettings struct {
	GuildID              string `json:"guild_id"`
	Muted                bool   `json:"muted"`
	MessageNotifications int    `json:"message_notifications"`
	SuppressEveryone     bool   `json:"suppress_everyone"`
	MobilePush           bool   `json:"mobile_push"`
}
