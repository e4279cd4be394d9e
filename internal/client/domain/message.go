package domain

import "time"

// Message is the subset of a message record the mentions endpoint returns.
type Message struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	GuildID   string    `json:"guild_id,omitempty"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MentionsQuery filters the recent-mentions listing.
type MentionsQuery struct {
	Limit    int    // maximum number of messages, 0 means server default
	Roles    bool   // include role mentions
	Everyone bool   // include @everyone mentions
	GuildID  string // restrict to one guild, empty for all
}
