package domain

// Presence status values understood by the platform.
const (
	StatusOnline    = "online"
	StatusIdle      = "idle"
	StatusDND       = "dnd"
	StatusInvisible = "invisible"
	StatusOffline   = "offline"
)

// Presence is the logged-in account's visible status.
type Presence struct {
	Status   string    `json:"status"`
	AFK      bool      `json:"afk"`
	Since    *int64    `json:"since"` // unix ms the client went idle, nil if active
	Activity *Activity `json:"activity"`
}

// Activity is what the account is shown as doing.
type Activity struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}
