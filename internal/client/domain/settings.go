package domain

// Settings is the logged-in account's global preference record.
type Settings struct {
	Theme                 string `json:"theme"`
	Locale                string `json:"locale"`
	Status                string `json:"status"`
	MessageDisplayCompact *bool  `json:"message_display_compact"`
	DeveloperMode         *bool  `json:"developer_mode"`
}
