package domain

// RelationType is the wire code classifying a relationship record.
// Codes other than the two known ones are reserved by the platform and
// ignored by the client, which keeps old SDKs forward compatible.
type RelationType int

const (
	RelationNone    RelationType = 0
	RelationFriend  RelationType = 1
	RelationBlocked RelationType = 2
)

// Known reports whether the client understands this relation code.
func (t RelationType) Known() bool {
	return t == RelationFriend || t == RelationBlocked
}

func (t RelationType) String() string {
	switch t {
	case RelationNone:
		return "none"
	case RelationFriend:
		return "friend"
	case RelationBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Relationship is a handshake or delta record linking the logged-in account
// to another user.
type Relationship struct {
	ID   string       `json:"id"`
	Type RelationType `json:"type"`
	User User         `json:"user"`
}
