package domain

// OwnerKind discriminates who owns an OAuth application.
type OwnerKind int

const (
	OwnerNone OwnerKind = iota
	OwnerUser
	OwnerTeam
)

// AppOwner is the resolved owner of an application. The wire format carries
// mutually exclusive `team` and `owner` keys; the patch merger resolves them
// into this variant with team taking precedence.
type AppOwner struct {
	Kind OwnerKind
	User *User // set when Kind == OwnerUser
	Team *Team // set when Kind == OwnerTeam
}

// SoleOwner returns an AppOwner for a single owning user.
func SoleOwner(u *User) AppOwner {
	return AppOwner{Kind: OwnerUser, User: u}
}

// TeamOwner returns an AppOwner for a team.
func TeamOwner(t *Team) AppOwner {
	return AppOwner{Kind: OwnerTeam, Team: t}
}

// Team is a group of users who jointly own applications.
type Team struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Icon        *string      `json:"icon"`
	OwnerUserID string       `json:"owner_user_id"`
	Members     []TeamMember `json:"members"`
}

type TeamMember struct {
	User            User `json:"user"`
	MembershipState int  `json:"membership_state"`
}

// Application is an OAuth application record.
type Application struct {
	ID          string
	Name        string
	Description string
	Icon        *string
	BotPublic   *bool
	Owner       AppOwner
}
