package entity

// UserIdentity is the directory view of a marketplace user.
type UserIdentity struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profileImage"`
	Role         string `json:"role"`
	IsActive     bool   `json:"isActive"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *UserIdentity) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

// CounterpartSummary is one row of the per-counterpart aggregation over a
// user's messages.
type CounterpartSummary struct {
	PartnerID   uint64
	UnreadCount int64
}

// Conversation is derived on read; it is never stored.
type Conversation struct {
	Partner     UserIdentity
	LastMessage *Message
	UnreadCount int64
}
