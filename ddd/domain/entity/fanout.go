package entity

// Audience selects the recipients of a fan-out: one user, or every active user.
type Audience struct {
	All    bool
	UserID uint64
}

// FanoutResult reports how many recipients were targeted and how many
// notification rows were actually written.
type FanoutResult struct {
	Recipients int64
	Created    int64
}

// Complete reports whether every targeted recipient got a notification.
func (r FanoutResult) Complete() bool {
	return r.Created == r.Recipients
}
