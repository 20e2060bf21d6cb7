package model

// GuestQuota describes how many todos an unauthenticated caller may still
// create. The server is the only authority for these numbers.
type GuestQuota struct {
	Count     int `json:"count"`
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
}

// AtLimit reports whether the guest cannot create more todos.
func (q GuestQuota) AtLimit() bool {
	return q.Remaining <= 0
}
