package domain

// UserProfile is the identity the tracker works for. It is supplied by the
// surrounding application, never looked up by the core.
type UserProfile struct {
	ID          string
	DisplayName string
	Timezone    string
}

// Name returns the display name, falling back to the id.
func (p UserProfile) Name() string {
	return CoalesceStr(p.DisplayName, p.ID, "Unknown User")
}
