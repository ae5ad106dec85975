package domain

import "time"

// MaxDisplayNameLength caps the free-form display name.
const MaxDisplayNameLength = 50

// Profile is a user's public identity: the handle others search for and
// the display name shown next to it. Stored separately from User to keep
// auth concerns apart from social features.
type Profile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to now.
func (p *Profile) Touch() {
	p.UpdatedAt = time.Now()
}
