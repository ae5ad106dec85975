package domain

import "time"

// InviteStatus tracks the lifecycle of a circle invite.
type InviteStatus string

const (
	// InvitePending is awaiting a response from the recipient.
	InvitePending InviteStatus = "pending"
	// InviteAccepted created a connection between the two users.
	InviteAccepted InviteStatus = "accepted"
	// InviteDeclined was rejected by the recipient.
	InviteDeclined InviteStatus = "declined"
)

// Valid returns true if the status is a recognized value.
func (s InviteStatus) Valid() bool {
	switch s {
	case InvitePending, InviteAccepted, InviteDeclined:
		return true
	default:
		return false
	}
}

// Terminal returns true once the invite can no longer change state.
func (s InviteStatus) Terminal() bool {
	return s == InviteAccepted || s == InviteDeclined
}

// CircleInvite is a directed request to join each other's reading circle.
type CircleInvite struct {
	ID         string       `json:"id"`
	FromUserID string       `json:"from_user_id"`
	ToUserID   string       `json:"to_user_id"`
	Status     InviteStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Connection is an undirected edge between two circle members. The pair
// is stored in canonical order so each edge exists exactly once.
type Connection struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"user_a_id"`
	UserBID   string    `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderPair returns the two user IDs in canonical (lexicographic) order.
func OrderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Involves reports whether the connection includes the given user.
func (c *Connection) Involves(userID string) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Other returns the peer on the far side of the connection from userID.
// Returns empty if userID is not part of the connection.
func (c *Connection) Other(userID string) string {
	switch userID {
	case c.UserAID:
		return c.UserBID
	case c.UserBID:
		return c.UserAID
	default:
		return ""
	}
}

// CircleMember is a connection joined with the peer's profile, the shape
// circle listings return.
type CircleMember struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	ConnectedAt time.Time `json:"connected_at"`
}
