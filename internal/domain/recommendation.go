package domain

import "time"

// RecommendationStatus tracks what the recipient did with a recommendation.
type RecommendationStatus string

const (
	// RecommendationPending is awaiting a response.
	RecommendationPending RecommendationStatus = "pending"
	// RecommendationAdded means the recipient imported the book to their list.
	RecommendationAdded RecommendationStatus = "added"
	// RecommendationDismissed means the recipient passed on it.
	RecommendationDismissed RecommendationStatus = "dismissed"
)

// Valid returns true if the status is a recognized value.
func (s RecommendationStatus) Valid() bool {
	switch s {
	case RecommendationPending, RecommendationAdded, RecommendationDismissed:
		return true
	default:
		return false
	}
}

// Recommendation is a book suggestion sent from one circle member to
// another. It carries the title and author as plain text rather than a
// book reference so senders can suggest books they don't track themselves.
type Recommendation struct {
	ID         string               `json:"id"`
	FromUserID string               `json:"from_user_id"`
	ToUserID   string               `json:"to_user_id"`
	BookTitle  string               `json:"book_title"`
	BookAuthor string               `json:"book_author"`
	Note       string               `json:"note,omitempty"`
	Status     RecommendationStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// RequestStatus tracks the lifecycle of a recommendation request.
type RequestStatus string

const (
	// RequestOpen is accepting suggestions.
	RequestOpen RequestStatus = "open"
	// RequestFulfilled is reserved for a future auto-close flow.
	RequestFulfilled RequestStatus = "fulfilled"
	// RequestClosed was closed by its sender.
	RequestClosed RequestStatus = "closed"
)

// Valid returns true if the status is a recognized value.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestOpen, RequestFulfilled, RequestClosed:
		return true
	default:
		return false
	}
}

// RecommendationRequest asks for book suggestions. ToUserID nil means the
// request is broadcast to the sender's whole circle; otherwise it targets
// a single member.
type RecommendationRequest struct {
	ID         string        `json:"id"`
	FromUserID string        `json:"from_user_id"`
	ToUserID   *string       `json:"to_user_id,omitempty"`
	Note       string        `json:"note,omitempty"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Broadcast reports whether the request goes to the whole circle.
func (r *RecommendationRequest) Broadcast() bool {
	return r.ToUserID == nil
}

// IncomingRecommendation is a recommendation joined with the sender's
// profile for inbox listings.
type IncomingRecommendation struct {
	Recommendation
	From *Profile `json:"from"`
}

// IncomingRequest is a recommendation request joined with the sender's
// profile for inbox listings.
type IncomingRequest struct {
	RecommendationRequest
	From *Profile `json:"from"`
}
