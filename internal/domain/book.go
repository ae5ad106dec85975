// Package domain contains the core business entities for the NextChapter reading tracker.
package domain

import "time"

// BookStatus identifies which of the three reading lists a book lives on.
type BookStatus string

const (
	// StatusWantToRead is the backlog list.
	StatusWantToRead BookStatus = "want_to_read"
	// StatusCurrentlyReading is the in-progress list.
	StatusCurrentlyReading BookStatus = "currently_reading"
	// StatusHaveRead is the finished list.
	StatusHaveRead BookStatus = "have_read"
)

// Valid returns true if the status is one of the three known lists.
func (s BookStatus) Valid() bool {
	switch s {
	case StatusWantToRead, StatusCurrentlyReading, StatusHaveRead:
		return true
	default:
		return false
	}
}

// ConsumptionType records how the user consumes a book.
type ConsumptionType string

const (
	// ConsumptionRead is a text book, physical or digital.
	ConsumptionRead ConsumptionType = "read"
	// ConsumptionListen is an audiobook.
	ConsumptionListen ConsumptionType = "listen"
)

// Valid returns true if the consumption type is recognized. Empty is fine
// since consumption metadata is optional.
func (c ConsumptionType) Valid() bool {
	return c == "" || c == ConsumptionRead || c == ConsumptionListen
}

// Priority slot bounds. A want-to-read book may hold one of three
// exclusive "up next" slots.
const (
	PriorityMin = 1
	PriorityMax = 3
)

// ValidPriority returns true for a usable priority slot number.
func ValidPriority(p int) bool {
	return p >= PriorityMin && p <= PriorityMax
}

// Book is a single entry on one of a user's reading lists.
//
// Position orders books within their (user, status) bucket. Values only
// need to define an order; gaps are fine. Priority is meaningful only
// while Status is want_to_read and is cleared on the way out.
type Book struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	Notes           string          `json:"notes,omitempty"`
	Status          BookStatus      `json:"status"`
	ConsumptionType ConsumptionType `json:"consumption_type,omitempty"`
	ListenPlatform  string          `json:"listen_platform,omitempty"`
	ReadFormat      string          `json:"read_format,omitempty"`
	RecommendedBy   string          `json:"recommended_by,omitempty"`
	Priority        *int            `json:"priority,omitempty"`
	Position        int             `json:"position"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	IsPublic        bool            `json:"is_public"`
}

// Touch updates the UpdatedAt timestamp to now.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}

// MarkCompleted records the completion time if one isn't already set.
// Called on the transition into have_read.
func (b *Book) MarkCompleted() {
	if b.CompletedAt == nil {
		now := time.Now()
		b.CompletedAt = &now
	}
}

// ClearPriority drops the book's priority slot assignment.
func (b *Book) ClearPriority() {
	b.Priority = nil
}
