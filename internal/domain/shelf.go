package domain

import "time"

// ShelfCapacity is the number of display positions on a public shelf.
const ShelfCapacity = 5

// ValidShelfPosition returns true for a usable shelf position (1-based).
func ValidShelfPosition(p int) bool {
	return p >= 1 && p <= ShelfCapacity
}

// PublicShelfItem pins one of a user's books to a numbered position on
// their public shelf. Positions are exclusive: at most one item per
// (user, position) and at most one position per (user, book).
type PublicShelfItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// ShelfEntry is a shelf item joined with the book it points at, the shape
// shelf reads return.
type ShelfEntry struct {
	Position int   `json:"position"`
	Book     *Book `json:"book"`
}
