package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nextchapterapp/nextchapter-server/internal/domain"
)

func (s *Server) registerShelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getMyShelf",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelf",
		Summary:     "Get my shelf",
		Description: "Returns the caller's public shelf, ordered by position",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "placeOnShelf",
		Method:      http.MethodPut,
		Path:        "/api/v1/shelf",
		Summary:     "Place book on shelf",
		Description: "Pins a want-to-read book to a shelf position, evicting any occupant",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePlaceOnShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromShelf",
		Method:      http.MethodDelete,
		Path:        "/api/v1/shelf/{bookId}",
		Summary:     "Remove book from shelf",
		Description: "Takes a book off the caller's public shelf",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShelfByUsername",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves/{username}",
		Summary:     "Get a user's shelf",
		Description: "Returns another user's public shelf looked up by username",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetShelfByUsername)
}

// === DTOs ===

// ShelfSlotResponse is one occupied shelf position.
type ShelfSlotResponse struct {
	Position int          `json:"position" doc:"Shelf position, 1-based"`
	Book     BookResponse `json:"book" doc:"Book pinned at this position"`
}

// ShelfResponse contains a public shelf in API responses.
type ShelfResponse struct {
	Entries  []ShelfSlotResponse `json:"entries" doc:"Occupied slots, ordered by position"`
	Capacity int                 `json:"capacity" doc:"Total number of positions"`
}

// ShelfOutput wraps a shelf response for Huma.
type ShelfOutput struct {
	Body ShelfResponse
}

// PlaceOnShelfRequest is the request body for placing a book on the shelf.
type PlaceOnShelfRequest struct {
	BookID   string `json:"book_id" validate:"required" doc:"Book to shelve"`
	Position int    `json:"position" validate:"required,gte=1,lte=5" doc:"Shelf position, 1-based"`
}

// PlaceOnShelfInput wraps the place request for Huma.
type PlaceOnShelfInput struct {
	Body PlaceOnShelfRequest
}

// RemoveFromShelfInput contains parameters for removing a book.
type RemoveFromShelfInput struct {
	BookID string `path:"bookId" doc:"Book ID"`
}

// GetShelfByUsernameInput contains the username to look up.
type GetShelfByUsernameInput struct {
	Username string `path:"username" doc:"Public username"`
}

// === Handlers ===

func (s *Server) handleGetMyShelf(ctx context.Context, _ *struct{}) (*ShelfOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Shelf.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(entries)}, nil
}

func (s *Server) handlePlaceOnShelf(ctx context.Context, input *PlaceOnShelfInput) (*ShelfOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelf.AddToShelf(ctx, userID, input.Body.BookID, input.Body.Position); err != nil {
		return nil, err
	}

	entries, err := s.services.Shelf.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(entries)}, nil
}

func (s *Server) handleRemoveFromShelf(ctx context.Context, input *RemoveFromShelfInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelf.RemoveFromShelf(ctx, userID, input.BookID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book removed from shelf"}}, nil
}

func (s *Server) handleGetShelfByUsername(ctx context.Context, input *GetShelfByUsernameInput) (*ShelfOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	entries, err := s.services.Shelf.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(entries)}, nil
}

// === Helpers ===

func mapShelfResponse(entries []*domain.ShelfEntry) ShelfResponse {
	slots := make([]ShelfSlotResponse, len(entries))
	for i, e := range entries {
		slots[i] = ShelfSlotResponse{
			Position: e.Position,
			Book:     mapBookResponse(e.Book),
		}
	}
	return ShelfResponse{Entries: slots, Capacity: domain.ShelfCapacity}
}
