package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the caller's books, optionally filtered to one list",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "addBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Add book",
		Description: "Adds a book to the end of one of the caller's lists",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPriorityBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/priorities",
		Summary:     "List priority books",
		Description: "Returns the three priority slots of the want-to-read list",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPriorityBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Applies partial edits to a book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book. Deleting an already removed book succeeds.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/move",
		Summary:     "Move book",
		Description: "Moves a book to a status and position",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMoveBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "setBookPriority",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/priority",
		Summary:     "Set book priority",
		Description: "Assigns or clears a priority slot on a want-to-read book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetBookPriority)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderBooks",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/reorder",
		Summary:     "Reorder books",
		Description: "Rewrites the positions of one list to the given order",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReorderBooks)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID              string     `json:"id" doc:"Book ID"`
	Title           string     `json:"title" doc:"Title"`
	Author          string     `json:"author" doc:"Author"`
	Notes           string     `json:"notes,omitempty" doc:"Personal notes"`
	Status          string     `json:"status" doc:"List: want_to_read, currently_reading, or have_read"`
	ConsumptionType string     `json:"consumption_type,omitempty" doc:"How the book is consumed: read or listen"`
	ListenPlatform  string     `json:"listen_platform,omitempty" doc:"Audiobook platform"`
	ReadFormat      string     `json:"read_format,omitempty" doc:"Print or ebook format"`
	RecommendedBy   string     `json:"recommended_by,omitempty" doc:"Who recommended this book"`
	Priority        *int       `json:"priority,omitempty" doc:"Priority slot 1-3, want_to_read only"`
	Position        int        `json:"position" doc:"Position within its list"`
	IsPublic        bool       `json:"is_public" doc:"Visible on the public shelf page"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" doc:"When the book was finished"`
	CreatedAt       time.Time  `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt       time.Time  `json:"updated_at" doc:"Last update timestamp"`
}

// ListBooksInput contains parameters for listing books.
type ListBooksInput struct {
	Status string `query:"status" enum:"want_to_read,currently_reading,have_read" required:"false" doc:"Filter to one list"`
}

// ListBooksResponse contains a list of books.
type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"Books ordered by list position"`
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// AddBookRequest is the request body for adding a book.
type AddBookRequest struct {
	Title           string     `json:"title" validate:"required,max=500" doc:"Title"`
	Author          string     `json:"author" validate:"required,max=500" doc:"Author"`
	Notes           string     `json:"notes,omitempty" validate:"max=2000" doc:"Personal notes"`
	Status          string     `json:"status" validate:"required,oneof=want_to_read currently_reading have_read" doc:"Target list"`
	ConsumptionType string     `json:"consumption_type,omitempty" validate:"omitempty,oneof=read listen" doc:"read or listen"`
	ListenPlatform  string     `json:"listen_platform,omitempty" validate:"max=100" doc:"Audiobook platform"`
	ReadFormat      string     `json:"read_format,omitempty" validate:"max=100" doc:"Print or ebook format"`
	RecommendedBy   string     `json:"recommended_by,omitempty" validate:"max=100" doc:"Who recommended it"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" doc:"Completion time, honored only for have_read"`
	IsPublic        bool       `json:"is_public,omitempty" doc:"Visible on the public shelf page"`
}

// AddBookInput wraps the add book request for Huma.
type AddBookInput struct {
	Body AddBookRequest
}

// BookOutput wraps a single book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// PriorityBooksResponse contains the fixed priority slots.
type PriorityBooksResponse struct {
	Slots []*BookResponse `json:"slots" doc:"Priority slots 1-3, null when empty"`
}

// PriorityBooksOutput wraps the priority books response for Huma.
type PriorityBooksOutput struct {
	Body PriorityBooksResponse
}

// UpdateBookRequest contains fields that can be updated on a book.
// Only non-nil fields are applied (true PATCH semantics).
type UpdateBookRequest struct {
	Title           *string `json:"title,omitempty" doc:"Title"`
	Author          *string `json:"author,omitempty" doc:"Author"`
	Notes           *string `json:"notes,omitempty" doc:"Personal notes"`
	Status          *string `json:"status,omitempty" enum:"want_to_read,currently_reading,have_read" doc:"Target list"`
	ConsumptionType *string `json:"consumption_type,omitempty" enum:"read,listen" doc:"read or listen"`
	ListenPlatform  *string `json:"listen_platform,omitempty" doc:"Audiobook platform"`
	ReadFormat      *string `json:"read_format,omitempty" doc:"Print or ebook format"`
	RecommendedBy   *string `json:"recommended_by,omitempty" doc:"Who recommended it"`
	IsPublic        *bool   `json:"is_public,omitempty" doc:"Visible on the public shelf page"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// MoveBookRequest is the request body for moving a book.
type MoveBookRequest struct {
	Status   string `json:"status" validate:"required,oneof=want_to_read currently_reading have_read" doc:"Target list"`
	Position int    `json:"position" validate:"gte=0" doc:"Position within the target list"`
}

// MoveBookInput wraps the move book request for Huma.
type MoveBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body MoveBookRequest
}

// SetPriorityRequest is the request body for assigning a priority slot.
// A null priority clears the slot.
type SetPriorityRequest struct {
	Priority *int `json:"priority" doc:"Priority slot 1-3, null to clear"`
}

// SetPriorityInput wraps the set priority request for Huma.
type SetPriorityInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body SetPriorityRequest
}

// ReorderBooksRequest is the request body for reordering a list.
type ReorderBooksRequest struct {
	Status  string   `json:"status" validate:"required,oneof=want_to_read currently_reading have_read" doc:"List to reorder"`
	BookIDs []string `json:"book_ids" validate:"required,min=1" doc:"Book IDs in the desired order"`
}

// ReorderBooksInput wraps the reorder request for Huma.
type ReorderBooksInput struct {
	Body ReorderBooksRequest
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.BookList.ListByStatus(ctx, userID, domain.BookStatus(input.Status))
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i, b := range books {
		resp[i] = mapBookResponse(b)
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: resp}}, nil
}

func (s *Server) handleAddBook(ctx context.Context, input *AddBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.BookList.Add(ctx, userID, service.AddBookRequest{
		Title:           input.Body.Title,
		Author:          input.Body.Author,
		Notes:           input.Body.Notes,
		Status:          input.Body.Status,
		ConsumptionType: input.Body.ConsumptionType,
		ListenPlatform:  input.Body.ListenPlatform,
		ReadFormat:      input.Body.ReadFormat,
		RecommendedBy:   input.Body.RecommendedBy,
		CompletedAt:     input.Body.CompletedAt,
		IsPublic:        input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleListPriorityBooks(ctx context.Context, _ *struct{}) (*PriorityBooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	slots, err := s.services.BookList.PriorityBooks(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]*BookResponse, len(slots))
	for i, b := range slots {
		if b != nil {
			mapped := mapBookResponse(b)
			resp[i] = &mapped
		}
	}

	return &PriorityBooksOutput{Body: PriorityBooksResponse{Slots: resp}}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.BookList.Update(ctx, userID, input.ID, service.UpdateBookRequest{
		Title:           input.Body.Title,
		Author:          input.Body.Author,
		Notes:           input.Body.Notes,
		Status:          input.Body.Status,
		ConsumptionType: input.Body.ConsumptionType,
		ListenPlatform:  input.Body.ListenPlatform,
		ReadFormat:      input.Body.ReadFormat,
		RecommendedBy:   input.Body.RecommendedBy,
		IsPublic:        input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.BookList.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

func (s *Server) handleMoveBook(ctx context.Context, input *MoveBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.BookList.Move(ctx, userID, input.ID, domain.BookStatus(input.Body.Status), input.Body.Position)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleSetBookPriority(ctx context.Context, input *SetPriorityInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.BookList.SetPriority(ctx, userID, input.ID, input.Body.Priority)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleReorderBooks(ctx context.Context, input *ReorderBooksInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	err = s.services.BookList.Reorder(ctx, userID, domain.BookStatus(input.Body.Status), input.Body.BookIDs)
	if err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "List reordered"}}, nil
}

// === Helpers ===

func mapBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Notes:           b.Notes,
		Status:          string(b.Status),
		ConsumptionType: string(b.ConsumptionType),
		ListenPlatform:  b.ListenPlatform,
		ReadFormat:      b.ReadFormat,
		RecommendedBy:   b.RecommendedBy,
		Priority:        b.Priority,
		Position:        b.Position,
		IsPublic:        b.IsPublic,
		CompletedAt:     b.CompletedAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
