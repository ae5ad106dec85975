package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	domainerrors "github.com/nextchapterapp/nextchapter-server/internal/errors"
	"github.com/nextchapterapp/nextchapter-server/internal/id"
	"github.com/nextchapterapp/nextchapter-server/internal/store"
)

// BookListService manages a user's three reading lists: backlog,
// in-progress, and finished, plus the priority slots on the backlog.
type BookListService struct {
	store  store.Store
	logger *slog.Logger
}

// NewBookListService creates a new book list service.
func NewBookListService(store store.Store, logger *slog.Logger) *BookListService {
	return &BookListService{
		store:  store,
		logger: logger,
	}
}

// AddBookRequest contains new book data.
type AddBookRequest struct {
	Title           string     `json:"title" validate:"required,max=500"`
	Author          string     `json:"author" validate:"required,max=500"`
	Notes           string     `json:"notes" validate:"max=2000"`
	Status          string     `json:"status" validate:"required,oneof=want_to_read currently_reading have_read"`
	ConsumptionType string     `json:"consumption_type" validate:"omitempty,oneof=read listen"`
	ListenPlatform  string     `json:"listen_platform" validate:"max=100"`
	ReadFormat      string     `json:"read_format" validate:"max=100"`
	RecommendedBy   string     `json:"recommended_by" validate:"max=100"`
	CompletedAt     *time.Time `json:"completed_at"`
	IsPublic        bool       `json:"is_public"`
}

// UpdateBookRequest contains partial edits. Nil pointers leave fields
// untouched.
type UpdateBookRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=500"`
	Author          *string `json:"author" validate:"omitempty,max=500"`
	Notes           *string `json:"notes" validate:"omitempty,max=2000"`
	Status          *string `json:"status" validate:"omitempty,oneof=want_to_read currently_reading have_read"`
	ConsumptionType *string `json:"consumption_type" validate:"omitempty,oneof=read listen"`
	ListenPlatform  *string `json:"listen_platform" validate:"omitempty,max=100"`
	ReadFormat      *string `json:"read_format" validate:"omitempty,max=100"`
	RecommendedBy   *string `json:"recommended_by" validate:"omitempty,max=100"`
	IsPublic        *bool   `json:"is_public"`
}

// ListByStatus returns books on one list ordered by position, or all
// lists when status is empty.
func (s *BookListService) ListByStatus(ctx context.Context, userID string, status domain.BookStatus) ([]*domain.Book, error) {
	if status != "" && !status.Valid() {
		return nil, domainerrors.Validationf("unknown status %q", status)
	}

	books, err := s.store.ListBooks(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// PriorityBooks returns the fixed three-slot array of prioritized
// want-to-read books. Empty slots are nil.
func (s *BookListService) PriorityBooks(ctx context.Context, userID string) ([domain.PriorityMax]*domain.Book, error) {
	var slots [domain.PriorityMax]*domain.Book

	books, err := s.store.ListPriorityBooks(ctx, userID)
	if err != nil {
		return slots, fmt.Errorf("list priority books: %w", err)
	}

	for _, b := range books {
		if b.Priority != nil && domain.ValidPriority(*b.Priority) {
			slots[*b.Priority-1] = b
		}
	}
	return slots, nil
}

// Add creates a book at the end of its list. A caller-supplied
// completedAt is honored only when the book is created already finished.
func (s *BookListService) Add(ctx context.Context, userID string, req AddBookRequest) (*domain.Book, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	status := domain.BookStatus(req.Status)

	position, err := s.store.NextPosition(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := time.Now()
	book := &domain.Book{
		ID:              bookID,
		UserID:          userID,
		Title:           req.Title,
		Author:          req.Author,
		Notes:           req.Notes,
		Status:          status,
		ConsumptionType: domain.ConsumptionType(req.ConsumptionType),
		ListenPlatform:  req.ListenPlatform,
		ReadFormat:      req.ReadFormat,
		RecommendedBy:   req.RecommendedBy,
		Position:        position,
		CreatedAt:       now,
		UpdatedAt:       now,
		IsPublic:        req.IsPublic,
	}

	if status == domain.StatusHaveRead {
		if req.CompletedAt != nil {
			book.CompletedAt = req.CompletedAt
		} else {
			book.MarkCompleted()
		}
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book added", "user_id", userID, "book_id", bookID, "status", status)
	}

	return book, nil
}

// Update applies partial edits. A status transition into have_read sets
// completedAt; edits never change completedAt otherwise, even for
// finished books.
func (s *BookListService) Update(ctx context.Context, userID, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	book, err := s.getOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Notes != nil {
		book.Notes = *req.Notes
	}
	if req.ConsumptionType != nil {
		book.ConsumptionType = domain.ConsumptionType(*req.ConsumptionType)
	}
	if req.ListenPlatform != nil {
		book.ListenPlatform = *req.ListenPlatform
	}
	if req.ReadFormat != nil {
		book.ReadFormat = *req.ReadFormat
	}
	if req.RecommendedBy != nil {
		book.RecommendedBy = *req.RecommendedBy
	}
	if req.IsPublic != nil {
		book.IsPublic = *req.IsPublic
	}
	if req.Status != nil {
		s.applyStatusChange(book, domain.BookStatus(*req.Status))
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// Delete removes a book. Deleting a book that is already gone succeeds.
func (s *BookListService) Delete(ctx context.Context, userID, bookID string) error {
	err := s.store.DeleteBook(ctx, userID, bookID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// Move sets a book's status and position. Leaving want_to_read clears
// its priority; entering have_read from a different status stamps
// completedAt.
func (s *BookListService) Move(ctx context.Context, userID, bookID string, status domain.BookStatus, position int) (*domain.Book, error) {
	if !status.Valid() {
		return nil, domainerrors.Validationf("unknown status %q", status)
	}

	book, err := s.getOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	s.applyStatusChange(book, status)
	book.Position = position

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("move book: %w", err)
	}
	return book, nil
}

// SetPriority assigns or clears a priority slot. Assigning a slot held
// by another book clears that book's priority in the same transaction.
func (s *BookListService) SetPriority(ctx context.Context, userID, bookID string, priority *int) (*domain.Book, error) {
	book, err := s.getOwnedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if priority == nil {
		book.ClearPriority()
		if err := s.store.UpdateBook(ctx, book); err != nil {
			return nil, fmt.Errorf("clear priority: %w", err)
		}
		return book, nil
	}

	if !domain.ValidPriority(*priority) {
		return nil, domainerrors.Validationf("priority must be between %d and %d", domain.PriorityMin, domain.PriorityMax)
	}
	if book.Status != domain.StatusWantToRead {
		return nil, domainerrors.Validation("only want_to_read books can hold a priority slot")
	}

	if err := s.store.SetBookPriority(ctx, userID, bookID, *priority); err != nil {
		return nil, fmt.Errorf("set priority: %w", err)
	}

	book.Priority = priority
	return book, nil
}

// Reorder rewrites position = index for the given order. Writes are
// independent per row: a mid-batch failure leaves earlier rows applied
// and reports which one failed.
func (s *BookListService) Reorder(ctx context.Context, userID string, status domain.BookStatus, bookIDs []string) error {
	if !status.Valid() {
		return domainerrors.Validationf("unknown status %q", status)
	}
	if len(bookIDs) == 0 {
		return domainerrors.Validation("book ids are required")
	}

	for i, bookID := range bookIDs {
		if err := s.store.UpdateBookPosition(ctx, userID, bookID, i); err != nil {
			return domainerrors.PartialFailuref("reorder failed at index %d (book %s)", i, bookID).WithCause(err)
		}
	}
	return nil
}

// getOwnedBook fetches a book and maps missing rows to a domain error.
func (s *BookListService) getOwnedBook(ctx context.Context, userID, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// applyStatusChange moves a book between lists, maintaining the
// priority and completedAt rules that hang off transitions.
func (s *BookListService) applyStatusChange(book *domain.Book, status domain.BookStatus) {
	if book.Status == status {
		return
	}

	if book.Status == domain.StatusWantToRead {
		book.ClearPriority()
	}
	if status == domain.StatusHaveRead {
		now := time.Now()
		book.CompletedAt = &now
	}
	book.Status = status
}
