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

// ShelfService manages the five-slot public shelf: the curated subset
// of a user's want-to-read list that others can see.
type ShelfService struct {
	store  store.Store
	logger *slog.Logger
}

// NewShelfService creates a new shelf service.
func NewShelfService(store store.Store, logger *slog.Logger) *ShelfService {
	return &ShelfService{
		store:  store,
		logger: logger,
	}
}

// GetOwn returns the caller's shelf entries ordered by position.
func (s *ShelfService) GetOwn(ctx context.Context, userID string) ([]*domain.ShelfEntry, error) {
	entries, err := s.store.ListShelfEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shelf entries: %w", err)
	}
	return entries, nil
}

// GetByUsername returns another user's shelf looked up by their public
// handle. Only want-to-read books are shown.
func (s *ShelfService) GetByUsername(ctx context.Context, username string) ([]*domain.ShelfEntry, error) {
	profile, err := s.store.GetProfileByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("profile not found")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	entries, err := s.store.ListShelfEntries(ctx, profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("list shelf entries: %w", err)
	}

	// A shelved book may have moved off want_to_read since placement;
	// those slots are hidden from visitors.
	visible := make([]*domain.ShelfEntry, 0, len(entries))
	for _, e := range entries {
		if e.Book.Status == domain.StatusWantToRead {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// AddToShelf places a book at a shelf position. The occupant of the
// position is evicted; a book already shelved elsewhere moves instead
// of duplicating.
func (s *ShelfService) AddToShelf(ctx context.Context, userID, bookID string, position int) error {
	if !domain.ValidShelfPosition(position) {
		return domainerrors.Validationf("position must be between 1 and %d", domain.ShelfCapacity)
	}

	book, err := s.store.GetBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book not found")
		}
		return fmt.Errorf("get book: %w", err)
	}
	if book.Status != domain.StatusWantToRead {
		return domainerrors.Validation("only want_to_read books can go on the public shelf")
	}

	itemID, err := id.Generate("shelf")
	if err != nil {
		return fmt.Errorf("generate shelf item ID: %w", err)
	}

	item := &domain.PublicShelfItem{
		ID:        itemID,
		UserID:    userID,
		BookID:    bookID,
		Position:  position,
		CreatedAt: time.Now(),
	}

	if err := s.store.PlaceShelfItem(ctx, item); err != nil {
		return fmt.Errorf("place shelf item: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book shelved", "user_id", userID, "book_id", bookID, "position", position)
	}
	return nil
}

// RemoveFromShelf takes a book off the caller's shelf.
func (s *ShelfService) RemoveFromShelf(ctx context.Context, userID, bookID string) error {
	err := s.store.RemoveShelfItem(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book is not on your shelf")
		}
		return fmt.Errorf("remove shelf item: %w", err)
	}
	return nil
}
