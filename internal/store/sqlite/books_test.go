package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/store"
)

func testBook(userID, id string, status domain.BookStatus, position int) *domain.Book {
	now := time.Now()
	return &domain.Book{
		ID:        id,
		UserID:    userID,
		Title:     "The Dispossessed",
		Author:    "Ursula K. Le Guin",
		Status:    status,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateBook_AndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	completed := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	p := 2
	book := testBook("user-1", "book-1", domain.StatusHaveRead, 0)
	book.Notes = "loaned from the library"
	book.ConsumptionType = domain.ConsumptionListen
	book.ListenPlatform = "Libby"
	book.RecommendedBy = "Sam"
	book.Priority = &p
	book.CompletedAt = &completed
	book.IsPublic = true

	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create book: %v", err)
	}

	got, err := s.GetBook(ctx, "user-1", "book-1")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.Title != book.Title || got.Author != book.Author {
		t.Errorf("title/author mismatch: %q / %q", got.Title, got.Author)
	}
	if got.Notes != "loaned from the library" {
		t.Errorf("notes = %q", got.Notes)
	}
	if got.ConsumptionType != domain.ConsumptionListen || got.ListenPlatform != "Libby" {
		t.Errorf("consumption = %q / %q", got.ConsumptionType, got.ListenPlatform)
	}
	if got.Priority == nil || *got.Priority != 2 {
		t.Errorf("priority = %v, want 2", got.Priority)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completed) {
		t.Errorf("completed_at = %v, want %v", got.CompletedAt, completed)
	}
	if !got.IsPublic {
		t.Error("is_public should round-trip")
	}
}

func TestGetBook_WrongOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")
	seedUser(t, s, "user-2")

	if err := s.CreateBook(ctx, testBook("user-1", "book-1", domain.StatusWantToRead, 0)); err != nil {
		t.Fatalf("create book: %v", err)
	}

	_, err := s.GetBook(ctx, "user-2", "book-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for other user's book, got %v", err)
	}
}

func TestListBooks_FilteredAndOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	// Insert out of position order to prove the sort.
	for _, b := range []*domain.Book{
		testBook("user-1", "book-3", domain.StatusWantToRead, 2),
		testBook("user-1", "book-1", domain.StatusWantToRead, 0),
		testBook("user-1", "book-2", domain.StatusWantToRead, 1),
		testBook("user-1", "book-4", domain.StatusCurrentlyReading, 0),
	} {
		if err := s.CreateBook(ctx, b); err != nil {
			t.Fatalf("create %s: %v", b.ID, err)
		}
	}

	books, err := s.ListBooks(ctx, "user-1", domain.StatusWantToRead)
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("expected 3 want_to_read books, got %d", len(books))
	}
	for i, want := range []string{"book-1", "book-2", "book-3"} {
		if books[i].ID != want {
			t.Errorf("books[%d] = %s, want %s", i, books[i].ID, want)
		}
	}

	all, err := s.ListBooks(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 books total, got %d", len(all))
	}
}

func TestNextPosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	pos, err := s.NextPosition(ctx, "user-1", domain.StatusWantToRead)
	if err != nil {
		t.Fatalf("next position: %v", err)
	}
	if pos != 0 {
		t.Errorf("empty list position = %d, want 0", pos)
	}

	if err := s.CreateBook(ctx, testBook("user-1", "book-1", domain.StatusWantToRead, 4)); err != nil {
		t.Fatalf("create book: %v", err)
	}

	pos, err = s.NextPosition(ctx, "user-1", domain.StatusWantToRead)
	if err != nil {
		t.Fatalf("next position: %v", err)
	}
	if pos != 5 {
		t.Errorf("position = %d, want max+1 = 5", pos)
	}

	// Other statuses are independent buckets.
	pos, err = s.NextPosition(ctx, "user-1", domain.StatusHaveRead)
	if err != nil {
		t.Fatalf("next position: %v", err)
	}
	if pos != 0 {
		t.Errorf("have_read position = %d, want 0", pos)
	}
}

func TestSetBookPriority_StealsSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	if err := s.CreateBook(ctx, testBook("user-1", "book-1", domain.StatusWantToRead, 0)); err != nil {
		t.Fatalf("create book-1: %v", err)
	}
	if err := s.CreateBook(ctx, testBook("user-1", "book-2", domain.StatusWantToRead, 1)); err != nil {
		t.Fatalf("create book-2: %v", err)
	}

	if err := s.SetBookPriority(ctx, "user-1", "book-1", 1); err != nil {
		t.Fatalf("set priority book-1: %v", err)
	}
	if err := s.SetBookPriority(ctx, "user-1", "book-2", 1); err != nil {
		t.Fatalf("set priority book-2: %v", err)
	}

	b1, err := s.GetBook(ctx, "user-1", "book-1")
	if err != nil {
		t.Fatalf("get book-1: %v", err)
	}
	if b1.Priority != nil {
		t.Errorf("book-1 priority = %v, want cleared after steal", *b1.Priority)
	}

	b2, err := s.GetBook(ctx, "user-1", "book-2")
	if err != nil {
		t.Fatalf("get book-2: %v", err)
	}
	if b2.Priority == nil || *b2.Priority != 1 {
		t.Errorf("book-2 priority = %v, want 1", b2.Priority)
	}
}

func TestSetBookPriority_NotFound(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "user-1")

	err := s.SetBookPriority(context.Background(), "user-1", "book-missing", 1)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPriorityBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	for i, id := range []string{"book-1", "book-2", "book-3"} {
		if err := s.CreateBook(ctx, testBook("user-1", id, domain.StatusWantToRead, i)); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := s.SetBookPriority(ctx, "user-1", "book-3", 1); err != nil {
		t.Fatalf("set priority: %v", err)
	}
	if err := s.SetBookPriority(ctx, "user-1", "book-1", 2); err != nil {
		t.Fatalf("set priority: %v", err)
	}

	books, err := s.ListPriorityBooks(ctx, "user-1")
	if err != nil {
		t.Fatalf("list priority: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 prioritized books, got %d", len(books))
	}
	if books[0].ID != "book-3" || books[1].ID != "book-1" {
		t.Errorf("slot order wrong: %s, %s", books[0].ID, books[1].ID)
	}
}

func TestDeleteBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	if err := s.CreateBook(ctx, testBook("user-1", "book-1", domain.StatusWantToRead, 0)); err != nil {
		t.Fatalf("create book: %v", err)
	}

	if err := s.DeleteBook(ctx, "user-1", "book-1"); err != nil {
		t.Fatalf("delete book: %v", err)
	}

	_, err := s.GetBook(ctx, "user-1", "book-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	err = s.DeleteBook(ctx, "user-1", "book-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestUpdateBookPosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	if err := s.CreateBook(ctx, testBook("user-1", "book-1", domain.StatusWantToRead, 0)); err != nil {
		t.Fatalf("create book: %v", err)
	}

	if err := s.UpdateBookPosition(ctx, "user-1", "book-1", 7); err != nil {
		t.Fatalf("update position: %v", err)
	}

	got, err := s.GetBook(ctx, "user-1", "book-1")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.Position != 7 {
		t.Errorf("position = %d, want 7", got.Position)
	}
}
