package service

import (
	"context"
	"testing"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	domainerrors "github.com/nextchapterapp/nextchapter-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBookListTest(t *testing.T) (*BookListService, string) {
	t.Helper()

	s := newServiceStore(t)
	user := seedServiceUser(t, s, "user-books")
	return NewBookListService(s, nil), user.ID
}

func addTestBook(t *testing.T, svc *BookListService, userID string, status string) *domain.Book {
	t.Helper()

	book, err := svc.Add(context.Background(), userID, AddBookRequest{
		Title:  "The Left Hand of Darkness",
		Author: "Ursula K. Le Guin",
		Status: status,
	})
	require.NoError(t, err)
	return book
}

func TestBookListService_Add_AppendsToEndOfList(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	first := addTestBook(t, svc, userID, "want_to_read")
	second := addTestBook(t, svc, userID, "want_to_read")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	// A different list starts at zero independently.
	reading := addTestBook(t, svc, userID, "currently_reading")
	assert.Equal(t, 0, reading.Position)

	books, err := svc.ListByStatus(ctx, userID, domain.StatusWantToRead)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, first.ID, books[0].ID)
	assert.Equal(t, second.ID, books[1].ID)
}

func TestBookListService_Add_ValidatesInput(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, AddBookRequest{Title: "No Author", Status: "want_to_read"})
	require.Error(t, err)

	_, err = svc.Add(ctx, userID, AddBookRequest{Title: "T", Author: "A", Status: "reading"})
	require.Error(t, err)
}

func TestBookListService_Add_CompletedAt(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	// Backdated completion is honored when the book arrives finished.
	past := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	finished, err := svc.Add(ctx, userID, AddBookRequest{
		Title:       "Annihilation",
		Author:      "Jeff VanderMeer",
		Status:      "have_read",
		CompletedAt: &past,
	})
	require.NoError(t, err)
	require.NotNil(t, finished.CompletedAt)
	assert.True(t, finished.CompletedAt.Equal(past))

	// Without a caller timestamp a finished book is stamped now.
	stamped, err := svc.Add(ctx, userID, AddBookRequest{
		Title:  "Authority",
		Author: "Jeff VanderMeer",
		Status: "have_read",
	})
	require.NoError(t, err)
	require.NotNil(t, stamped.CompletedAt)
	assert.WithinDuration(t, time.Now(), *stamped.CompletedAt, 5*time.Second)

	// A backlog book ignores the timestamp entirely.
	backlog, err := svc.Add(ctx, userID, AddBookRequest{
		Title:       "Acceptance",
		Author:      "Jeff VanderMeer",
		Status:      "want_to_read",
		CompletedAt: &past,
	})
	require.NoError(t, err)
	assert.Nil(t, backlog.CompletedAt)
}

func TestBookListService_Update_FinishStampsCompletedAt(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	book := addTestBook(t, svc, userID, "currently_reading")
	require.Nil(t, book.CompletedAt)

	status := "have_read"
	updated, err := svc.Update(ctx, userID, book.ID, UpdateBookRequest{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.WithinDuration(t, time.Now(), *updated.CompletedAt, 5*time.Second)
}

func TestBookListService_Update_SameStatusKeepsCompletedAt(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	past := time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC)
	book, err := svc.Add(ctx, userID, AddBookRequest{
		Title:       "Piranesi",
		Author:      "Susanna Clarke",
		Status:      "have_read",
		CompletedAt: &past,
	})
	require.NoError(t, err)

	notes := "re-read candidate"
	updated, err := svc.Update(ctx, userID, book.ID, UpdateBookRequest{Notes: &notes})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, updated.CompletedAt.Equal(past))
	assert.Equal(t, "re-read candidate", updated.Notes)
}

func TestBookListService_Move_LeavingBacklogClearsPriority(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	book := addTestBook(t, svc, userID, "want_to_read")

	slot := 1
	_, err := svc.SetPriority(ctx, userID, book.ID, &slot)
	require.NoError(t, err)

	moved, err := svc.Move(ctx, userID, book.ID, domain.StatusCurrentlyReading, 0)
	require.NoError(t, err)
	assert.Nil(t, moved.Priority)
	assert.Equal(t, domain.StatusCurrentlyReading, moved.Status)

	slots, err := svc.PriorityBooks(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, slots[0])
}

func TestBookListService_SetPriority(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	first := addTestBook(t, svc, userID, "want_to_read")
	second := addTestBook(t, svc, userID, "want_to_read")

	slot := 2
	_, err := svc.SetPriority(ctx, userID, first.ID, &slot)
	require.NoError(t, err)

	// Claiming an occupied slot steals it.
	_, err = svc.SetPriority(ctx, userID, second.ID, &slot)
	require.NoError(t, err)

	slots, err := svc.PriorityBooks(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, slots[1])
	assert.Equal(t, second.ID, slots[1].ID)

	evicted, err := svc.ListByStatus(ctx, userID, domain.StatusWantToRead)
	require.NoError(t, err)
	for _, b := range evicted {
		if b.ID == first.ID {
			assert.Nil(t, b.Priority)
		}
	}

	// Clearing with nil empties the slot.
	_, err = svc.SetPriority(ctx, userID, second.ID, nil)
	require.NoError(t, err)
	slots, err = svc.PriorityBooks(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, slots[1])
}

func TestBookListService_SetPriority_Rejections(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	reading := addTestBook(t, svc, userID, "currently_reading")

	slot := 1
	_, err := svc.SetPriority(ctx, userID, reading.ID, &slot)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	backlog := addTestBook(t, svc, userID, "want_to_read")
	bad := 4
	_, err = svc.SetPriority(ctx, userID, backlog.ID, &bad)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.SetPriority(ctx, userID, "book-missing", &slot)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBookListService_Delete_Idempotent(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	book := addTestBook(t, svc, userID, "want_to_read")

	require.NoError(t, svc.Delete(ctx, userID, book.ID))
	require.NoError(t, svc.Delete(ctx, userID, book.ID))
}

func TestBookListService_Reorder(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	a := addTestBook(t, svc, userID, "want_to_read")
	b := addTestBook(t, svc, userID, "want_to_read")
	c := addTestBook(t, svc, userID, "want_to_read")

	err := svc.Reorder(ctx, userID, domain.StatusWantToRead, []string{c.ID, a.ID, b.ID})
	require.NoError(t, err)

	books, err := svc.ListByStatus(ctx, userID, domain.StatusWantToRead)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, c.ID, books[0].ID)
	assert.Equal(t, a.ID, books[1].ID)
	assert.Equal(t, b.ID, books[2].ID)
}

func TestBookListService_Reorder_PartialFailure(t *testing.T) {
	svc, userID := setupBookListTest(t)
	ctx := context.Background()

	a := addTestBook(t, svc, userID, "want_to_read")
	b := addTestBook(t, svc, userID, "want_to_read")

	err := svc.Reorder(ctx, userID, domain.StatusWantToRead, []string{b.ID, "book-missing", a.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPartialFailure)

	// The write before the failure stuck: b moved to the front slot.
	books, err := svc.ListByStatus(ctx, userID, domain.StatusWantToRead)
	require.NoError(t, err)
	require.Len(t, books, 2)
	var moved *domain.Book
	for _, book := range books {
		if book.ID == b.ID {
			moved = book
		}
	}
	require.NotNil(t, moved)
	assert.Equal(t, 0, moved.Position)
}
