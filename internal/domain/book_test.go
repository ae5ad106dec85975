package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookStatus_Valid(t *testing.T) {
	assert.True(t, StatusWantToRead.Valid())
	assert.True(t, StatusCurrentlyReading.Valid())
	assert.True(t, StatusHaveRead.Valid())
	assert.False(t, BookStatus("reading").Valid())
	assert.False(t, BookStatus("").Valid())
}

func TestConsumptionType_Valid(t *testing.T) {
	assert.True(t, ConsumptionRead.Valid())
	assert.True(t, ConsumptionListen.Valid())
	assert.True(t, ConsumptionType("").Valid()) // Optional field
	assert.False(t, ConsumptionType("watch").Valid())
}

func TestValidPriority(t *testing.T) {
	assert.False(t, ValidPriority(0))
	assert.True(t, ValidPriority(1))
	assert.True(t, ValidPriority(2))
	assert.True(t, ValidPriority(3))
	assert.False(t, ValidPriority(4))
}

func TestBook_MarkCompleted(t *testing.T) {
	book := &Book{ID: "book-1", Status: StatusHaveRead}

	book.MarkCompleted()

	assert.NotNil(t, book.CompletedAt)
	assert.WithinDuration(t, time.Now(), *book.CompletedAt, time.Second)
}

func TestBook_MarkCompleted_PreservesExisting(t *testing.T) {
	finished := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	book := &Book{ID: "book-1", Status: StatusHaveRead, CompletedAt: &finished}

	book.MarkCompleted()

	assert.Equal(t, finished, *book.CompletedAt)
}

func TestBook_ClearPriority(t *testing.T) {
	p := 2
	book := &Book{ID: "book-1", Status: StatusWantToRead, Priority: &p}

	book.ClearPriority()

	assert.Nil(t, book.Priority)
}
