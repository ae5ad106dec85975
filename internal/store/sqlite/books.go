package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, user_id, title, author, notes, status, consumption_type,
	listen_platform, read_format, recommended_by, priority, position,
	created_at, updated_at, completed_at, is_public`

// scanBook scans a row into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		notes           sql.NullString
		consumptionType sql.NullString
		listenPlatform  sql.NullString
		readFormat      sql.NullString
		recommendedBy   sql.NullString
		priority        sql.NullInt64
		createdAt       string
		updatedAt       string
		completedAt     sql.NullString
		isPublic        int
	)

	err := scanner.Scan(
		&b.ID,
		&b.UserID,
		&b.Title,
		&b.Author,
		&notes,
		&b.Status,
		&consumptionType,
		&listenPlatform,
		&readFormat,
		&recommendedBy,
		&priority,
		&b.Position,
		&createdAt,
		&updatedAt,
		&completedAt,
		&isPublic,
	)
	if err != nil {
		return nil, err
	}

	b.Notes = notes.String
	b.ConsumptionType = domain.ConsumptionType(consumptionType.String)
	b.ListenPlatform = listenPlatform.String
	b.ReadFormat = readFormat.String
	b.RecommendedBy = recommendedBy.String
	b.Priority = intPtr(priority)
	b.IsPublic = isPublic != 0

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	b.CompletedAt, err = parseNullableTime(completedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBook inserts a new book.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, user_id, title, author, notes, status, consumption_type,
			listen_platform, read_format, recommended_by, priority, position,
			created_at, updated_at, completed_at, is_public
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.UserID,
		book.Title,
		book.Author,
		nullString(book.Notes),
		string(book.Status),
		nullString(string(book.ConsumptionType)),
		nullString(book.ListenPlatform),
		nullString(book.ReadFormat),
		nullString(book.RecommendedBy),
		nullIntPtr(book.Priority),
		book.Position,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		nullTimeString(book.CompletedAt),
		boolToInt(book.IsPublic),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBook retrieves a book owned by the given user.
// Returns store.ErrNotFound if absent or owned by someone else.
func (s *Store) GetBook(ctx context.Context, userID, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ? AND user_id = ?`, id, userID)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns a user's books ordered by position within their list.
// An empty status returns all three lists.
func (s *Store) ListBooks(ctx context.Context, userID string, status domain.BookStatus) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY status, position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// ListPriorityBooks returns the user's prioritized want-to-read books
// ordered by slot number.
func (s *Store) ListPriorityBooks(ctx context.Context, userID string) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books
		 WHERE user_id = ? AND priority IS NOT NULL
		 ORDER BY priority`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// UpdateBook writes all mutable book fields.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	book.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE books
		SET title = ?, author = ?, notes = ?, status = ?, consumption_type = ?,
			listen_platform = ?, read_format = ?, recommended_by = ?,
			priority = ?, position = ?, updated_at = ?, completed_at = ?, is_public = ?
		WHERE id = ? AND user_id = ?`,
		book.Title,
		book.Author,
		nullString(book.Notes),
		string(book.Status),
		nullString(string(book.ConsumptionType)),
		nullString(book.ListenPlatform),
		nullString(book.ReadFormat),
		nullString(book.RecommendedBy),
		nullIntPtr(book.Priority),
		book.Position,
		formatTime(book.UpdatedAt),
		nullTimeString(book.CompletedAt),
		boolToInt(book.IsPublic),
		book.ID,
		book.UserID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteBook deletes a book owned by the given user. Shelf rows pointing
// at it go with it via ON DELETE CASCADE.
func (s *Store) DeleteBook(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM books WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// NextPosition returns the position for a book appended to the end of a
// (user, status) list: max+1, or 0 for an empty list.
func (s *Store) NextPosition(ctx context.Context, userID string, status domain.BookStatus) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(position) FROM books WHERE user_id = ? AND status = ?`,
		userID, string(status)).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// SetBookPriority assigns a priority slot to a want-to-read book,
// clearing any previous holder of that slot in the same transaction.
func (s *Store) SetBookPriority(ctx context.Context, userID, bookID string, priority int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := formatTime(time.Now())

	// Evict the current slot holder, if any.
	_, err = tx.ExecContext(ctx, `
		UPDATE books SET priority = NULL, updated_at = ?
		WHERE user_id = ? AND priority = ? AND id != ?`,
		now, userID, priority, bookID)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE books SET priority = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		priority, now, bookID, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	return tx.Commit()
}

// UpdateBookPosition writes a single book's position.
func (s *Store) UpdateBookPosition(ctx context.Context, userID, bookID string, position int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET position = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		position, formatTime(time.Now()), bookID, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
