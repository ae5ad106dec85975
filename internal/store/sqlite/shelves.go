package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/store"
)

// shelfColumns must match the scan order in scanShelfItem.
const shelfColumns = `id, user_id, book_id, position, created_at`

// scanShelfItem scans a row into a domain.PublicShelfItem.
func scanShelfItem(scanner interface{ Scan(dest ...any) error }) (*domain.PublicShelfItem, error) {
	var item domain.PublicShelfItem

	var createdAt string

	err := scanner.Scan(&item.ID, &item.UserID, &item.BookID, &item.Position, &createdAt)
	if err != nil {
		return nil, err
	}

	item.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// ListShelfItems returns a user's shelf rows ordered by position.
func (s *Store) ListShelfItems(ctx context.Context, userID string) ([]*domain.PublicShelfItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shelfColumns+` FROM public_shelf
		 WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.PublicShelfItem
	for rows.Next() {
		item, err := scanShelfItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListShelfEntries returns a user's shelf joined with book details,
// ordered by position.
func (s *Store) ListShelfEntries(ctx context.Context, userID string) ([]*domain.ShelfEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ps.position, `+prefixColumns("b", bookColumns)+`
		FROM public_shelf ps
		JOIN books b ON b.id = ps.book_id
		WHERE ps.user_id = ?
		ORDER BY ps.position`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ShelfEntry
	for rows.Next() {
		entry, err := scanShelfEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// scanShelfEntry scans a position column followed by the book columns.
func scanShelfEntry(rows *sql.Rows) (*domain.ShelfEntry, error) {
	var entry domain.ShelfEntry
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

	err := rows.Scan(
		&entry.Position,
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

	entry.Book = &b
	return &entry, nil
}

// prefixColumns qualifies each column in a comma-separated list with a
// table alias for use in joins.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// PlaceShelfItem puts a book at a shelf position. The occupant of the
// position (if different) is evicted, and a book already shelved
// elsewhere is moved rather than duplicated. All in one transaction.
func (s *Store) PlaceShelfItem(ctx context.Context, item *domain.PublicShelfItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Evict whatever currently holds the position.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM public_shelf
		WHERE user_id = ? AND position = ? AND book_id != ?`,
		item.UserID, item.Position, item.BookID)
	if err != nil {
		return err
	}

	// Move the book if it is already shelved at another position.
	res, err := tx.ExecContext(ctx, `
		UPDATE public_shelf SET position = ?
		WHERE user_id = ? AND book_id = ?`,
		item.Position, item.UserID, item.BookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO public_shelf (`+shelfColumns+`)
			VALUES (?, ?, ?, ?, ?)`,
			item.ID,
			item.UserID,
			item.BookID,
			item.Position,
			formatTime(item.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RemoveShelfItem deletes a book from a user's shelf.
func (s *Store) RemoveShelfItem(ctx context.Context, userID, bookID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM public_shelf WHERE user_id = ? AND book_id = ?`, userID, bookID)
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
