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

// recommendationColumns must match the scan order in scanRecommendation.
const recommendationColumns = `id, from_user_id, to_user_id, book_title, book_author, note, status, created_at, updated_at`

// scanRecommendation scans a row into a domain.Recommendation.
func scanRecommendation(scanner interface{ Scan(dest ...any) error }) (*domain.Recommendation, error) {
	var rec domain.Recommendation

	var (
		note      sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&rec.ID,
		&rec.FromUserID,
		&rec.ToUserID,
		&rec.BookTitle,
		&rec.BookAuthor,
		&note,
		&rec.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Note = note.String

	rec.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	rec.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// CreateRecommendation inserts a new recommendation.
func (s *Store) CreateRecommendation(ctx context.Context, rec *domain.Recommendation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recommendations (`+recommendationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.FromUserID,
		rec.ToUserID,
		rec.BookTitle,
		rec.BookAuthor,
		nullString(rec.Note),
		string(rec.Status),
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetRecommendation retrieves a recommendation by ID.
func (s *Store) GetRecommendation(ctx context.Context, id string) (*domain.Recommendation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations WHERE id = ?`, id)

	rec, err := scanRecommendation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateRecommendation writes a recommendation's status.
func (s *Store) UpdateRecommendation(ctx context.Context, rec *domain.Recommendation) error {
	rec.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE recommendations SET status = ?, updated_at = ? WHERE id = ?`,
		string(rec.Status),
		formatTime(rec.UpdatedAt),
		rec.ID,
	)
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

// ListRecommendationsIncoming returns recommendations addressed to a
// user, newest first.
func (s *Store) ListRecommendationsIncoming(ctx context.Context, userID string) ([]*domain.Recommendation, error) {
	return s.listRecommendations(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations
		 WHERE to_user_id = ? ORDER BY created_at DESC`, userID)
}

// ListRecommendationsSent returns recommendations a user has sent,
// newest first.
func (s *Store) ListRecommendationsSent(ctx context.Context, userID string) ([]*domain.Recommendation, error) {
	return s.listRecommendations(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations
		 WHERE from_user_id = ? ORDER BY created_at DESC`, userID)
}

func (s *Store) listRecommendations(ctx context.Context, query string, args ...any) ([]*domain.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*domain.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
