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

// requestColumns must match the scan order in scanRequest.
const requestColumns = `id, from_user_id, to_user_id, note, status, created_at, updated_at`

// scanRequest scans a row into a domain.RecommendationRequest.
func scanRequest(scanner interface{ Scan(dest ...any) error }) (*domain.RecommendationRequest, error) {
	var req domain.RecommendationRequest

	var (
		toUserID  sql.NullString
		note      sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&req.ID,
		&req.FromUserID,
		&toUserID,
		&note,
		&req.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if toUserID.Valid {
		req.ToUserID = &toUserID.String
	}
	req.Note = note.String

	req.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	req.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &req, nil
}

// CreateRequest inserts a new recommendation request.
func (s *Store) CreateRequest(ctx context.Context, req *domain.RecommendationRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recommendation_requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID,
		req.FromUserID,
		nullableString(req.ToUserID),
		nullString(req.Note),
		string(req.Status),
		formatTime(req.CreatedAt),
		formatTime(req.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetRequest retrieves a recommendation request by ID.
func (s *Store) GetRequest(ctx context.Context, id string) (*domain.RecommendationRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM recommendation_requests WHERE id = ?`, id)

	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// UpdateRequest writes a request's status.
func (s *Store) UpdateRequest(ctx context.Context, req *domain.RecommendationRequest) error {
	req.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE recommendation_requests SET status = ?, updated_at = ? WHERE id = ?`,
		string(req.Status),
		formatTime(req.UpdatedAt),
		req.ID,
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

// ListRequestsIncoming returns open requests visible to a user: those
// addressed to them directly, plus broadcasts from their circle.
// Newest first.
func (s *Store) ListRequestsIncoming(ctx context.Context, userID string) ([]*domain.RecommendationRequest, error) {
	return s.listRequests(ctx, `
		SELECT `+prefixColumns("r", requestColumns)+`
		FROM recommendation_requests r
		WHERE r.status = 'open' AND r.from_user_id != ?
		  AND (r.to_user_id = ?
		    OR (r.to_user_id IS NULL AND EXISTS (
		        SELECT 1 FROM connections c
		        WHERE (c.user_a_id = r.from_user_id AND c.user_b_id = ?)
		           OR (c.user_b_id = r.from_user_id AND c.user_a_id = ?))))
		ORDER BY r.created_at DESC`,
		userID, userID, userID, userID)
}

// ListRequestsMine returns every request a user has sent regardless of
// status, newest first.
func (s *Store) ListRequestsMine(ctx context.Context, userID string) ([]*domain.RecommendationRequest, error) {
	return s.listRequests(ctx,
		`SELECT `+requestColumns+` FROM recommendation_requests
		 WHERE from_user_id = ? ORDER BY created_at DESC`, userID)
}

func (s *Store) listRequests(ctx context.Context, query string, args ...any) ([]*domain.RecommendationRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*domain.RecommendationRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
