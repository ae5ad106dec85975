package sqlite

import (
	"context"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/store"
)

// connectionColumns must match the scan order in scanConnection.
const connectionColumns = `id, user_a_id, user_b_id, created_at`

// scanConnection scans a row into a domain.Connection.
func scanConnection(scanner interface{ Scan(dest ...any) error }) (*domain.Connection, error) {
	var c domain.Connection

	var createdAt string

	err := scanner.Scan(&c.ID, &c.UserAID, &c.UserBID, &createdAt)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// ListConnections returns every connection a user is part of, oldest first.
func (s *Store) ListConnections(ctx context.Context, userID string) ([]*domain.Connection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+connectionColumns+` FROM connections
		 WHERE user_a_id = ? OR user_b_id = ?
		 ORDER BY created_at`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []*domain.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

// AreConnected reports whether two users share a connection.
func (s *Store) AreConnected(ctx context.Context, userA, userB string) (bool, error) {
	a, b := domain.OrderPair(userA, userB)

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM connections WHERE user_a_id = ? AND user_b_id = ?`,
		a, b).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteConnection removes the connection between two users.
func (s *Store) DeleteConnection(ctx context.Context, userA, userB string) error {
	a, b := domain.OrderPair(userA, userB)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM connections WHERE user_a_id = ? AND user_b_id = ?`, a, b)
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
