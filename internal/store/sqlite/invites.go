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

// inviteColumns is the ordered list of columns selected in invite queries.
// Must match the scan order in scanInvite.
const inviteColumns = `id, from_user_id, to_user_id, status, created_at, updated_at`

// scanInvite scans a row into a domain.CircleInvite.
func scanInvite(scanner interface{ Scan(dest ...any) error }) (*domain.CircleInvite, error) {
	var inv domain.CircleInvite

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&inv.ID,
		&inv.FromUserID,
		&inv.ToUserID,
		&inv.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	inv.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

// CreateInvite inserts a new circle invite.
// Returns store.ErrAlreadyExists if a pending invite already exists
// between the pair in either direction (partial unique index).
func (s *Store) CreateInvite(ctx context.Context, invite *domain.CircleInvite) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO circle_invites (`+inviteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		invite.ID,
		invite.FromUserID,
		invite.ToUserID,
		string(invite.Status),
		formatTime(invite.CreatedAt),
		formatTime(invite.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetInvite retrieves an invite by ID.
func (s *Store) GetInvite(ctx context.Context, id string) (*domain.CircleInvite, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM circle_invites WHERE id = ?`, id)

	inv, err := scanInvite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateInvite writes an invite's status.
func (s *Store) UpdateInvite(ctx context.Context, invite *domain.CircleInvite) error {
	invite.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE circle_invites SET status = ?, updated_at = ? WHERE id = ?`,
		string(invite.Status),
		formatTime(invite.UpdatedAt),
		invite.ID,
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

// ListInvitesReceived returns pending invites addressed to a user,
// newest first.
func (s *Store) ListInvitesReceived(ctx context.Context, userID string) ([]*domain.CircleInvite, error) {
	return s.listInvites(ctx,
		`SELECT `+inviteColumns+` FROM circle_invites
		 WHERE to_user_id = ? AND status = 'pending'
		 ORDER BY created_at DESC`, userID)
}

// ListInvitesSent returns pending invites a user has sent, newest first.
func (s *Store) ListInvitesSent(ctx context.Context, userID string) ([]*domain.CircleInvite, error) {
	return s.listInvites(ctx,
		`SELECT `+inviteColumns+` FROM circle_invites
		 WHERE from_user_id = ? AND status = 'pending'
		 ORDER BY created_at DESC`, userID)
}

func (s *Store) listInvites(ctx context.Context, query string, args ...any) ([]*domain.CircleInvite, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*domain.CircleInvite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// HasPendingInviteBetween reports whether a pending invite exists between
// two users in either direction.
func (s *Store) HasPendingInviteBetween(ctx context.Context, userA, userB string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM circle_invites
		WHERE status = 'pending'
		  AND ((from_user_id = ? AND to_user_id = ?)
		    OR (from_user_id = ? AND to_user_id = ?))`,
		userA, userB, userB, userA).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AcceptInvite marks an invite accepted and inserts the resulting
// connection in a single transaction.
func (s *Store) AcceptInvite(ctx context.Context, invite *domain.CircleInvite, conn *domain.Connection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	invite.UpdatedAt = time.Now()

	res, err := tx.ExecContext(ctx, `
		UPDATE circle_invites SET status = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		string(domain.InviteAccepted),
		formatTime(invite.UpdatedAt),
		invite.ID,
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

	_, err = tx.ExecContext(ctx, `
		INSERT INTO connections (id, user_a_id, user_b_id, created_at)
		VALUES (?, ?, ?, ?)`,
		conn.ID,
		conn.UserAID,
		conn.UserBID,
		formatTime(conn.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	invite.Status = domain.InviteAccepted
	return tx.Commit()
}
