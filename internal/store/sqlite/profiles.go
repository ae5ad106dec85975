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

// profileColumns is the ordered list of columns selected in profile queries.
// Must match the scan order in scanProfile.
const profileColumns = `id, user_id, username, display_name, created_at, updated_at`

// scanProfile scans a row into a domain.Profile.
func scanProfile(scanner interface{ Scan(dest ...any) error }) (*domain.Profile, error) {
	var p domain.Profile

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.Username,
		&p.DisplayName,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreateProfile inserts a new profile.
// Returns store.ErrAlreadyExists if the user already has one or the
// username is taken.
func (s *Store) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		profile.ID,
		profile.UserID,
		profile.Username,
		profile.DisplayName,
		formatTime(profile.CreatedAt),
		formatTime(profile.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetProfileByUserID retrieves the profile belonging to a user.
func (s *Store) GetProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfileByUsername retrieves a profile by its unique username.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = ?`, username)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfilesByUserIDs fetches profiles for a batch of user IDs in one
// query. Missing profiles are simply absent from the result map.
func (s *Store) GetProfilesByUserIDs(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	result := make(map[string]*domain.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(userIDs)-1) + "?"
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result[p.UserID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateProfile updates a profile's display name.
// The username is immutable once chosen.
func (s *Store) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	profile.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET display_name = ?, updated_at = ?
		WHERE user_id = ?`,
		profile.DisplayName,
		formatTime(profile.UpdatedAt),
		profile.UserID,
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

// UsernameTaken reports whether a username is already claimed.
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
