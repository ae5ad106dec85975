package sqlite

import (
	"context"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
)

// GetReadingStats aggregates a user's list counts and finishing history.
// now anchors the "finished this year" window.
func (s *Store) GetReadingStats(ctx context.Context, userID string, now time.Time) (*domain.ReadingStats, error) {
	stats := &domain.ReadingStats{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM books WHERE user_id = ? GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch domain.BookStatus(status) {
		case domain.StatusWantToRead:
			stats.WantToRead = count
		case domain.StatusCurrentlyReading:
			stats.CurrentlyReading = count
		case domain.StatusHaveRead:
			stats.HaveRead = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Timestamps are stored RFC3339 in UTC, so the year is the prefix.
	yearRows, err := s.db.QueryContext(ctx, `
		SELECT CAST(substr(completed_at, 1, 4) AS INTEGER) AS year, COUNT(*)
		FROM books
		WHERE user_id = ? AND status = ? AND completed_at IS NOT NULL
		GROUP BY year
		ORDER BY year DESC`, userID, string(domain.StatusHaveRead))
	if err != nil {
		return nil, err
	}
	defer yearRows.Close()

	thisYear := now.UTC().Year()
	for yearRows.Next() {
		var yc domain.YearCount
		if err := yearRows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, err
		}
		stats.FinishedByYear = append(stats.FinishedByYear, yc)
		if yc.Year == thisYear {
			stats.FinishedThisYear = yc.Count
		}
	}
	if err := yearRows.Err(); err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN consumption_type = ? THEN 1 END),
			COUNT(CASE WHEN consumption_type = ? THEN 1 END)
		FROM books
		WHERE user_id = ? AND status = ?`,
		string(domain.ConsumptionRead),
		string(domain.ConsumptionListen),
		userID,
		string(domain.StatusHaveRead),
	).Scan(&stats.ReadCount, &stats.ListenCount)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
