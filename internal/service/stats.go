package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/store"
)

// StatsService computes reading statistics from a user's lists.
type StatsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// GetReadingStats returns list counts, the finished-per-year histogram,
// and the read/listen split for finished books.
func (s *StatsService) GetReadingStats(ctx context.Context, userID string) (*domain.ReadingStats, error) {
	stats, err := s.store.GetReadingStats(ctx, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("get reading stats: %w", err)
	}
	return stats, nil
}
