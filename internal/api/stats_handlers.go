package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nextchapterapp/nextchapter-server/internal/domain"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getReadingStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get reading stats",
		Description: "Returns list counts and finishing history for the caller",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetReadingStats)
}

// === DTOs ===

// YearCountResponse is a finished-book count for one calendar year.
type YearCountResponse struct {
	Year  int `json:"year" doc:"Calendar year"`
	Count int `json:"count" doc:"Books finished that year"`
}

// ReadingStatsResponse contains reading statistics in API responses.
type ReadingStatsResponse struct {
	WantToRead       int                 `json:"want_to_read" doc:"Books on the want-to-read list"`
	CurrentlyReading int                 `json:"currently_reading" doc:"Books being read now"`
	HaveRead         int                 `json:"have_read" doc:"Books finished"`
	TotalBooks       int                 `json:"total_books" doc:"Books across all three lists"`
	FinishedThisYear int                 `json:"finished_this_year" doc:"Books finished this calendar year"`
	FinishedByYear   []YearCountResponse `json:"finished_by_year" doc:"Finishing history, most recent year first"`
	ReadCount        int                 `json:"read_count" doc:"Finished books consumed by reading"`
	ListenCount      int                 `json:"listen_count" doc:"Finished books consumed by listening"`
}

// ReadingStatsOutput wraps the stats response for Huma.
type ReadingStatsOutput struct {
	Body ReadingStatsResponse
}

// === Handlers ===

func (s *Server) handleGetReadingStats(ctx context.Context, _ *struct{}) (*ReadingStatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.GetReadingStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ReadingStatsOutput{Body: mapReadingStatsResponse(stats)}, nil
}

// === Helpers ===

func mapReadingStatsResponse(stats *domain.ReadingStats) ReadingStatsResponse {
	byYear := make([]YearCountResponse, len(stats.FinishedByYear))
	for i, yc := range stats.FinishedByYear {
		byYear[i] = YearCountResponse{Year: yc.Year, Count: yc.Count}
	}

	return ReadingStatsResponse{
		WantToRead:       stats.WantToRead,
		CurrentlyReading: stats.CurrentlyReading,
		HaveRead:         stats.HaveRead,
		TotalBooks:       stats.TotalBooks(),
		FinishedThisYear: stats.FinishedThisYear,
		FinishedByYear:   byYear,
		ReadCount:        stats.ReadCount,
		ListenCount:      stats.ListenCount,
	}
}
