package api

import (
	"github.com/nextchapterapp/nextchapter-server/internal/search"
	"github.com/nextchapterapp/nextchapter-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth           *service.AuthService
	Session        *service.SessionService
	Profile        *service.ProfileService
	BookList       *service.BookListService
	Circle         *service.CircleService
	Recommendation *service.RecommendationService
	Shelf          *service.ShelfService
	Stats          *service.StatsService
	Search         *search.Client // Open Library book lookup
}
