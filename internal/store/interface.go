// Package store defines the persistence interface for the NextChapter server.
package store

import (
	"context"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Profiles
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error)
	GetProfilesByUserIDs(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	UsernameTaken(ctx context.Context, username string) (bool, error)

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, userID, id string) (*domain.Book, error)
	ListBooks(ctx context.Context, userID string, status domain.BookStatus) ([]*domain.Book, error)
	ListPriorityBooks(ctx context.Context, userID string) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, userID, id string) error
	NextPosition(ctx context.Context, userID string, status domain.BookStatus) (int, error)
	SetBookPriority(ctx context.Context, userID, bookID string, priority int) error
	UpdateBookPosition(ctx context.Context, userID, bookID string, position int) error

	// Circle invites and connections
	CreateInvite(ctx context.Context, invite *domain.CircleInvite) error
	GetInvite(ctx context.Context, id string) (*domain.CircleInvite, error)
	UpdateInvite(ctx context.Context, invite *domain.CircleInvite) error
	ListInvitesReceived(ctx context.Context, userID string) ([]*domain.CircleInvite, error)
	ListInvitesSent(ctx context.Context, userID string) ([]*domain.CircleInvite, error)
	HasPendingInviteBetween(ctx context.Context, userA, userB string) (bool, error)
	AcceptInvite(ctx context.Context, invite *domain.CircleInvite, conn *domain.Connection) error
	ListConnections(ctx context.Context, userID string) ([]*domain.Connection, error)
	AreConnected(ctx context.Context, userA, userB string) (bool, error)
	DeleteConnection(ctx context.Context, userA, userB string) error

	// Public shelf
	ListShelfItems(ctx context.Context, userID string) ([]*domain.PublicShelfItem, error)
	ListShelfEntries(ctx context.Context, userID string) ([]*domain.ShelfEntry, error)
	PlaceShelfItem(ctx context.Context, item *domain.PublicShelfItem) error
	RemoveShelfItem(ctx context.Context, userID, bookID string) error

	// Recommendations
	CreateRecommendation(ctx context.Context, rec *domain.Recommendation) error
	GetRecommendation(ctx context.Context, id string) (*domain.Recommendation, error)
	UpdateRecommendation(ctx context.Context, rec *domain.Recommendation) error
	ListRecommendationsIncoming(ctx context.Context, userID string) ([]*domain.Recommendation, error)
	ListRecommendationsSent(ctx context.Context, userID string) ([]*domain.Recommendation, error)

	// Recommendation requests
	CreateRequest(ctx context.Context, req *domain.RecommendationRequest) error
	GetRequest(ctx context.Context, id string) (*domain.RecommendationRequest, error)
	UpdateRequest(ctx context.Context, req *domain.RecommendationRequest) error
	ListRequestsIncoming(ctx context.Context, userID string) ([]*domain.RecommendationRequest, error)
	ListRequestsMine(ctx context.Context, userID string) ([]*domain.RecommendationRequest, error)

	// Stats
	GetReadingStats(ctx context.Context, userID string, now time.Time) (*domain.ReadingStats, error)
}
