package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	domainerrors "github.com/nextchapterapp/nextchapter-server/internal/errors"
	"github.com/nextchapterapp/nextchapter-server/internal/id"
	"github.com/nextchapterapp/nextchapter-server/internal/store"
)

// RecommendationService is the messaging overlay on the circle: book
// recommendations and requests for them. It never touches book lists
// itself; the import-on-accept side effect belongs to the caller.
type RecommendationService struct {
	store  store.Store
	logger *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(store store.Store, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{
		store:  store,
		logger: logger,
	}
}

// SendRecommendationRequest contains a new recommendation.
type SendRecommendationRequest struct {
	ToUserID   string `json:"to_user_id" validate:"required"`
	BookTitle  string `json:"book_title" validate:"required,max=500"`
	BookAuthor string `json:"book_author" validate:"required,max=500"`
	Note       string `json:"note" validate:"max=1000"`
}

// Send creates a pending recommendation addressed to another user.
// Circle membership is not enforced here; the UI restricts the picker.
func (s *RecommendationService) Send(ctx context.Context, fromUserID string, req SendRecommendationRequest) (*domain.Recommendation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if req.ToUserID == fromUserID {
		return nil, domainerrors.Validation("cannot recommend a book to yourself")
	}

	recID, err := id.Generate("rec")
	if err != nil {
		return nil, fmt.Errorf("generate recommendation ID: %w", err)
	}

	now := time.Now()
	rec := &domain.Recommendation{
		ID:         recID,
		FromUserID: fromUserID,
		ToUserID:   req.ToUserID,
		BookTitle:  req.BookTitle,
		BookAuthor: req.BookAuthor,
		Note:       req.Note,
		Status:     domain.RecommendationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateRecommendation(ctx, rec); err != nil {
		return nil, fmt.Errorf("create recommendation: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Recommendation sent", "rec_id", recID, "from", fromUserID, "to", req.ToUserID)
	}

	return rec, nil
}

// Respond transitions a pending recommendation to added or dismissed.
// Only the recipient may respond; the transition is terminal.
func (s *RecommendationService) Respond(ctx context.Context, userID, recID string, outcome domain.RecommendationStatus) (*domain.Recommendation, error) {
	if outcome != domain.RecommendationAdded && outcome != domain.RecommendationDismissed {
		return nil, domainerrors.Validationf("outcome must be %s or %s", domain.RecommendationAdded, domain.RecommendationDismissed)
	}

	rec, err := s.store.GetRecommendation(ctx, recID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recommendation not found")
		}
		return nil, fmt.Errorf("get recommendation: %w", err)
	}

	if rec.ToUserID != userID {
		return nil, domainerrors.Forbidden("only the recipient can respond to a recommendation")
	}
	if rec.Status != domain.RecommendationPending {
		return nil, domainerrors.Conflict("recommendation already resolved")
	}

	rec.Status = outcome
	if err := s.store.UpdateRecommendation(ctx, rec); err != nil {
		return nil, fmt.Errorf("update recommendation: %w", err)
	}
	return rec, nil
}

// ListIncoming returns recommendations addressed to the caller, newest
// first, with sender profiles attached in one batch.
func (s *RecommendationService) ListIncoming(ctx context.Context, userID string) ([]*domain.IncomingRecommendation, error) {
	recs, err := s.store.ListRecommendationsIncoming(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incoming recommendations: %w", err)
	}

	senderIDs := make([]string, 0, len(recs))
	for _, r := range recs {
		senderIDs = append(senderIDs, r.FromUserID)
	}
	profiles, err := s.store.GetProfilesByUserIDs(ctx, senderIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch sender profiles: %w", err)
	}

	result := make([]*domain.IncomingRecommendation, 0, len(recs))
	for _, r := range recs {
		result = append(result, &domain.IncomingRecommendation{
			Recommendation: *r,
			From:           profiles[r.FromUserID],
		})
	}
	return result, nil
}

// ListSent returns recommendations the caller has sent, newest first.
func (s *RecommendationService) ListSent(ctx context.Context, userID string) ([]*domain.Recommendation, error) {
	recs, err := s.store.ListRecommendationsSent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sent recommendations: %w", err)
	}
	return recs, nil
}

// CreateRequestInput contains a new recommendation request. An empty
// ToUserID broadcasts to the sender's whole circle.
type CreateRequestInput struct {
	ToUserID string `json:"to_user_id"`
	Note     string `json:"note" validate:"max=1000"`
}

// Request creates an open recommendation request.
func (s *RecommendationService) Request(ctx context.Context, fromUserID string, input CreateRequestInput) (*domain.RecommendationRequest, error) {
	if err := validate.Struct(input); err != nil {
		return nil, formatValidationError(err)
	}
	if input.ToUserID == fromUserID {
		return nil, domainerrors.Validation("cannot request a recommendation from yourself")
	}

	reqID, err := id.Generate("req")
	if err != nil {
		return nil, fmt.Errorf("generate request ID: %w", err)
	}

	now := time.Now()
	req := &domain.RecommendationRequest{
		ID:         reqID,
		FromUserID: fromUserID,
		Note:       input.Note,
		Status:     domain.RequestOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.ToUserID != "" {
		req.ToUserID = &input.ToUserID
	}

	if err := s.store.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Recommendation request created",
			"request_id", reqID,
			"from", fromUserID,
			"broadcast", req.Broadcast(),
		)
	}

	return req, nil
}

// CloseRequest transitions a request to closed. Sender-only.
func (s *RecommendationService) CloseRequest(ctx context.Context, userID, requestID string) error {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("request not found")
		}
		return fmt.Errorf("get request: %w", err)
	}

	if req.FromUserID != userID {
		return domainerrors.Forbidden("only the sender can close a request")
	}
	if req.Status != domain.RequestOpen {
		return domainerrors.Conflict("request already closed")
	}

	req.Status = domain.RequestClosed
	if err := s.store.UpdateRequest(ctx, req); err != nil {
		return fmt.Errorf("close request: %w", err)
	}
	return nil
}

// ListIncomingRequests returns open requests visible to the caller:
// addressed directly, or broadcast by a circle member. Newest first,
// sender profiles attached.
func (s *RecommendationService) ListIncomingRequests(ctx context.Context, userID string) ([]*domain.IncomingRequest, error) {
	reqs, err := s.store.ListRequestsIncoming(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}

	senderIDs := make([]string, 0, len(reqs))
	for _, r := range reqs {
		senderIDs = append(senderIDs, r.FromUserID)
	}
	profiles, err := s.store.GetProfilesByUserIDs(ctx, senderIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch sender profiles: %w", err)
	}

	result := make([]*domain.IncomingRequest, 0, len(reqs))
	for _, r := range reqs {
		result = append(result, &domain.IncomingRequest{
			RecommendationRequest: *r,
			From:                  profiles[r.FromUserID],
		})
	}
	return result, nil
}

// ListMyRequests returns every request the caller has sent, newest first.
func (s *RecommendationService) ListMyRequests(ctx context.Context, userID string) ([]*domain.RecommendationRequest, error) {
	reqs, err := s.store.ListRequestsMine(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list my requests: %w", err)
	}
	return reqs, nil
}
