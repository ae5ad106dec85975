package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/service"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "sendRecommendation",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommendations",
		Summary:     "Send recommendation",
		Description: "Recommends a book to another user",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSendRecommendation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listIncomingRecommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/incoming",
		Summary:     "List incoming recommendations",
		Description: "Returns recommendations addressed to the caller, newest first",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListIncomingRecommendations)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSentRecommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/sent",
		Summary:     "List sent recommendations",
		Description: "Returns recommendations the caller has sent, newest first",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSentRecommendations)

	huma.Register(s.api, huma.Operation{
		OperationID: "respondToRecommendation",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommendations/{id}/respond",
		Summary:     "Respond to recommendation",
		Description: "Adds or dismisses a pending recommendation, optionally importing the book",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRespondToRecommendation)

	huma.Register(s.api, huma.Operation{
		OperationID: "createRecommendationRequest",
		Method:      http.MethodPost,
		Path:        "/api/v1/requests",
		Summary:     "Request recommendations",
		Description: "Asks one user or the whole circle for book recommendations",
		Tags:        []string{"Requests"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRequest)

	huma.Register(s.api, huma.Operation{
		OperationID: "listIncomingRequests",
		Method:      http.MethodGet,
		Path:        "/api/v1/requests/incoming",
		Summary:     "List incoming requests",
		Description: "Returns open requests addressed to the caller or broadcast by circle members",
		Tags:        []string{"Requests"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListIncomingRequests)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyRequests",
		Method:      http.MethodGet,
		Path:        "/api/v1/requests/mine",
		Summary:     "List my requests",
		Description: "Returns every request the caller has sent",
		Tags:        []string{"Requests"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyRequests)

	huma.Register(s.api, huma.Operation{
		OperationID: "closeRequest",
		Method:      http.MethodPost,
		Path:        "/api/v1/requests/{id}/close",
		Summary:     "Close request",
		Description: "Closes an open request. Only the sender may close it.",
		Tags:        []string{"Requests"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCloseRequest)
}

// === DTOs ===

// RecommendationResponse contains recommendation data in API responses.
type RecommendationResponse struct {
	ID         string           `json:"id" doc:"Recommendation ID"`
	FromUserID string           `json:"from_user_id" doc:"Sender user ID"`
	ToUserID   string           `json:"to_user_id" doc:"Recipient user ID"`
	BookTitle  string           `json:"book_title" doc:"Recommended book title"`
	BookAuthor string           `json:"book_author" doc:"Recommended book author"`
	Note       string           `json:"note,omitempty" doc:"Personal note"`
	Status     string           `json:"status" doc:"pending, added, or dismissed"`
	From       *ProfileResponse `json:"from,omitempty" doc:"Sender profile, on incoming items"`
	CreatedAt  time.Time        `json:"created_at" doc:"Creation timestamp"`
}

// SendRecommendationRequest is the request body for sending a recommendation.
type SendRecommendationRequest struct {
	ToUserID   string `json:"to_user_id" validate:"required" doc:"Recipient user ID"`
	BookTitle  string `json:"book_title" validate:"required,max=500" doc:"Book title"`
	BookAuthor string `json:"book_author" validate:"required,max=500" doc:"Book author"`
	Note       string `json:"note,omitempty" validate:"max=1000" doc:"Personal note"`
}

// SendRecommendationInput wraps the send recommendation request for Huma.
type SendRecommendationInput struct {
	Body SendRecommendationRequest
}

// RecommendationOutput wraps a single recommendation for Huma.
type RecommendationOutput struct {
	Body RecommendationResponse
}

// ListRecommendationsResponse contains recommendations.
type ListRecommendationsResponse struct {
	Recommendations []RecommendationResponse `json:"recommendations" doc:"Recommendations, newest first"`
}

// ListRecommendationsOutput wraps the list response for Huma.
type ListRecommendationsOutput struct {
	Body ListRecommendationsResponse
}

// RespondToRecommendationRequest is the request body for responding.
type RespondToRecommendationRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=added dismissed" doc:"added or dismissed"`
	Import  bool   `json:"import,omitempty" doc:"When adding, also create the book on the want-to-read list"`
}

// RespondToRecommendationInput wraps the respond request for Huma.
type RespondToRecommendationInput struct {
	ID   string `path:"id" doc:"Recommendation ID"`
	Body RespondToRecommendationRequest
}

// RespondToRecommendationResponse contains the resolved recommendation
// and the imported book, when one was created.
type RespondToRecommendationResponse struct {
	Recommendation RecommendationResponse `json:"recommendation" doc:"Resolved recommendation"`
	Book           *BookResponse          `json:"book,omitempty" doc:"Imported book, when requested"`
}

// RespondToRecommendationOutput wraps the respond response for Huma.
type RespondToRecommendationOutput struct {
	Body RespondToRecommendationResponse
}

// RequestResponse contains recommendation request data in API responses.
type RequestResponse struct {
	ID         string           `json:"id" doc:"Request ID"`
	FromUserID string           `json:"from_user_id" doc:"Sender user ID"`
	ToUserID   *string          `json:"to_user_id,omitempty" doc:"Target user ID, absent for circle broadcasts"`
	Note       string           `json:"note,omitempty" doc:"What the sender is looking for"`
	Status     string           `json:"status" doc:"open, fulfilled, or closed"`
	From       *ProfileResponse `json:"from,omitempty" doc:"Sender profile, on incoming items"`
	CreatedAt  time.Time        `json:"created_at" doc:"Creation timestamp"`
}

// CreateRequestRequest is the request body for creating a request.
// Leaving to_user_id empty broadcasts to the sender's whole circle.
type CreateRequestRequest struct {
	ToUserID string `json:"to_user_id,omitempty" doc:"Target user ID, empty for a circle broadcast"`
	Note     string `json:"note,omitempty" validate:"max=1000" doc:"What the sender is looking for"`
}

// CreateRequestInput wraps the create request body for Huma.
type CreateRequestInput struct {
	Body CreateRequestRequest
}

// RequestOutput wraps a single request for Huma.
type RequestOutput struct {
	Body RequestResponse
}

// ListRequestsResponse contains recommendation requests.
type ListRequestsResponse struct {
	Requests []RequestResponse `json:"requests" doc:"Requests, newest first"`
}

// ListRequestsOutput wraps the list response for Huma.
type ListRequestsOutput struct {
	Body ListRequestsResponse
}

// CloseRequestInput contains parameters for closing a request.
type CloseRequestInput struct {
	ID string `path:"id" doc:"Request ID"`
}

// === Handlers ===

func (s *Server) handleSendRecommendation(ctx context.Context, input *SendRecommendationInput) (*RecommendationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.services.Recommendation.Send(ctx, userID, service.SendRecommendationRequest{
		ToUserID:   input.Body.ToUserID,
		BookTitle:  input.Body.BookTitle,
		BookAuthor: input.Body.BookAuthor,
		Note:       input.Body.Note,
	})
	if err != nil {
		return nil, err
	}

	return &RecommendationOutput{Body: mapRecommendationResponse(rec, nil)}, nil
}

func (s *Server) handleListIncomingRecommendations(ctx context.Context, _ *struct{}) (*ListRecommendationsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := s.services.Recommendation.ListIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]RecommendationResponse, len(recs))
	for i, r := range recs {
		resp[i] = mapRecommendationResponse(&r.Recommendation, r.From)
	}

	return &ListRecommendationsOutput{Body: ListRecommendationsResponse{Recommendations: resp}}, nil
}

func (s *Server) handleListSentRecommendations(ctx context.Context, _ *struct{}) (*ListRecommendationsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := s.services.Recommendation.ListSent(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]RecommendationResponse, len(recs))
	for i, r := range recs {
		resp[i] = mapRecommendationResponse(r, nil)
	}

	return &ListRecommendationsOutput{Body: ListRecommendationsResponse{Recommendations: resp}}, nil
}

func (s *Server) handleRespondToRecommendation(ctx context.Context, input *RespondToRecommendationInput) (*RespondToRecommendationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.services.Recommendation.Respond(ctx, userID, input.ID, domain.RecommendationStatus(input.Body.Outcome))
	if err != nil {
		return nil, err
	}

	resp := RespondToRecommendationResponse{
		Recommendation: mapRecommendationResponse(rec, nil),
	}

	// Import is a convenience on top of the accept flow: the book lands
	// at the end of the want-to-read list with attribution.
	if input.Body.Import && rec.Status == domain.RecommendationAdded {
		attribution := "A friend"
		if from, err := s.services.Profile.Get(ctx, rec.FromUserID); err == nil && from.DisplayName != "" {
			attribution = from.DisplayName
		}

		book, err := s.services.BookList.Add(ctx, userID, service.AddBookRequest{
			Title:         rec.BookTitle,
			Author:        rec.BookAuthor,
			Status:        string(domain.StatusWantToRead),
			RecommendedBy: attribution,
		})
		if err != nil {
			return nil, err
		}
		mapped := mapBookResponse(book)
		resp.Book = &mapped
	}

	return &RespondToRecommendationOutput{Body: resp}, nil
}

func (s *Server) handleCreateRequest(ctx context.Context, input *CreateRequestInput) (*RequestOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req, err := s.services.Recommendation.Request(ctx, userID, service.CreateRequestInput{
		ToUserID: input.Body.ToUserID,
		Note:     input.Body.Note,
	})
	if err != nil {
		return nil, err
	}

	return &RequestOutput{Body: mapRequestResponse(req, nil)}, nil
}

func (s *Server) handleListIncomingRequests(ctx context.Context, _ *struct{}) (*ListRequestsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reqs, err := s.services.Recommendation.ListIncomingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]RequestResponse, len(reqs))
	for i, r := range reqs {
		resp[i] = mapRequestResponse(&r.RecommendationRequest, r.From)
	}

	return &ListRequestsOutput{Body: ListRequestsResponse{Requests: resp}}, nil
}

func (s *Server) handleListMyRequests(ctx context.Context, _ *struct{}) (*ListRequestsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reqs, err := s.services.Recommendation.ListMyRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]RequestResponse, len(reqs))
	for i, r := range reqs {
		resp[i] = mapRequestResponse(r, nil)
	}

	return &ListRequestsOutput{Body: ListRequestsResponse{Requests: resp}}, nil
}

func (s *Server) handleCloseRequest(ctx context.Context, input *CloseRequestInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recommendation.CloseRequest(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Request closed"}}, nil
}

// === Helpers ===

func mapRecommendationResponse(r *domain.Recommendation, from *domain.Profile) RecommendationResponse {
	resp := RecommendationResponse{
		ID:         r.ID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		BookTitle:  r.BookTitle,
		BookAuthor: r.BookAuthor,
		Note:       r.Note,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
	}
	if from != nil {
		mapped := mapProfileResponse(from)
		resp.From = &mapped
	}
	return resp
}

func mapRequestResponse(r *domain.RecommendationRequest, from *domain.Profile) RequestResponse {
	resp := RequestResponse{
		ID:         r.ID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Note:       r.Note,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
	}
	if from != nil {
		mapped := mapProfileResponse(from)
		resp.From = &mapped
	}
	return resp
}
