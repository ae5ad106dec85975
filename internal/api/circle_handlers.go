package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/service"
)

func (s *Server) registerCircleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCircleMembers",
		Method:      http.MethodGet,
		Path:        "/api/v1/circle",
		Summary:     "List circle members",
		Description: "Returns everyone in the caller's reading circle",
		Tags:        []string{"Circle"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCircleMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeCircleMember",
		Method:      http.MethodDelete,
		Path:        "/api/v1/circle/{userId}",
		Summary:     "Remove circle member",
		Description: "Removes the connection between the caller and another user",
		Tags:        []string{"Circle"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveCircleMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "sendCircleInvite",
		Method:      http.MethodPost,
		Path:        "/api/v1/circle/invites",
		Summary:     "Send circle invite",
		Description: "Invites another user to the caller's reading circle",
		Tags:        []string{"Circle"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSendCircleInvite)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCircleInvitesReceived",
		Method:      http.MethodGet,
		Path:        "/api/v1/circle/invites/received",
		Summary:     "List received invites",
		Description: "Returns pending invites addressed to the caller",
		Tags:        []string{"Circle"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCircleInvitesReceived)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCircleInvitesSent",
		Method:      http.MethodGet,
		Path:        "/api/v1/circle/invites/sent",
		Summary:     "List sent invites",
		Description: "Returns pending invites the caller has sent",
		Tags:        []string{"Circle"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCircleInvitesSent)

	huma.Register(s.api, huma.Operation{
		OperationID: "acceptCircleInvite",
		Method:      http.MethodPost,
		Path:        "/api/v1/circle/invites/{id}/accept",
		Summary:     "Accept circle invite",
		Description: "Accepts a pending invite, connecting both users",
		Tags:        []string{"Circle"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAcceptCircleInvite)

	huma.Register(s.api, huma.Operation{
		OperationID: "declineCircleInvite",
		Method:      http.MethodPost,
		Path:        "/api/v1/circle/invites/{id}/decline",
		Summary:     "Decline circle invite",
		Description: "Declines a pending invite without creating a connection",
		Tags:        []string{"Circle"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeclineCircleInvite)
}

// === DTOs ===

// CircleMemberResponse contains a circle member summary.
type CircleMemberResponse struct {
	UserID      string    `json:"user_id" doc:"Member user ID"`
	Username    string    `json:"username" doc:"Public username"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	ConnectedAt time.Time `json:"connected_at" doc:"When the connection was made"`
}

// ListCircleMembersResponse contains circle members.
type ListCircleMembersResponse struct {
	Members []CircleMemberResponse `json:"members" doc:"Circle members"`
}

// ListCircleMembersOutput wraps the members response for Huma.
type ListCircleMembersOutput struct {
	Body ListCircleMembersResponse
}

// RemoveCircleMemberInput contains parameters for removing a member.
type RemoveCircleMemberInput struct {
	UserID string `path:"userId" doc:"User ID to disconnect from"`
}

// SendInviteRequest is the request body for sending an invite.
type SendInviteRequest struct {
	ToUserID string `json:"to_user_id" validate:"required" doc:"User ID to invite"`
}

// SendInviteInput wraps the send invite request for Huma.
type SendInviteInput struct {
	Body SendInviteRequest
}

// InviteResponse contains invite data in API responses.
type InviteResponse struct {
	ID         string           `json:"id" doc:"Invite ID"`
	FromUserID string           `json:"from_user_id" doc:"Sender user ID"`
	ToUserID   string           `json:"to_user_id" doc:"Recipient user ID"`
	Status     string           `json:"status" doc:"pending, accepted, or declined"`
	From       *ProfileResponse `json:"from,omitempty" doc:"Sender profile, on received invites"`
	To         *ProfileResponse `json:"to,omitempty" doc:"Recipient profile, on sent invites"`
	CreatedAt  time.Time        `json:"created_at" doc:"Creation timestamp"`
}

// InviteOutput wraps a single invite response for Huma.
type InviteOutput struct {
	Body InviteResponse
}

// ListInvitesResponse contains pending invites.
type ListInvitesResponse struct {
	Invites []InviteResponse `json:"invites" doc:"Pending invites, newest first"`
}

// ListInvitesOutput wraps the invites response for Huma.
type ListInvitesOutput struct {
	Body ListInvitesResponse
}

// InviteActionInput contains parameters for accepting or declining.
type InviteActionInput struct {
	ID string `path:"id" doc:"Invite ID"`
}

// ConnectionResponse contains connection data in API responses.
type ConnectionResponse struct {
	ID        string    `json:"id" doc:"Connection ID"`
	UserAID   string    `json:"user_a_id" doc:"First user of the canonical pair"`
	UserBID   string    `json:"user_b_id" doc:"Second user of the canonical pair"`
	CreatedAt time.Time `json:"created_at" doc:"When the connection was made"`
}

// ConnectionOutput wraps a connection response for Huma.
type ConnectionOutput struct {
	Body ConnectionResponse
}

// === Handlers ===

func (s *Server) handleListCircleMembers(ctx context.Context, _ *struct{}) (*ListCircleMembersOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	members, err := s.services.Circle.ListMembers(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]CircleMemberResponse, len(members))
	for i, m := range members {
		resp[i] = CircleMemberResponse{
			UserID:      m.UserID,
			Username:    m.Username,
			DisplayName: m.DisplayName,
			ConnectedAt: m.ConnectedAt,
		}
	}

	return &ListCircleMembersOutput{Body: ListCircleMembersResponse{Members: resp}}, nil
}

func (s *Server) handleRemoveCircleMember(ctx context.Context, input *RemoveCircleMemberInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Circle.RemoveConnection(ctx, userID, input.UserID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Removed from circle"}}, nil
}

func (s *Server) handleSendCircleInvite(ctx context.Context, input *SendInviteInput) (*InviteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	invite, err := s.services.Circle.SendInvite(ctx, userID, input.Body.ToUserID)
	if err != nil {
		return nil, err
	}

	return &InviteOutput{Body: mapInviteResponse(invite, nil, nil)}, nil
}

func (s *Server) handleListCircleInvitesReceived(ctx context.Context, _ *struct{}) (*ListInvitesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	invites, err := s.services.Circle.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListInvitesOutput{Body: ListInvitesResponse{Invites: mapPendingInvites(invites)}}, nil
}

func (s *Server) handleListCircleInvitesSent(ctx context.Context, _ *struct{}) (*ListInvitesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	invites, err := s.services.Circle.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListInvitesOutput{Body: ListInvitesResponse{Invites: mapPendingInvites(invites)}}, nil
}

func (s *Server) handleAcceptCircleInvite(ctx context.Context, input *InviteActionInput) (*ConnectionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := s.services.Circle.AcceptInvite(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ConnectionOutput{
		Body: ConnectionResponse{
			ID:        conn.ID,
			UserAID:   conn.UserAID,
			UserBID:   conn.UserBID,
			CreatedAt: conn.CreatedAt,
		},
	}, nil
}

func (s *Server) handleDeclineCircleInvite(ctx context.Context, input *InviteActionInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Circle.DeclineInvite(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Invite declined"}}, nil
}

// === Helpers ===

func mapInviteResponse(inv *domain.CircleInvite, from, to *domain.Profile) InviteResponse {
	resp := InviteResponse{
		ID:         inv.ID,
		FromUserID: inv.FromUserID,
		ToUserID:   inv.ToUserID,
		Status:     string(inv.Status),
		CreatedAt:  inv.CreatedAt,
	}
	if from != nil {
		mapped := mapProfileResponse(from)
		resp.From = &mapped
	}
	if to != nil {
		mapped := mapProfileResponse(to)
		resp.To = &mapped
	}
	return resp
}

func mapPendingInvites(invites []*service.PendingInvite) []InviteResponse {
	resp := make([]InviteResponse, len(invites))
	for i, inv := range invites {
		resp[i] = mapInviteResponse(&inv.CircleInvite, inv.From, inv.To)
	}
	return resp
}
