package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	// Own profile
	huma.Register(s.api, huma.Operation{
		OperationID: "getMyProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Get my profile",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "createProfile",
		Method:      http.MethodPost,
		Path:        "/api/v1/profile",
		Summary:     "Create profile",
		Description: "Claims a username and creates the caller's public profile",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profile",
		Summary:     "Update profile",
		Description: "Updates the caller's display name. Usernames are permanent.",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkUsername",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile/check-username",
		Summary:     "Check username availability",
		Description: "Reports whether a username is valid and unclaimed",
		Tags:        []string{"Profile"},
	}, s.handleCheckUsername)

	// Other users
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfileByUsername",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{username}",
		Summary:     "Get profile by username",
		Description: "Looks up a public profile by its username",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfileByUsername)
}

// === DTOs ===

// ProfileResponse contains profile data in API responses.
type ProfileResponse struct {
	UserID      string    `json:"user_id" doc:"Owning user ID"`
	Username    string    `json:"username" doc:"Public username"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
}

// ProfileOutput wraps a profile response for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// CreateProfileRequest is the request body for creating a profile.
type CreateProfileRequest struct {
	Username    string `json:"username" validate:"required,username" doc:"Public username, 3-20 lowercase letters, digits, or underscores"`
	DisplayName string `json:"display_name" validate:"required,max=50" doc:"Display name"`
}

// CreateProfileInput wraps the create profile request for Huma.
type CreateProfileInput struct {
	Body CreateProfileRequest
}

// UpdateProfileRequest is the request body for updating a profile.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=50" doc:"Display name"`
}

// UpdateProfileInput wraps the update profile request for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

// CheckUsernameInput contains the username to check.
type CheckUsernameInput struct {
	Username string `query:"username" required:"true" doc:"Username to check"`
}

// CheckUsernameResponse reports username validity and availability.
type CheckUsernameResponse struct {
	Valid     bool `json:"valid" doc:"Whether the username satisfies the format rules"`
	Available bool `json:"available" doc:"Whether the username is unclaimed"`
}

// CheckUsernameOutput wraps the check username response for Huma.
type CheckUsernameOutput struct {
	Body CheckUsernameResponse
}

// GetProfileInput contains the username to look up.
type GetProfileInput struct {
	Username string `path:"username" doc:"Public username"`
}

// === Handlers ===

func (s *Server) handleGetMyProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfileResponse(profile)}, nil
}

func (s *Server) handleCreateProfile(ctx context.Context, input *CreateProfileInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.Create(ctx, userID, service.CreateProfileRequest{
		Username:    input.Body.Username,
		DisplayName: input.Body.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfileResponse(profile)}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.Update(ctx, userID, service.UpdateProfileRequest{
		DisplayName: input.Body.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfileResponse(profile)}, nil
}

func (s *Server) handleCheckUsername(ctx context.Context, input *CheckUsernameInput) (*CheckUsernameOutput, error) {
	valid, available, err := s.services.Profile.CheckUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	return &CheckUsernameOutput{
		Body: CheckUsernameResponse{
			Valid:     valid,
			Available: available,
		},
	}, nil
}

func (s *Server) handleGetProfileByUsername(ctx context.Context, input *GetProfileInput) (*ProfileOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfileResponse(profile)}, nil
}

// === Helpers ===

func mapProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		CreatedAt:   p.CreatedAt,
	}
}
