package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	domainerrors "github.com/nextchapterapp/nextchapter-server/internal/errors"
	"github.com/nextchapterapp/nextchapter-server/internal/id"
	"github.com/nextchapterapp/nextchapter-server/internal/store"
	"github.com/nextchapterapp/nextchapter-server/internal/validation"
)

// ProfileService manages public identities: the unique username handle
// and display name shown to other circle members.
type ProfileService struct {
	store  store.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		logger: logger,
	}
}

// CreateProfileRequest contains a new profile.
type CreateProfileRequest struct {
	Username    string `json:"username" validate:"required"`
	DisplayName string `json:"display_name" validate:"required,max=50"`
}

// UpdateProfileRequest contains profile edits. The username is fixed
// once chosen.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=50"`
}

// Create claims a username and creates the caller's profile.
func (s *ProfileService) Create(ctx context.Context, userID string, req CreateProfileRequest) (*domain.Profile, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if !validation.ValidUsername(username) {
		return nil, domainerrors.Validation("username must be 3-20 lowercase letters, digits, or underscores")
	}

	profileID, err := id.Generate("prof")
	if err != nil {
		return nil, fmt.Errorf("generate profile ID: %w", err)
	}

	now := time.Now()
	profile := &domain.Profile{
		ID:          profileID,
		UserID:      userID,
		Username:    username,
		DisplayName: req.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("username is taken or profile already exists")
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Profile created", "user_id", userID, "username", username)
	}

	return profile, nil
}

// Get returns the caller's own profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.store.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("profile not found")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// GetByUsername looks up a profile by its public handle.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	profile, err := s.store.GetProfileByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("profile not found")
		}
		return nil, fmt.Errorf("get profile by username: %w", err)
	}
	return profile, nil
}

// Update changes the caller's display name.
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.DisplayName = req.DisplayName
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// CheckUsername reports whether a username is valid and available.
func (s *ProfileService) CheckUsername(ctx context.Context, username string) (valid, available bool, err error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !validation.ValidUsername(username) {
		return false, false, nil
	}

	taken, err := s.store.UsernameTaken(ctx, username)
	if err != nil {
		return true, false, fmt.Errorf("check username: %w", err)
	}
	return true, !taken, nil
}
