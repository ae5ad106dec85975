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

// CircleService manages the reading circle: the undirected connection
// graph and the invite lifecycle that builds it.
type CircleService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCircleService creates a new circle service.
func NewCircleService(store store.Store, logger *slog.Logger) *CircleService {
	return &CircleService{
		store:  store,
		logger: logger,
	}
}

// PendingInvite is an invite joined with the counterparty's profile.
type PendingInvite struct {
	domain.CircleInvite
	From *domain.Profile `json:"from,omitempty"`
	To   *domain.Profile `json:"to,omitempty"`
}

// SendInvite creates a pending invite from one user to another.
// Rejected if they are already connected or a pending invite exists
// between the pair in either direction.
func (s *CircleService) SendInvite(ctx context.Context, fromUserID, toUserID string) (*domain.CircleInvite, error) {
	if fromUserID == toUserID {
		return nil, domainerrors.Validation("cannot invite yourself")
	}

	if _, err := s.store.GetUser(ctx, toUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	connected, err := s.store.AreConnected(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, fmt.Errorf("check connection: %w", err)
	}
	if connected {
		return nil, domainerrors.Conflict("already in your circle")
	}

	pending, err := s.store.HasPendingInviteBetween(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, fmt.Errorf("check pending invites: %w", err)
	}
	if pending {
		return nil, domainerrors.Conflict("an invite is already pending between you")
	}

	inviteID, err := id.Generate("cinv")
	if err != nil {
		return nil, fmt.Errorf("generate invite ID: %w", err)
	}

	now := time.Now()
	invite := &domain.CircleInvite{
		ID:         inviteID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     domain.InvitePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateInvite(ctx, invite); err != nil {
		// The partial unique index backstops a concurrent send.
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("an invite is already pending between you")
		}
		return nil, fmt.Errorf("create invite: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Circle invite sent", "invite_id", inviteID, "from", fromUserID, "to", toUserID)
	}

	return invite, nil
}

// AcceptInvite transitions an invite to accepted and creates the
// connection in one transaction. Only the recipient may accept.
func (s *CircleService) AcceptInvite(ctx context.Context, userID, inviteID string) (*domain.Connection, error) {
	invite, err := s.getInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite.ToUserID != userID {
		return nil, domainerrors.Forbidden("only the recipient can accept an invite")
	}
	if invite.Status.Terminal() {
		return nil, domainerrors.Conflict("invite already resolved")
	}

	connID, err := id.Generate("conn")
	if err != nil {
		return nil, fmt.Errorf("generate connection ID: %w", err)
	}

	a, b := domain.OrderPair(invite.FromUserID, invite.ToUserID)
	conn := &domain.Connection{
		ID:        connID,
		UserAID:   a,
		UserBID:   b,
		CreatedAt: time.Now(),
	}

	if err := s.store.AcceptInvite(ctx, invite, conn); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Conflict("invite already resolved")
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("already in your circle")
		}
		return nil, fmt.Errorf("accept invite: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Circle invite accepted", "invite_id", inviteID, "connection_id", connID)
	}

	return conn, nil
}

// DeclineInvite transitions an invite to declined. Only the recipient
// may decline. No connection is created.
func (s *CircleService) DeclineInvite(ctx context.Context, userID, inviteID string) error {
	invite, err := s.getInvite(ctx, inviteID)
	if err != nil {
		return err
	}
	if invite.ToUserID != userID {
		return domainerrors.Forbidden("only the recipient can decline an invite")
	}
	if invite.Status.Terminal() {
		return domainerrors.Conflict("invite already resolved")
	}

	invite.Status = domain.InviteDeclined
	if err := s.store.UpdateInvite(ctx, invite); err != nil {
		return fmt.Errorf("decline invite: %w", err)
	}
	return nil
}

// RemoveConnection deletes the connection between the caller and
// another user. Either endpoint may remove it.
func (s *CircleService) RemoveConnection(ctx context.Context, userID, otherUserID string) error {
	err := s.store.DeleteConnection(ctx, userID, otherUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("not in your circle")
		}
		return fmt.Errorf("remove connection: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Circle connection removed", "user_id", userID, "other", otherUserID)
	}
	return nil
}

// ListMembers returns profile summaries of everyone in the caller's
// circle. Profiles are fetched in one batch.
func (s *CircleService) ListMembers(ctx context.Context, userID string) ([]*domain.CircleMember, error) {
	conns, err := s.store.ListConnections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	peerIDs := make([]string, 0, len(conns))
	for _, c := range conns {
		peerIDs = append(peerIDs, c.Other(userID))
	}

	profiles, err := s.store.GetProfilesByUserIDs(ctx, peerIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch profiles: %w", err)
	}

	members := make([]*domain.CircleMember, 0, len(conns))
	for _, c := range conns {
		peerID := c.Other(userID)
		member := &domain.CircleMember{
			UserID:      peerID,
			ConnectedAt: c.CreatedAt,
		}
		if p, ok := profiles[peerID]; ok {
			member.Username = p.Username
			member.DisplayName = p.DisplayName
		}
		members = append(members, member)
	}
	return members, nil
}

// ListPendingReceived returns pending invites addressed to the caller,
// enriched with sender profiles.
func (s *CircleService) ListPendingReceived(ctx context.Context, userID string) ([]*PendingInvite, error) {
	invites, err := s.store.ListInvitesReceived(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list received invites: %w", err)
	}
	return s.enrichInvites(ctx, invites, true)
}

// ListPendingSent returns pending invites the caller has sent, enriched
// with recipient profiles.
func (s *CircleService) ListPendingSent(ctx context.Context, userID string) ([]*PendingInvite, error) {
	invites, err := s.store.ListInvitesSent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sent invites: %w", err)
	}
	return s.enrichInvites(ctx, invites, false)
}

// enrichInvites attaches counterparty profiles with one batch fetch.
func (s *CircleService) enrichInvites(ctx context.Context, invites []*domain.CircleInvite, received bool) ([]*PendingInvite, error) {
	ids := make([]string, 0, len(invites))
	for _, inv := range invites {
		if received {
			ids = append(ids, inv.FromUserID)
		} else {
			ids = append(ids, inv.ToUserID)
		}
	}

	profiles, err := s.store.GetProfilesByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch profiles: %w", err)
	}

	result := make([]*PendingInvite, 0, len(invites))
	for _, inv := range invites {
		pi := &PendingInvite{CircleInvite: *inv}
		if received {
			pi.From = profiles[inv.FromUserID]
		} else {
			pi.To = profiles[inv.ToUserID]
		}
		result = append(result, pi)
	}
	return result, nil
}

// IsMember reports whether two users are connected.
func (s *CircleService) IsMember(ctx context.Context, userID, otherUserID string) (bool, error) {
	return s.store.AreConnected(ctx, userID, otherUserID)
}

func (s *CircleService) getInvite(ctx context.Context, inviteID string) (*domain.CircleInvite, error) {
	invite, err := s.store.GetInvite(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("invite not found")
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return invite, nil
}
