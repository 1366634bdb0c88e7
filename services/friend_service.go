package services

import (
	"context"
	"fmt"
	"log/slog"
	"team-chat/contract"
	"team-chat/domain"
	"team-chat/domain/event"
	"team-chat/errors"
	"team-chat/infrastructure/storage"
	"team-chat/runtime"
	"time"

	"github.com/samber/lo"
)

// IFriendService handles friend requests and the friends presence namespace.
type IFriendService interface {
	Request(ctx context.Context, userID, friendID string) (domain.Friendship, error)
	Accept(ctx context.Context, userID, requesterID string) (domain.Friendship, error)
	Block(userID, otherID string) (domain.Friendship, error)
	List(userID string, status domain.FriendshipStatus) ([]domain.UserProfile, error)
	Connect(ctx context.Context, conn contract.Connection)
	Disconnect(ctx context.Context, conn contract.Connection)
	OnlineStatus(ctx context.Context, origin contract.Connection, cmd domain.OnlineStatusCommand) error
}

type FriendService struct {
	log         *slog.Logger
	dispatcher  *runtime.Dispatcher
	users       storage.IUserRepository
	friendships storage.IFriendshipRepository
}

func NewFriendService(
	log *slog.Logger,
	dispatcher *runtime.Dispatcher,
	users storage.IUserRepository,
	friendships storage.IFriendshipRepository,
) *FriendService {
	return &FriendService{
		log:         log.With("service", "friends"),
		dispatcher:  dispatcher,
		users:       users,
		friendships: friendships,
	}
}

// Request creates a pending edge userID -> friendID and notifies friendID live.
func (s *FriendService) Request(ctx context.Context, userID, friendID string) (domain.Friendship, error) {
	if userID == friendID {
		return domain.Friendship{}, errors.ErrSelfFriendship
	}
	if _, err := s.users.FindByID(friendID); err != nil {
		return domain.Friendship{}, err
	}
	now := time.Now().UTC()
	friendship := domain.Friendship{
		UserID:    userID,
		FriendID:  friendID,
		Status:    domain.FriendshipPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.friendships.Create(friendship); err != nil {
		return domain.Friendship{}, err
	}
	s.dispatcher.ToUser(ctx, friendID, event.New(event.FriendRequest, event.FriendRequestPayload{
		From:   profileOf(s.users, s.log, userID),
		Status: friendship.Status,
	}))
	return friendship, nil
}

// Accept turns a pending request addressed to userID into a friendship.
func (s *FriendService) Accept(ctx context.Context, userID, requesterID string) (domain.Friendship, error) {
	friendship, err := s.friendships.Find(userID, requesterID)
	if err != nil {
		return domain.Friendship{}, err
	}
	if friendship.Status != domain.FriendshipPending || friendship.FriendID != userID {
		return domain.Friendship{}, fmt.Errorf("%w: no pending request from %s", errors.ErrFriendshipNotFound, requesterID)
	}
	accepted, err := s.friendships.UpdateStatus(userID, requesterID, domain.FriendshipAccepted)
	if err != nil {
		return domain.Friendship{}, err
	}
	s.dispatcher.ToUser(ctx, requesterID, event.New(event.FriendRequestAccepted, event.FriendRequestPayload{
		From:   profileOf(s.users, s.log, userID),
		Status: accepted.Status,
	}))
	return accepted, nil
}

// Block marks the edge blocked, creating it if the pair never interacted.
func (s *FriendService) Block(userID, otherID string) (domain.Friendship, error) {
	if userID == otherID {
		return domain.Friendship{}, errors.ErrSelfFriendship
	}
	blocked, err := s.friendships.UpdateStatus(userID, otherID, domain.FriendshipBlocked)
	if !errors.Is(err, errors.ErrFriendshipNotFound) {
		return blocked, err
	}
	now := time.Now().UTC()
	blocked = domain.Friendship{
		UserID:    userID,
		FriendID:  otherID,
		Status:    domain.FriendshipBlocked,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return blocked, s.friendships.Create(blocked)
}

func (s *FriendService) List(userID string, status domain.FriendshipStatus) ([]domain.UserProfile, error) {
	friendships, err := s.friendships.ListByStatus(userID, status)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	ids := lo.Map(friendships, func(f domain.Friendship, _ int) string { return f.Other(userID) })
	return s.users.FindProfiles(ids)
}

func (s *FriendService) Connect(ctx context.Context, conn contract.Connection) {
	s.broadcastStatus(ctx, conn.UserID(), true)
}

// Disconnect only announces the user offline if conn was still the live one.
func (s *FriendService) Disconnect(ctx context.Context, conn contract.Connection) {
	if s.dispatcher.Registry().Release(conn.UserID(), conn.ID()) {
		s.broadcastStatus(ctx, conn.UserID(), false)
	}
}

func (s *FriendService) OnlineStatus(ctx context.Context, origin contract.Connection, cmd domain.OnlineStatusCommand) error {
	s.broadcastStatus(ctx, origin.UserID(), cmd.IsOnline)
	return nil
}

// broadcastStatus is push only: there is no "who is online" query behind it.
func (s *FriendService) broadcastStatus(ctx context.Context, userID string, online bool) {
	s.dispatcher.ToOthers(ctx, userID, event.New(event.OnlineStatus, event.OnlineStatusPayload{
		UserID:   userID,
		IsOnline: online,
		At:       time.Now().UTC(),
	}))
}
