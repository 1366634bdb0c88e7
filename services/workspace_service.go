package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"team-chat/domain"
	"team-chat/domain/event"
	"team-chat/infrastructure/storage"
	"team-chat/runtime"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// IWorkspaceService covers the REST side of workspaces and channels.
type IWorkspaceService interface {
	CreateWorkspace(ownerID string, cmd domain.CreateWorkspaceCommand) (domain.Workspace, error)
	CreateChannel(userID string, cmd domain.CreateChannelCommand) (domain.Channel, error)
	ListChannels(userID, workspaceID string) ([]domain.Channel, error)
	AddMember(ctx context.Context, actorID, channelID, userID string) (domain.Channel, error)
	RemoveMember(ctx context.Context, actorID, channelID, userID string) (domain.Channel, error)
}

type WorkspaceService struct {
	log        *slog.Logger
	dispatcher *runtime.Dispatcher
	users      storage.IUserRepository
	workspaces storage.IWorkspaceRepository
	channels   storage.IChannelRepository
	// membersMu serializes allow-list changes of this process; the store replays cross-process conflicts.
	membersMu sync.Mutex
}

func NewWorkspaceService(
	log *slog.Logger,
	dispatcher *runtime.Dispatcher,
	users storage.IUserRepository,
	workspaces storage.IWorkspaceRepository,
	channels storage.IChannelRepository,
) *WorkspaceService {
	return &WorkspaceService{
		log:        log.With("service", "workspaces"),
		dispatcher: dispatcher,
		users:      users,
		workspaces: workspaces,
		channels:   channels,
	}
}

func (s *WorkspaceService) CreateWorkspace(ownerID string, cmd domain.CreateWorkspaceCommand) (domain.Workspace, error) {
	workspace := domain.Workspace{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(cmd.Name),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.workspaces.Save(workspace); err != nil {
		return domain.Workspace{}, fmt.Errorf("save workspace: %w", err)
	}
	s.log.Info("Workspace created", "workspace_id", workspace.ID, "owner_id", ownerID)
	return workspace, nil
}

// CreateChannel makes userID the owner. The owner is implicit and never stored in AllowedUsers.
func (s *WorkspaceService) CreateChannel(userID string, cmd domain.CreateChannelCommand) (domain.Channel, error) {
	if _, err := s.workspaces.FindByID(cmd.WorkspaceID); err != nil {
		return domain.Channel{}, err
	}
	channel := domain.Channel{
		ID:           uuid.NewString(),
		WorkspaceID:  cmd.WorkspaceID,
		Name:         strings.TrimSpace(cmd.Name),
		IsPrivate:    cmd.IsPrivate,
		CreatedBy:    userID,
		AllowedUsers: []string{},
		CreatedAt:    time.Now().UTC(),
	}
	if cmd.IsPrivate {
		channel.AllowedUsers = lo.Without(lo.Uniq(cmd.AllowedUsers), userID)
	}
	if err := s.channels.Save(channel); err != nil {
		return domain.Channel{}, err
	}
	s.log.Info("Channel created", "channel_id", channel.ID, "workspace_id", channel.WorkspaceID, "private", channel.IsPrivate)
	return channel, nil
}

// ListChannels returns the channels of the workspace userID may see.
func (s *WorkspaceService) ListChannels(userID, workspaceID string) ([]domain.Channel, error) {
	if _, err := s.workspaces.FindByID(workspaceID); err != nil {
		return nil, err
	}
	channels, err := s.channels.FindByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	visible, _ := domain.PartitionAccessible(channels, userID)
	return visible, nil
}

func (s *WorkspaceService) AddMember(ctx context.Context, actorID, channelID, userID string) (domain.Channel, error) {
	if _, err := s.users.FindByID(userID); err != nil {
		return domain.Channel{}, err
	}
	s.membersMu.Lock()
	defer s.membersMu.Unlock()
	return s.channels.UpdateAllowedUsers(channelID, func(channel *domain.Channel) error {
		return channel.AddAllowedUser(actorID, userID)
	})
}

// RemoveMember revokes access. If the user had joined, the remaining members and the user are told.
func (s *WorkspaceService) RemoveMember(ctx context.Context, actorID, channelID, userID string) (domain.Channel, error) {
	s.membersMu.Lock()
	channel, err := s.channels.UpdateAllowedUsers(channelID, func(channel *domain.Channel) error {
		return channel.RemoveAllowedUser(actorID, userID)
	})
	s.membersMu.Unlock()
	if err != nil {
		return domain.Channel{}, err
	}

	if s.dispatcher.Registry().Untrack(channel.ID, userID) {
		left := event.New(event.UserLeftChannel, event.UserLeftChannelPayload{
			ChannelID: channel.ID,
			UserID:    userID,
			At:        time.Now().UTC(),
		})
		s.dispatcher.Broadcast(ctx, channel, nil, left)
		s.dispatcher.ToUser(ctx, userID, left)
	}
	return channel, nil
}
