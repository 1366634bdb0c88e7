package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"team-chat/contract"
	"team-chat/domain"
	"team-chat/domain/event"
	"team-chat/domain/search"
	"team-chat/errors"
	"team-chat/infrastructure/storage"
	"team-chat/moderation"
	"team-chat/runtime"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// IChannelService handles the channels namespace: membership, messages, reactions, presence.
// Every method acts on behalf of the authenticated user behind origin.
type IChannelService interface {
	JoinChannel(ctx context.Context, origin contract.Connection, cmd domain.JoinChannelCommand) error
	JoinWorkspace(ctx context.Context, origin contract.Connection, cmd domain.JoinWorkspaceCommand) (domain.WorkspaceJoin, error)
	LeaveChannel(ctx context.Context, origin contract.Connection, cmd domain.LeaveChannelCommand) error
	SendMessage(ctx context.Context, origin contract.Connection, cmd domain.SendMessageCommand) (domain.Message, error)
	AddReaction(ctx context.Context, origin contract.Connection, cmd domain.AddReactionCommand) (domain.Message, error)
	DeleteMessage(ctx context.Context, origin contract.Connection, cmd domain.DeleteMessageCommand) error
	UserPresence(ctx context.Context, origin contract.Connection, cmd domain.UserPresenceCommand) error
	Disconnect(ctx context.Context, conn contract.Connection)
	GetMessages(userID, channelID string, cursor *string) (domain.Page, error)
	Search(ctx context.Context, userID, channelID, text string, limit int) ([]storage.SearchHit, error)
}

type ChannelService struct {
	log        *slog.Logger
	dispatcher *runtime.Dispatcher
	registry   *runtime.Registry
	users      storage.IUserRepository
	workspaces storage.IWorkspaceRepository
	channels   storage.IChannelRepository
	messages   storage.IMessageRepository
	index      storage.IMessageIndex
	media      storage.IMediaStore
	screener   *moderation.Screener
	// reactions are read-modify-write on the whole list
	reactionMu sync.Mutex
}

func NewChannelService(
	log *slog.Logger,
	dispatcher *runtime.Dispatcher,
	users storage.IUserRepository,
	workspaces storage.IWorkspaceRepository,
	channels storage.IChannelRepository,
	messages storage.IMessageRepository,
	index storage.IMessageIndex,
	media storage.IMediaStore,
	screener *moderation.Screener,
) *ChannelService {
	return &ChannelService{
		log:        log.With("service", "channels"),
		dispatcher: dispatcher,
		registry:   dispatcher.Registry(),
		users:      users,
		workspaces: workspaces,
		channels:   channels,
		messages:   messages,
		index:      index,
		media:      media,
		screener:   screener,
	}
}

// accessible loads the channel and runs the membership check for userID.
func (s *ChannelService) accessible(channelID, userID string) (domain.Channel, error) {
	channel, err := s.channels.FindByID(channelID)
	if err != nil {
		return domain.Channel{}, err
	}
	if !channel.CanAccess(userID) {
		s.log.Warn("Private channel access refused", "channel_id", channelID, "user_id", userID)
		return domain.Channel{}, errors.ErrPrivateChannel
	}
	return channel, nil
}

func (s *ChannelService) JoinChannel(ctx context.Context, origin contract.Connection, cmd domain.JoinChannelCommand) error {
	channel, err := s.accessible(cmd.ChannelID, origin.UserID())
	if err != nil {
		return err
	}
	s.join(ctx, origin, channel)
	return nil
}

// join tracks the user, seats public channel connections in the room and announces newcomers.
// Tracking is add-if-absent: a second join only re-confirms to the caller.
func (s *ChannelService) join(ctx context.Context, origin contract.Connection, channel domain.Channel) {
	added := s.registry.Track(channel.ID, origin.UserID())
	if !channel.IsPrivate {
		s.registry.JoinRoom(channel.ID, origin)
	}
	s.dispatcher.Echo(ctx, origin, event.New(event.ChannelJoined, event.ChannelJoinedPayload{
		ChannelID: channel.ID,
		IsPrivate: channel.IsPrivate,
	}))
	if !added {
		return
	}
	s.dispatcher.Broadcast(ctx, channel, origin, event.New(event.UserJoinedChannel, event.UserJoinedChannelPayload{
		ChannelID: channel.ID,
		User:      profileOf(s.users, s.log, origin.UserID()),
		At:        time.Now().UTC(),
	}))
}

func (s *ChannelService) JoinWorkspace(ctx context.Context, origin contract.Connection, cmd domain.JoinWorkspaceCommand) (domain.WorkspaceJoin, error) {
	if _, err := s.workspaces.FindByID(cmd.WorkspaceID); err != nil {
		return domain.WorkspaceJoin{}, err
	}
	channels, err := s.channels.FindByWorkspace(cmd.WorkspaceID)
	if err != nil {
		return domain.WorkspaceJoin{}, err
	}

	result := domain.WorkspaceJoin{WorkspaceID: cmd.WorkspaceID, Joined: []string{}}
	if len(channels) == 0 {
		result.Status = domain.WorkspaceHasNoChannel
	} else {
		joinable, denied := domain.PartitionAccessible(channels, origin.UserID())
		for _, channel := range joinable {
			s.join(ctx, origin, channel)
			result.Joined = append(result.Joined, channel.ID)
		}
		result.Denied = lo.Map(denied, func(ch domain.Channel, _ int) string { return ch.ID })
		result.Status = domain.WorkspaceJoined
	}

	s.dispatcher.Echo(ctx, origin, event.New(event.WorkspaceJoined, result))
	return result, nil
}

func (s *ChannelService) LeaveChannel(ctx context.Context, origin contract.Connection, cmd domain.LeaveChannelCommand) error {
	channel, err := s.channels.FindByID(cmd.ChannelID)
	if err != nil {
		return err
	}
	s.registry.LeaveRoom(channel.ID, origin.ID())
	if !s.registry.Untrack(channel.ID, origin.UserID()) {
		return fmt.Errorf("%w: channel %s", errors.ErrNotMember, channel.ID)
	}
	left := event.New(event.UserLeftChannel, event.UserLeftChannelPayload{
		ChannelID: channel.ID,
		UserID:    origin.UserID(),
		At:        time.Now().UTC(),
	})
	s.dispatcher.Broadcast(ctx, channel, origin, left)
	s.dispatcher.Echo(ctx, origin, left)
	return nil
}

// SendMessage screens, persists, indexes, then fans out. Nothing is emitted if the store fails.
func (s *ChannelService) SendMessage(ctx context.Context, origin contract.Connection, cmd domain.SendMessageCommand) (domain.Message, error) {
	channel, err := s.accessible(cmd.ChannelID, origin.UserID())
	if err != nil {
		return domain.Message{}, err
	}

	screened := s.screener.Screen(cmd.Content)
	attachment := s.attach(cmd.Image, origin.UserID())
	if screened.Content == "" && attachment == "" {
		return domain.Message{}, fmt.Errorf("%w: empty message", errors.ErrInvalidPayload)
	}

	message := domain.Message{
		ID:         uuid.NewString(),
		ChannelID:  channel.ID,
		SenderID:   origin.UserID(),
		Content:    screened.Content,
		Attachment: attachment,
		Language:   screened.Language,
		Reactions:  []domain.Reaction{},
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.StoreMessage(message); err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}
	if err := s.index.Index(message); err != nil {
		s.log.Warn("Message not indexed", "message_id", message.ID, "error", err)
	}

	received := event.New(event.ReceiveMessage, event.MessagePayload{
		Message: message,
		Sender:  profileOf(s.users, s.log, origin.UserID()),
	})
	delivered := s.dispatcher.Broadcast(ctx, channel, origin, received)
	s.dispatcher.Echo(ctx, origin, received)
	s.dispatcher.Echo(ctx, origin, event.New(event.MessageSent, event.MessageSentPayload{
		MessageID:   message.ID,
		ChannelID:   channel.ID,
		DeliveredTo: delivered,
	}))
	return message, nil
}

// attach stores an optional image. Any failure degrades to a message without attachment.
func (s *ChannelService) attach(image, userID string) string {
	if image == "" {
		return ""
	}
	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		s.log.Warn("Attachment dropped", "user_id", userID, "error", err)
		return ""
	}
	url, err := s.media.Save(data)
	if err != nil {
		s.log.Warn("Attachment dropped", "user_id", userID, "error", err)
		return ""
	}
	return url
}

func (s *ChannelService) AddReaction(ctx context.Context, origin contract.Connection, cmd domain.AddReactionCommand) (domain.Message, error) {
	s.reactionMu.Lock()
	message, err := s.messages.FindByID(cmd.MessageID)
	if err != nil {
		s.reactionMu.Unlock()
		return domain.Message{}, err
	}
	channel, err := s.accessible(message.ChannelID, origin.UserID())
	if err != nil {
		s.reactionMu.Unlock()
		return domain.Message{}, err
	}
	if message.SenderID == origin.UserID() {
		s.reactionMu.Unlock()
		return domain.Message{}, errors.ErrSelfReaction
	}

	reactions, outcome := domain.ToggleReaction(message.Reactions, origin.UserID(), cmd.Emoji)
	updated, err := s.messages.UpdateReactions(message.ID, reactions)
	s.reactionMu.Unlock()
	if err != nil {
		return domain.Message{}, fmt.Errorf("update reactions: %w", err)
	}

	reaction := event.New(event.MessageReaction, event.MessageReactionPayload{
		MessageID: updated.ID,
		ChannelID: channel.ID,
		UserID:    origin.UserID(),
		Emoji:     cmd.Emoji,
		Outcome:   string(outcome),
		Reactions: updated.Reactions,
	})
	s.dispatcher.Broadcast(ctx, channel, origin, reaction)
	s.dispatcher.Echo(ctx, origin, reaction)
	return updated, nil
}

// DeleteMessage hard deletes a message. Only its author may do it.
func (s *ChannelService) DeleteMessage(ctx context.Context, origin contract.Connection, cmd domain.DeleteMessageCommand) error {
	message, err := s.messages.FindByID(cmd.MessageID)
	if err != nil {
		return err
	}
	if message.SenderID != origin.UserID() {
		return errors.ErrNotMessageOwner
	}
	channel, err := s.accessible(message.ChannelID, origin.UserID())
	if err != nil {
		return err
	}
	if err := s.messages.DeleteMessage(message.ID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if err := s.index.Remove(message.ID); err != nil {
		s.log.Warn("Message not removed from index", "message_id", message.ID, "error", err)
	}

	deleted := event.New(event.MessageDeleted, event.MessageDeletedPayload{
		MessageID: message.ID,
		ChannelID: channel.ID,
		DeletedBy: origin.UserID(),
	})
	s.dispatcher.Broadcast(ctx, channel, origin, deleted)
	s.dispatcher.Echo(ctx, origin, deleted)
	return nil
}

// UserPresence tells everyone sharing at least one joined channel with the sender.
func (s *ChannelService) UserPresence(ctx context.Context, origin contract.Connection, cmd domain.UserPresenceCommand) error {
	var peers []string
	for _, channelID := range s.registry.ChannelsOf(origin.UserID()) {
		peers = append(peers, s.registry.Tracked(channelID)...)
	}
	s.dispatcher.ToUsers(ctx, lo.Uniq(peers), origin.UserID(), event.New(event.UserPresence, event.UserPresencePayload{
		UserID: origin.UserID(),
		Status: cmd.Status,
		At:     time.Now().UTC(),
	}))
	return nil
}

// Disconnect cleans the registry and notifies the channels the user was in.
// It works from memory only and never touches the store.
func (s *ChannelService) Disconnect(ctx context.Context, conn contract.Connection) {
	left := s.registry.Disconnect(conn.UserID(), conn.ID())
	now := time.Now().UTC()
	for _, channelID := range left {
		s.dispatcher.ToTracked(ctx, channelID, conn.UserID(), event.New(event.UserLeftChannel, event.UserLeftChannelPayload{
			ChannelID: channelID,
			UserID:    conn.UserID(),
			At:        now,
		}))
	}
}

func (s *ChannelService) GetMessages(userID, channelID string, cursor *string) (domain.Page, error) {
	if _, err := s.accessible(channelID, userID); err != nil {
		return domain.Page{}, err
	}
	messages, next, err := s.messages.GetMessages(channelID, cursor)
	if err != nil {
		return domain.Page{}, fmt.Errorf("get messages: %w", err)
	}
	return domain.Page{Messages: messages, Cursor: next}, nil
}

func (s *ChannelService) Search(ctx context.Context, userID, channelID, text string, limit int) ([]storage.SearchHit, error) {
	query := search.Parse(text)
	if query.Empty() {
		return nil, fmt.Errorf("%w: empty query", errors.ErrInvalidPayload)
	}
	if _, err := s.accessible(channelID, userID); err != nil {
		return nil, err
	}
	if limit > 0 {
		query.Limit = limit
	}
	hits, err := s.index.Search(ctx, channelID, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return hits, nil
}
