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
	"team-chat/moderation"
	"team-chat/runtime"
	"time"

	"github.com/google/uuid"
)

// IDirectMessageService handles the DM namespace and the conversation REST routes.
type IDirectMessageService interface {
	Send(ctx context.Context, origin contract.Connection, cmd domain.SendDirectMessageCommand) (domain.DirectMessage, error)
	SendFrom(ctx context.Context, senderID string, cmd domain.SendDirectMessageCommand) (domain.DirectMessage, error)
	Typing(ctx context.Context, origin contract.Connection, cmd domain.TypingCommand) error
	MarkAsRead(ctx context.Context, readerID string, cmd domain.MarkAsReadCommand) (int, error)
	Delete(ctx context.Context, origin contract.Connection, cmd domain.DeleteMessageCommand) error
	Conversation(userID, otherID string) ([]domain.DirectMessage, error)
}

type DirectMessageService struct {
	log         *slog.Logger
	dispatcher  *runtime.Dispatcher
	users       storage.IUserRepository
	messages    storage.IDirectMessageRepository
	friendships storage.IFriendshipRepository
	screener    *moderation.Screener
}

func NewDirectMessageService(
	log *slog.Logger,
	dispatcher *runtime.Dispatcher,
	users storage.IUserRepository,
	messages storage.IDirectMessageRepository,
	friendships storage.IFriendshipRepository,
	screener *moderation.Screener,
) *DirectMessageService {
	return &DirectMessageService{
		log:         log.With("service", "dm"),
		dispatcher:  dispatcher,
		users:       users,
		messages:    messages,
		friendships: friendships,
		screener:    screener,
	}
}

// checkNotBlocked refuses any exchange across a blocked edge, whoever blocked whom.
func (s *DirectMessageService) checkNotBlocked(a, b string) error {
	friendship, err := s.friendships.Find(a, b)
	if errors.Is(err, errors.ErrFriendshipNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find friendship: %w", err)
	}
	if friendship.Status == domain.FriendshipBlocked {
		return errors.ErrBlocked
	}
	return nil
}

func (s *DirectMessageService) Send(ctx context.Context, origin contract.Connection, cmd domain.SendDirectMessageCommand) (domain.DirectMessage, error) {
	return s.send(ctx, origin.UserID(), origin, cmd)
}

// SendFrom is the REST entry point: there is no acting connection to confirm to.
func (s *DirectMessageService) SendFrom(ctx context.Context, senderID string, cmd domain.SendDirectMessageCommand) (domain.DirectMessage, error) {
	return s.send(ctx, senderID, nil, cmd)
}

func (s *DirectMessageService) send(ctx context.Context, senderID string, origin contract.Connection, cmd domain.SendDirectMessageCommand) (domain.DirectMessage, error) {
	if cmd.ReceiverID == senderID {
		return domain.DirectMessage{}, fmt.Errorf("%w: cannot message yourself", errors.ErrInvalidPayload)
	}
	if _, err := s.users.FindByID(cmd.ReceiverID); err != nil {
		return domain.DirectMessage{}, err
	}
	if err := s.checkNotBlocked(senderID, cmd.ReceiverID); err != nil {
		return domain.DirectMessage{}, err
	}

	screened := s.screener.Screen(cmd.Content)
	if screened.Content == "" {
		return domain.DirectMessage{}, fmt.Errorf("%w: empty message", errors.ErrInvalidPayload)
	}
	message := domain.DirectMessage{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: cmd.ReceiverID,
		Content:    screened.Content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.StoreDirectMessage(message); err != nil {
		return domain.DirectMessage{}, fmt.Errorf("store direct message: %w", err)
	}

	received := event.New(event.ReceiveMessage, event.DirectMessagePayload{
		Message: message,
		Sender:  profileOf(s.users, s.log, senderID),
	})
	delivered := 0
	if s.dispatcher.ToUser(ctx, cmd.ReceiverID, received) {
		delivered = 1
	}
	s.dispatcher.Echo(ctx, origin, event.New(event.MessageSent, event.MessageSentPayload{
		MessageID:   message.ID,
		ReceiverID:  cmd.ReceiverID,
		DeliveredTo: delivered,
	}))
	return message, nil
}

// Typing relays the indicator as is. No debounce: clients send the stop signal themselves.
// A blocked pair gets nothing.
func (s *DirectMessageService) Typing(ctx context.Context, origin contract.Connection, cmd domain.TypingCommand) error {
	if err := s.checkNotBlocked(origin.UserID(), cmd.ReceiverID); err != nil {
		return err
	}
	s.dispatcher.ToUser(ctx, cmd.ReceiverID, event.New(event.Typing, event.TypingPayload{
		SenderID: origin.UserID(),
		IsTyping: cmd.IsTyping,
	}))
	return nil
}

// MarkAsRead persists the read date first, then tells the sender if anything changed.
// The reader's own read state is still stored for a blocked pair, only the notice is withheld.
func (s *DirectMessageService) MarkAsRead(ctx context.Context, readerID string, cmd domain.MarkAsReadCommand) (int, error) {
	blockErr := s.checkNotBlocked(readerID, cmd.SenderID)
	if blockErr != nil && !errors.Is(blockErr, errors.ErrBlocked) {
		return 0, blockErr
	}
	readAt := time.Now().UTC()
	count, err := s.messages.MarkAsRead(cmd.SenderID, readerID, readAt)
	if err != nil {
		return 0, fmt.Errorf("mark as read: %w", err)
	}
	if count > 0 && blockErr == nil {
		s.dispatcher.ToUser(ctx, cmd.SenderID, event.New(event.MessagesRead, event.MessagesReadPayload{
			ReaderID: readerID,
			Count:    count,
			ReadAt:   readAt,
		}))
	}
	return count, nil
}

// Delete soft deletes a direct message of the caller.
func (s *DirectMessageService) Delete(ctx context.Context, origin contract.Connection, cmd domain.DeleteMessageCommand) error {
	message, err := s.messages.FindByID(cmd.MessageID)
	if err != nil {
		return err
	}
	if message.SenderID != origin.UserID() {
		return errors.ErrNotMessageOwner
	}
	if _, err := s.messages.SoftDelete(message.ID); err != nil {
		return err
	}
	deleted := event.New(event.MessageDeleted, event.MessageDeletedPayload{
		MessageID: message.ID,
		DeletedBy: origin.UserID(),
	})
	s.dispatcher.ToUser(ctx, message.Counterpart(origin.UserID()), deleted)
	s.dispatcher.Echo(ctx, origin, deleted)
	return nil
}

func (s *DirectMessageService) Conversation(userID, otherID string) ([]domain.DirectMessage, error) {
	messages, err := s.messages.Conversation(userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("conversation: %w", err)
	}
	return messages, nil
}
