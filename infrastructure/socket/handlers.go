package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"team-chat/contract"
	"team-chat/domain"
	"team-chat/errors"
	"team-chat/runtime"
	"team-chat/services"

	"github.com/go-playground/validator/v10"
)

// Inbound event names.
const (
	JoinChannel   = "joinChannel"
	JoinWorkspace = "joinWorkspace"
	LeaveChannel  = "leaveChannel"
	SendMessage   = "sendMessage"
	AddReaction   = "addReaction"
	DeleteMessage = "deleteMessage"
	UserPresence  = "userPresence"
	Typing        = "typing"
	MarkAsRead    = "markAsRead"
	OnlineStatus  = "onlineStatus"
)

var validate = validator.New()

// decode reads the data part of a frame into T and validates it.
func decode[T any](data []byte) (T, error) {
	var cmd T
	if len(data) == 0 {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, &cmd); err != nil {
		return cmd, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if err := validate.Struct(cmd); err != nil {
		return cmd, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return cmd, nil
}

func unknown(name string) error {
	return fmt.Errorf("%w: %s", errors.ErrUnknownEvent, name)
}

// ChannelsHandler serves /socket/channels.
type ChannelsHandler struct {
	service services.IChannelService
}

func NewChannelsHandler(service services.IChannelService) *ChannelsHandler {
	return &ChannelsHandler{service: service}
}

func (h *ChannelsHandler) OnConnect(context.Context, contract.Connection) {}

func (h *ChannelsHandler) OnDisconnect(ctx context.Context, conn contract.Connection) {
	h.service.Disconnect(ctx, conn)
}

func (h *ChannelsHandler) Handle(ctx context.Context, conn contract.Connection, name string, data []byte) error {
	switch name {
	case JoinChannel:
		cmd, err := decode[domain.JoinChannelCommand](data)
		if err != nil {
			return err
		}
		return h.service.JoinChannel(ctx, conn, cmd)
	case JoinWorkspace:
		cmd, err := decode[domain.JoinWorkspaceCommand](data)
		if err != nil {
			return err
		}
		_, err = h.service.JoinWorkspace(ctx, conn, cmd)
		return err
	case LeaveChannel:
		cmd, err := decode[domain.LeaveChannelCommand](data)
		if err != nil {
			return err
		}
		return h.service.LeaveChannel(ctx, conn, cmd)
	case SendMessage:
		cmd, err := decode[domain.SendMessageCommand](data)
		if err != nil {
			return err
		}
		_, err = h.service.SendMessage(ctx, conn, cmd)
		return err
	case AddReaction:
		cmd, err := decode[domain.AddReactionCommand](data)
		if err != nil {
			return err
		}
		_, err = h.service.AddReaction(ctx, conn, cmd)
		return err
	case DeleteMessage:
		cmd, err := decode[domain.DeleteMessageCommand](data)
		if err != nil {
			return err
		}
		return h.service.DeleteMessage(ctx, conn, cmd)
	case UserPresence:
		cmd, err := decode[domain.UserPresenceCommand](data)
		if err != nil {
			return err
		}
		return h.service.UserPresence(ctx, conn, cmd)
	default:
		return unknown(name)
	}
}

// DirectMessagesHandler serves /socket/dm.
type DirectMessagesHandler struct {
	service  services.IDirectMessageService
	registry *runtime.Registry
}

func NewDirectMessagesHandler(service services.IDirectMessageService, registry *runtime.Registry) *DirectMessagesHandler {
	return &DirectMessagesHandler{service: service, registry: registry}
}

func (h *DirectMessagesHandler) OnConnect(context.Context, contract.Connection) {}

func (h *DirectMessagesHandler) OnDisconnect(_ context.Context, conn contract.Connection) {
	h.registry.Release(conn.UserID(), conn.ID())
}

func (h *DirectMessagesHandler) Handle(ctx context.Context, conn contract.Connection, name string, data []byte) error {
	switch name {
	case SendMessage:
		cmd, err := decode[domain.SendDirectMessageCommand](data)
		if err != nil {
			return err
		}
		_, err = h.service.Send(ctx, conn, cmd)
		return err
	case Typing:
		cmd, err := decode[domain.TypingCommand](data)
		if err != nil {
			return err
		}
		return h.service.Typing(ctx, conn, cmd)
	case MarkAsRead:
		cmd, err := decode[domain.MarkAsReadCommand](data)
		if err != nil {
			return err
		}
		_, err = h.service.MarkAsRead(ctx, conn.UserID(), cmd)
		return err
	case DeleteMessage:
		cmd, err := decode[domain.DeleteMessageCommand](data)
		if err != nil {
			return err
		}
		return h.service.Delete(ctx, conn, cmd)
	default:
		return unknown(name)
	}
}

// FriendsHandler serves /socket/friends.
type FriendsHandler struct {
	service services.IFriendService
}

func NewFriendsHandler(service services.IFriendService) *FriendsHandler {
	return &FriendsHandler{service: service}
}

func (h *FriendsHandler) OnConnect(ctx context.Context, conn contract.Connection) {
	h.service.Connect(ctx, conn)
}

func (h *FriendsHandler) OnDisconnect(ctx context.Context, conn contract.Connection) {
	h.service.Disconnect(ctx, conn)
}

func (h *FriendsHandler) Handle(ctx context.Context, conn contract.Connection, name string, data []byte) error {
	switch name {
	case OnlineStatus:
		cmd, err := decode[domain.OnlineStatusCommand](data)
		if err != nil {
			return err
		}
		return h.service.OnlineStatus(ctx, conn, cmd)
	default:
		return unknown(name)
	}
}
