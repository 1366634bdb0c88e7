// Package event lists everything the server pushes to live connections.
package event

import (
	"team-chat/domain"
	"time"
)

type Name string

const (
	UserJoinedChannel     Name = "userJoinedChannel"
	ChannelJoined         Name = "channelJoined"
	WorkspaceJoined       Name = "workspaceJoined"
	UserLeftChannel       Name = "userLeftChannel"
	ReceiveMessage        Name = "receiveMessage"
	MessageSent           Name = "messageSent"
	MessageReaction       Name = "messageReaction"
	MessageDeleted        Name = "messageDeleted"
	UserPresence          Name = "userPresence"
	Typing                Name = "typing"
	MessagesRead          Name = "messagesRead"
	OnlineStatus          Name = "onlineStatus"
	FriendRequest         Name = "friendRequest"
	FriendRequestAccepted Name = "friendRequestAccepted"
	Error                 Name = "error"
)

// Event is one outbound frame: {"event": ..., "data": ...}.
type Event struct {
	Name    Name `json:"event"`
	Payload any  `json:"data"`
}

func New(name Name, payload any) Event {
	return Event{Name: name, Payload: payload}
}

type UserJoinedChannelPayload struct {
	ChannelID string             `json:"channelId"`
	User      domain.UserProfile `json:"user"`
	At        time.Time          `json:"at"`
}

type ChannelJoinedPayload struct {
	ChannelID string `json:"channelId"`
	IsPrivate bool   `json:"isPrivate"`
}

type UserLeftChannelPayload struct {
	ChannelID string    `json:"channelId"`
	UserID    string    `json:"userId"`
	At        time.Time `json:"at"`
}

type MessagePayload struct {
	Message domain.Message     `json:"message"`
	Sender  domain.UserProfile `json:"sender"`
}

type MessageSentPayload struct {
	MessageID   string `json:"messageId"`
	ChannelID   string `json:"channelId,omitempty"`
	ReceiverID  string `json:"receiverId,omitempty"`
	DeliveredTo int    `json:"deliveredTo"`
}

type DirectMessagePayload struct {
	Message domain.DirectMessage `json:"message"`
	Sender  domain.UserProfile   `json:"sender"`
}

type MessageReactionPayload struct {
	MessageID string            `json:"messageId"`
	ChannelID string            `json:"channelId"`
	UserID    string            `json:"userId"`
	Emoji     string            `json:"emoji"`
	Outcome   string            `json:"outcome"`
	Reactions []domain.Reaction `json:"reactions"`
}

type MessageDeletedPayload struct {
	MessageID string `json:"messageId"`
	ChannelID string `json:"channelId,omitempty"`
	DeletedBy string `json:"deletedBy"`
}

type UserPresencePayload struct {
	UserID string    `json:"userId"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

type TypingPayload struct {
	SenderID string `json:"senderId"`
	IsTyping bool   `json:"isTyping"`
}

type MessagesReadPayload struct {
	ReaderID string    `json:"readerId"`
	Count    int       `json:"count"`
	ReadAt   time.Time `json:"readAt"`
}

type OnlineStatusPayload struct {
	UserID   string    `json:"userId"`
	IsOnline bool      `json:"isOnline"`
	At       time.Time `json:"at"`
}

type FriendRequestPayload struct {
	From   domain.UserProfile      `json:"from"`
	Status domain.FriendshipStatus `json:"status"`
}

type ErrorPayload struct {
	Event   string `json:"event,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
