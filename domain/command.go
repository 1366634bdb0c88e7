package domain

// Commands are decoded from inbound socket frames and REST bodies.
// The acting user never comes from the payload: it is the authenticated identity.

type JoinChannelCommand struct {
	ChannelID string `json:"channelId" validate:"required"`
}

type JoinWorkspaceCommand struct {
	WorkspaceID string `json:"workspaceId" validate:"required"`
}

type LeaveChannelCommand struct {
	ChannelID string `json:"channelId" validate:"required"`
}

type SendMessageCommand struct {
	ChannelID string `json:"channelId" validate:"required"`
	Content   string `json:"content" validate:"required_without=Image,max=4000"`
	// Image is an optional base64 encoded attachment.
	Image string `json:"image,omitempty" validate:"omitempty,base64"`
}

type AddReactionCommand struct {
	MessageID string `json:"messageId" validate:"required"`
	Emoji     string `json:"emoji" validate:"required,max=32"`
}

type DeleteMessageCommand struct {
	MessageID string `json:"messageId" validate:"required"`
}

type UserPresenceCommand struct {
	Status string `json:"status" validate:"required,oneof=online away busy offline"`
}

type SendDirectMessageCommand struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required,max=4000"`
}

type TypingCommand struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	IsTyping   bool   `json:"isTyping"`
}

type MarkAsReadCommand struct {
	SenderID string `json:"senderId" validate:"required"`
}

type OnlineStatusCommand struct {
	IsOnline bool `json:"isOnline"`
}

type CreateWorkspaceCommand struct {
	Name string `json:"name" validate:"required,min=2,max=64"`
}

type CreateChannelCommand struct {
	WorkspaceID  string   `json:"-"`
	Name         string   `json:"name" validate:"required,min=2,max=64"`
	IsPrivate    bool     `json:"isPrivate"`
	AllowedUsers []string `json:"allowedUsers" validate:"dive,required"`
}

type MemberCommand struct {
	UserID string `json:"userId" validate:"required"`
}
