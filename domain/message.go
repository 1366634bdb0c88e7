// Package domain contains core concepts of the chat system.
// This file defines channel messages.
// Messages are hard deleted: once removed they simply vanish from the channel.
package domain

import "time"

type Message struct {
	ID         string     `json:"id"`
	ChannelID  string     `json:"channelId"`
	SenderID   string     `json:"senderId"`
	Content    string     `json:"content"`
	Attachment string     `json:"attachment,omitempty"`
	Language   string     `json:"language,omitempty"`
	Reactions  []Reaction `json:"reactions"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Page is one slice of a channel history, newest first.
type Page struct {
	Messages []Message `json:"messages"`
	Cursor   *string   `json:"cursor,omitempty"`
}
