// Package domain contains core concepts of the chat system.
// This file defines user accounts and the public projection events carry.
package domain

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Avatar       string    `json:"avatar,omitempty"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserProfile is what other users are allowed to see.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

func (u User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}
