// Package domain contains core concepts of the chat system.
// This file defines channels and the rules deciding who may reach them.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"slices"
	"team-chat/errors"
	"time"

	"github.com/samber/lo"
)

type Channel struct {
	ID           string    `json:"id"`
	WorkspaceID  string    `json:"workspaceId"`
	Name         string    `json:"name"`
	IsPrivate    bool      `json:"isPrivate"`
	CreatedBy    string    `json:"createdBy"`
	AllowedUsers []string  `json:"allowedUsers"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CanAccess decides whether userID may read or write the channel.
// It is the only membership check: HTTP guards and socket handlers both call it.
func (c Channel) CanAccess(userID string) bool {
	if !c.IsPrivate {
		return true
	}
	if userID == c.CreatedBy {
		return true
	}
	return slices.Contains(c.AllowedUsers, userID)
}

// EffectiveMembers returns the access set of a private channel.
// The owner is always first and never duplicated, whatever AllowedUsers holds.
func (c Channel) EffectiveMembers() []string {
	members := make([]string, 0, len(c.AllowedUsers)+1)
	if c.CreatedBy != "" {
		members = append(members, c.CreatedBy)
	}
	members = append(members, c.AllowedUsers...)
	return lo.Uniq(lo.Compact(members))
}

// AddAllowedUser grants userID access to a private channel on behalf of actorID.
func (c *Channel) AddAllowedUser(actorID, userID string) error {
	if err := c.checkOwner(actorID); err != nil {
		return err
	}
	if userID == c.CreatedBy || slices.Contains(c.AllowedUsers, userID) {
		return errors.ErrAlreadyMember
	}
	c.AllowedUsers = append(c.AllowedUsers, userID)
	return nil
}

// RemoveAllowedUser revokes userID. Removing someone who was never allowed is reported as not-found.
func (c *Channel) RemoveAllowedUser(actorID, userID string) error {
	if err := c.checkOwner(actorID); err != nil {
		return err
	}
	if userID == c.CreatedBy {
		return errors.ErrOwnerRemoval
	}
	if !slices.Contains(c.AllowedUsers, userID) {
		return errors.ErrNotMember
	}
	c.AllowedUsers = lo.Without(c.AllowedUsers, userID)
	return nil
}

func (c *Channel) checkOwner(actorID string) error {
	if !c.IsPrivate {
		return errors.ErrChannelNotPrivate
	}
	if actorID != c.CreatedBy {
		return errors.ErrNotChannelOwner
	}
	return nil
}

// PartitionAccessible splits channels into those userID may join and those it may not.
// Public channels always land in the first slice.
func PartitionAccessible(channels []Channel, userID string) (joinable []Channel, denied []Channel) {
	return lo.FilterReject(channels, func(ch Channel, _ int) bool {
		return ch.CanAccess(userID)
	})
}
