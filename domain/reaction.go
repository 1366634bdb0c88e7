package domain

import (
	"slices"

	"github.com/samber/lo"
)

type Reaction struct {
	Emoji string   `json:"emoji"`
	Users []string `json:"users"`
}

type ReactionOutcome string

const (
	ReactionAdded    ReactionOutcome = "added"
	ReactionSwitched ReactionOutcome = "switched"
	ReactionRemoved  ReactionOutcome = "removed"
)

// ToggleReaction applies one reaction of userID to a message reaction list.
// A user holds at most one reaction per message: reacting with a different emoji
// moves the user, reacting again with the same emoji removes it.
// Entries left without users are dropped. The input slice is not modified.
func ToggleReaction(reactions []Reaction, userID, emoji string) ([]Reaction, ReactionOutcome) {
	next := make([]Reaction, 0, len(reactions)+1)
	removedFrom, found := "", false
	for _, r := range reactions {
		if slices.Contains(r.Users, userID) {
			removedFrom, found = r.Emoji, true
			r = Reaction{Emoji: r.Emoji, Users: lo.Without(r.Users, userID)}
		}
		if len(r.Users) == 0 {
			continue
		}
		next = append(next, Reaction{Emoji: r.Emoji, Users: slices.Clone(r.Users)})
	}

	if found && removedFrom == emoji {
		return next, ReactionRemoved
	}

	outcome := ReactionAdded
	if found {
		outcome = ReactionSwitched
	}
	idx := slices.IndexFunc(next, func(r Reaction) bool { return r.Emoji == emoji })
	if idx < 0 {
		return append(next, Reaction{Emoji: emoji, Users: []string{userID}}), outcome
	}
	next[idx].Users = append(next[idx].Users, userID)
	return next, outcome
}
