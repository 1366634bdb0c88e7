package services

import (
	"log/slog"
	"team-chat/domain"
	"team-chat/infrastructure/storage"
)

// profileOf loads the public projection of userID for an outgoing event.
// A lookup failure never blocks delivery: the event carries the bare id instead.
func profileOf(users storage.IUserRepository, log *slog.Logger, userID string) domain.UserProfile {
	profiles, err := users.FindProfiles([]string{userID})
	if err != nil || len(profiles) == 0 {
		log.Debug("Profile unavailable, sending bare id", "user_id", userID, "error", err)
		return domain.UserProfile{ID: userID}
	}
	return profiles[0]
}
