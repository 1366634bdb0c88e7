package rest

import (
	"log/slog"
	"team-chat/auth"
	"team-chat/domain"
	"team-chat/errors"
	"team-chat/infrastructure/storage"

	"github.com/gin-gonic/gin"
)

const channelKey = "channel"

// RequireChannelAccess loads the channel of the :id parameter and applies the
// same membership rule as the socket namespaces. A refusal carries the same
// message as the socket error event.
func RequireChannelAccess(log *slog.Logger, channels storage.IChannelRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.UserID(c)
		channel, err := channels.FindByID(c.Param("id"))
		if err != nil {
			abort(c, log, err)
			return
		}
		if !channel.CanAccess(userID) {
			log.Warn("Channel access refused", "channel_id", channel.ID, "user_id", userID)
			abort(c, log, errors.ErrPrivateChannel)
			return
		}
		c.Set(channelKey, channel)
		c.Next()
	}
}

// ChannelFrom returns the channel loaded by RequireChannelAccess.
func ChannelFrom(c *gin.Context) domain.Channel {
	channel, _ := c.MustGet(channelKey).(domain.Channel)
	return channel
}
