// Package rest exposes the HTTP surface: account endpoints, workspace and channel
// management, history, search, direct messages, friends and the socket namespaces.
package rest

import (
	"log/slog"
	"net/http"
	"team-chat/auth"
	"team-chat/infrastructure/socket"
	"team-chat/infrastructure/storage"
	"team-chat/observability"
	"team-chat/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	Log            *slog.Logger
	Tokens         *auth.TokenManager
	Auth           services.IAuthService
	Workspaces     services.IWorkspaceService
	Channels       services.IChannelService
	DirectMessages services.IDirectMessageService
	Friends        services.IFriendService
	ChannelStore   storage.IChannelRepository
	Monitoring     *observability.MonitoringManager
	MediaDir       string
	Sockets        []*socket.Server
}

// NewRouter wires middlewares, REST routes and the socket namespaces on one gin engine.
func NewRouter(deps Dependencies) *gin.Engine {
	h := &handler{
		log:            deps.Log.With("component", "rest"),
		auth:           deps.Auth,
		workspaces:     deps.Workspaces,
		channels:       deps.Channels,
		directMessages: deps.DirectMessages,
		friends:        deps.Friends,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.GinMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		stats := deps.Monitoring.Latest()
		status := http.StatusOK
		if stats.Status == "degraded" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, stats)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.MediaDir != "" {
		r.Static("/media", deps.MediaDir)
	}

	r.POST("/auth/register", h.register)
	r.POST("/auth/login", h.login)

	for _, server := range deps.Sockets {
		r.GET(server.Path(), server.Serve)
	}

	authed := r.Group("")
	authed.Use(auth.RequireAuth(deps.Tokens))

	authed.POST("/workspaces", h.createWorkspace)
	authed.GET("/workspaces/:id/channels", h.listChannels)
	authed.POST("/workspaces/:id/channels", h.createChannel)

	channel := authed.Group("/channels/:id")
	channel.Use(RequireChannelAccess(deps.Log, deps.ChannelStore))
	channel.GET("/messages", h.getMessages)
	channel.GET("/search", h.search)
	channel.POST("/members", h.addMember)
	channel.DELETE("/members/:userId", h.removeMember)

	authed.GET("/dm/:userId", h.conversation)
	authed.POST("/dm/:userId", h.sendDirectMessage)

	authed.GET("/friends", h.listFriends)
	authed.POST("/friends/:id", h.requestFriend)
	authed.POST("/friends/:id/accept", h.acceptFriend)
	authed.POST("/friends/:id/block", h.blockUser)

	return r
}
