package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"team-chat/auth"
	"team-chat/domain"
	"team-chat/errors"
	"team-chat/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type handler struct {
	log            *slog.Logger
	auth           services.IAuthService
	workspaces     services.IWorkspaceService
	channels       services.IChannelService
	directMessages services.IDirectMessageService
	friends        services.IFriendService
}

// abort answers with the status and public message of err.
func abort(c *gin.Context, log *slog.Logger, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errors.PublicMessage(err)})
}

// bind decodes the JSON body into v and runs the validate tags.
func bind(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return nil
}

func (h *handler) register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, h.log, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err))
		return
	}
	session, err := h.auth.Register(req)
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *handler) login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, h.log, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err))
		return
	}
	session, err := h.auth.Login(req)
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *handler) createWorkspace(c *gin.Context) {
	var cmd domain.CreateWorkspaceCommand
	if err := bind(c, &cmd); err != nil {
		abort(c, h.log, err)
		return
	}
	workspace, err := h.workspaces.CreateWorkspace(auth.UserID(c), cmd)
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, workspace)
}

func (h *handler) listChannels(c *gin.Context) {
	channels, err := h.workspaces.ListChannels(auth.UserID(c), c.Param("id"))
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

func (h *handler) createChannel(c *gin.Context) {
	var cmd domain.CreateChannelCommand
	if err := bind(c, &cmd); err != nil {
		abort(c, h.log, err)
		return
	}
	cmd.WorkspaceID = c.Param("id")
	channel, err := h.workspaces.CreateChannel(auth.UserID(c), cmd)
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, channel)
}

func (h *handler) getMessages(c *gin.Context) {
	var cursor *string
	if raw, ok := c.GetQuery("cursor"); ok && raw != "" {
		cursor = &raw
	}
	page, err := h.channels.GetMessages(auth.UserID(c), ChannelFrom(c).ID, cursor)
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handler) search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	hits, err := h.channels.Search(c.Request.Context(), auth.UserID(c), ChannelFrom(c).ID, c.Query("q"), limit)
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits})
}

func (h *handler) addMember(c *gin.Context) {
	var cmd domain.MemberCommand
	if err := bind(c, &cmd); err != nil {
		abort(c, h.log, err)
		return
	}
	channel, err := h.workspaces.AddMember(c.Request.Context(), auth.UserID(c), ChannelFrom(c).ID, cmd.UserID)
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, channel)
}

func (h *handler) removeMember(c *gin.Context) {
	channel, err := h.workspaces.RemoveMember(c.Request.Context(), auth.UserID(c), ChannelFrom(c).ID, c.Param("userId"))
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, channel)
}

func (h *handler) conversation(c *gin.Context) {
	messages, err := h.directMessages.Conversation(auth.UserID(c), c.Param("userId"))
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *handler) sendDirectMessage(c *gin.Context) {
	var body struct {
		Content string `json:"content" validate:"required,max=4000"`
	}
	if err := bind(c, &body); err != nil {
		abort(c, h.log, err)
		return
	}
	message, err := h.directMessages.SendFrom(c.Request.Context(), auth.UserID(c), domain.SendDirectMessageCommand{
		ReceiverID: c.Param("userId"),
		Content:    body.Content,
	})
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *handler) listFriends(c *gin.Context) {
	status := domain.FriendshipStatus(c.DefaultQuery("status", string(domain.FriendshipAccepted)))
	switch status {
	case domain.FriendshipAccepted, domain.FriendshipPending, domain.FriendshipBlocked:
	default:
		abort(c, h.log, fmt.Errorf("%w: unknown status %q", errors.ErrInvalidPayload, status))
		return
	}
	profiles, err := h.friends.List(auth.UserID(c), status)
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": profiles})
}

func (h *handler) requestFriend(c *gin.Context) {
	friendship, err := h.friends.Request(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, friendship)
}

func (h *handler) acceptFriend(c *gin.Context) {
	friendship, err := h.friends.Accept(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, friendship)
}

func (h *handler) blockUser(c *gin.Context) {
	friendship, err := h.friends.Block(auth.UserID(c), c.Param("id"))
	if err != nil {
		abort(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, friendship)
}
