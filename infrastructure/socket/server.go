// Package socket serves the three real-time namespaces over websockets.
// Frames are JSON objects {"event": "<name>", "data": {...}} in both directions.
package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"team-chat/auth"
	"team-chat/contract"
	"team-chat/domain"
	"team-chat/errors"
	"team-chat/observability"
	"team-chat/runtime"
	"team-chat/sink"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	maxFrameBytes = 1 << 20
	pongWait      = 60 * time.Second
	pingPeriod    = 30 * time.Second
	writeWait     = 10 * time.Second
)

// Handler gives a namespace its behavior. The server owns the transport and the registration.
type Handler interface {
	OnConnect(ctx context.Context, conn contract.Connection)
	Handle(ctx context.Context, conn contract.Connection, name string, data []byte) error
	OnDisconnect(ctx context.Context, conn contract.Connection)
}

type Options struct {
	BufferSize int
	EventRate  float64
	EventBurst int
}

type Server struct {
	log        *slog.Logger
	namespace  domain.Namespace
	tokens     *auth.TokenManager
	dispatcher *runtime.Dispatcher
	handler    Handler
	opts       Options
	upgrader   websocket.Upgrader
}

func NewServer(log *slog.Logger, tokens *auth.TokenManager, dispatcher *runtime.Dispatcher, handler Handler, opts Options) *Server {
	namespace := dispatcher.Registry().Namespace()
	if opts.BufferSize <= 0 {
		opts.BufferSize = 256
	}
	return &Server{
		log:        log.With("namespace", namespace.String()),
		namespace:  namespace,
		tokens:     tokens,
		dispatcher: dispatcher,
		handler:    handler,
		opts:       opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Path is where the namespace is mounted.
func (s *Server) Path() string { return "/socket/" + s.namespace.String() }

// Serve authenticates the upgrade request, then runs the connection until it closes.
// An unauthenticated request gets a 401 and is never upgraded.
func (s *Server) Serve(c *gin.Context) {
	claims, err := s.tokens.Authenticate(c.Request)
	if err != nil {
		s.log.Debug("Socket upgrade refused", "remote", c.Request.RemoteAddr, "error", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.PublicMessage(err)})
		return
	}
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("Socket upgrade failed", "user_id", claims.UserID, "error", err)
		return
	}

	conn := sink.NewSocketSink(claims.UserID, s.opts.BufferSize)
	ctx := context.WithoutCancel(c.Request.Context())
	s.dispatcher.Registry().Register(conn.UserID(), conn)
	s.log.Info("Connection opened", "user_id", conn.UserID(), "connection_id", conn.ID())
	s.handler.OnConnect(ctx, conn)

	go s.writePump(ws, conn)
	s.readPump(ctx, ws, conn)
}

func (s *Server) readPump(ctx context.Context, ws *websocket.Conn, conn *sink.SocketSink) {
	defer func() {
		conn.Close()
		_ = ws.Close()
		s.handler.OnDisconnect(ctx, conn)
		s.log.Info("Connection closed", "user_id", conn.UserID(), "connection_id", conn.ID())
	}()
	ws.SetReadLimit(maxFrameBytes)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	limiter := rate.NewLimiter(rate.Inf, 0)
	if s.opts.EventRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.opts.EventRate), s.opts.EventBurst)
	}
	for {
		_, frame, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("Unexpected close", "user_id", conn.UserID(), "error", err)
			}
			return
		}
		s.process(ctx, conn, limiter, frame)
	}
}

// process handles one inbound frame. Nothing here closes the connection.
func (s *Server) process(ctx context.Context, conn *sink.SocketSink, limiter *rate.Limiter, frame []byte) {
	if !gjson.ValidBytes(frame) {
		s.dispatcher.Fail(ctx, conn, "", fmt.Errorf("%w: malformed frame", errors.ErrInvalidPayload))
		return
	}
	parsed := gjson.ParseBytes(frame)
	name := parsed.Get("event").String()
	if name == "" {
		s.dispatcher.Fail(ctx, conn, "", fmt.Errorf("%w: missing event name", errors.ErrInvalidPayload))
		return
	}
	observability.EventsReceived.WithLabelValues(s.namespace.String(), name).Inc()
	if !limiter.Allow() {
		s.dispatcher.Fail(ctx, conn, name, errors.ErrTooManyEvents)
		return
	}
	data := []byte(parsed.Get("data").Raw)
	if err := s.handler.Handle(ctx, conn, name, data); err != nil {
		s.dispatcher.Fail(ctx, conn, name, err)
	}
}

func (s *Server) writePump(ws *websocket.Conn, conn *sink.SocketSink) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()
	for {
		select {
		case <-conn.Done():
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case evt := <-conn.Outbound:
			payload, err := json.Marshal(evt)
			if err != nil {
				s.log.Error("Cannot encode event", "event", evt.Name, "error", err)
				continue
			}
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := ws.NextWriter(websocket.TextMessage)
			if err != nil {
				conn.Close()
				return
			}
			_, _ = w.Write(payload)
			if err := w.Close(); err != nil {
				conn.Close()
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}
