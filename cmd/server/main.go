package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"team-chat/auth"
	"team-chat/infrastructure/grpc/server"
	"team-chat/infrastructure/rest"
	"team-chat/infrastructure/socket"
	"team-chat/infrastructure/storage"
	"team-chat/internal"
	"team-chat/moderation"
	"team-chat/observability"
	"team-chat/runtime"
	"team-chat/runtime/workers"
	"team-chat/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run builds every component, supervises the long-lived ones and blocks until a signal.
// Deferred cleanups (badger, bluge) always run before the exit code is returned.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Stores
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, internal.InspectMapper)
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	media, err := storage.NewDiskMediaStore(config.MediaDir, config.MediaBaseURL, config.MaxAttachmentBytes)
	if err != nil {
		return exitRuntime, err
	}
	screener, err := moderation.NewScreenerFromDictionary(charReplacement, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("moderation dictionary: %w", err)
	}

	userRepository := storage.NewUserRepository(db)
	workspaceRepository := storage.NewWorkspaceRepository(db)
	channelRepository := storage.NewChannelRepository(db)
	messageRepository := storage.NewMessageRepository(db, logger, config.LimitMessages)
	directMessageRepository := storage.NewDirectMessageRepository(db)
	friendshipRepository := storage.NewFriendshipRepository(db)
	messageIndex := storage.NewMessageIndex(blugeWriter)

	// 3. Real-time core: one registry and one dispatcher per namespace
	hub := runtime.NewHub()
	channelsOut := runtime.NewDispatcher(logger, hub.Channels, config.SinkTimeout)
	dmOut := runtime.NewDispatcher(logger, hub.DM, config.SinkTimeout)
	friendsOut := runtime.NewDispatcher(logger, hub.Friends, config.SinkTimeout)

	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	channelService := services.NewChannelService(logger, channelsOut, userRepository, workspaceRepository,
		channelRepository, messageRepository, messageIndex, media, screener)
	workspaceService := services.NewWorkspaceService(logger, channelsOut, userRepository, workspaceRepository, channelRepository)
	dmService := services.NewDirectMessageService(logger, dmOut, userRepository, directMessageRepository, friendshipRepository, screener)
	friendService := services.NewFriendService(logger, friendsOut, userRepository, friendshipRepository)

	socketOpts := socket.Options{
		BufferSize: config.ConnectionBufferSize,
		EventRate:  config.EventRate,
		EventBurst: config.EventBurst,
	}
	monitoring := observability.NewMonitoringManager()
	router := rest.NewRouter(rest.Dependencies{
		Log:            logger,
		Tokens:         tokens,
		Auth:           services.NewAuthService(logger, userRepository, tokens),
		Workspaces:     workspaceService,
		Channels:       channelService,
		DirectMessages: dmService,
		Friends:        friendService,
		ChannelStore:   channelRepository,
		Monitoring:     monitoring,
		MediaDir:       config.MediaDir,
		Sockets: []*socket.Server{
			socket.NewServer(logger, tokens, dmOut, socket.NewDirectMessagesHandler(dmService, hub.DM), socketOpts),
			socket.NewServer(logger, tokens, channelsOut, socket.NewChannelsHandler(channelService), socketOpts),
			socket.NewServer(logger, tokens, friendsOut, socket.NewFriendsHandler(friendService), socketOpts),
		},
	})

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervised workers
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	supervisor.Add(
		rest.NewServerWorker(logger, config.Port, router),
		server.NewAdminServer(logger, config.AdminPort, monitoring, config.MetricInterval),
		workers.NewHealthMonitoringWorker(logger, hub, monitoring, config.MetricInterval),
	)

	logger.Info("Starting team chat", "port", config.Port, "admin_port", config.AdminPort)
	supervisor.Run(ctx)

	logger.Info("Program stopped cleanly", "worker_restarts", supervisor.Restarts())
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}
