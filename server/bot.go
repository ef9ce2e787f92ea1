package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"video-archive-bot/config"
	"video-archive-bot/constant"
	"video-archive-bot/conversation"
	"video-archive-bot/dto"
	"video-archive-bot/handler"
	"video-archive-bot/pkg/rabbitmq"
	"video-archive-bot/pkg/telegram"
	"video-archive-bot/repository"
	"video-archive-bot/service"
)

func RunBot(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(SetupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().
		Str("env", cfg.App.Environment).
		Int("operators", len(cfg.Bot.OperatorIDs)).
		Str("channel", cfg.Bot.Channel.String()).
		Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := OpenRepository(ctx, cfg)
	if err != nil {
		return err
	}

	publisher := rabbitmq.NewNoopPublisher()
	if cfg.Queue != nil {
		conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("NewRabbitMQConn, events disabled")
		} else if publisher, err = rabbitmq.NewPublisher(ctx, conn, cfg.Queue); err != nil {
			return err
		}
	}

	client, err := telegram.NewClient(cfg.Bot.Token, cfg.Bot.PollTimeout, cfg.Bot.Debug)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("bot", client.Username()).Msg("authorized on telegram")

	videoService := service.NewService(repo, publisher)
	botHandler := handler.NewHandler(
		client,
		videoService,
		conversation.NewMemoryStore(),
		handler.NewOperatorGate(cfg.Bot.OperatorIDs),
		cfg.Bot.Channel,
	)

	dispatcher := telegram.NewDispatcher(cfg.Server.Workers, chatPartition, botHandler.Handle)
	done := make(chan error, 1)
	go func() {
		zerolog.Ctx(ctx).Info().Int("workers", cfg.Server.Workers).Msg("bot started and polling")
		done <- dispatcher.Dispatch(ctx, client.Updates(ctx))
	}()

	httpServer := http.Server{
		Handler:           newRouter(repo),
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("addr", httpServer.Addr).Msg("start http server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("http server shutdown")
	}

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		zerolog.Ctx(ctx).Error().Err(err).Msg("dispatcher stopped")
	}

	if err := cfg.DB.Close(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to close database")
	}

	zerolog.Ctx(ctx).Info().Msg("bot stopped")
	return nil
}

// OpenRepository wraps the configured database and brings its schema up to
// date.
func OpenRepository(ctx context.Context, cfg *config.Config) (repository.VideoRepository, error) {
	logLevel := gormlogger.Warn
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		logLevel = gormlogger.Info
	}

	repo, err := repository.NewRepo(cfg.DB, cfg.Database.Driver, logLevel)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("driver", cfg.Database.Driver.String()).Msg("migrating database")
	if err := repo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	zerolog.Ctx(ctx).Info().Msg("database ready")

	return repo, nil
}

func chatPartition(msg dto.IncomingMessage) int64 {
	return msg.ChatID
}

func SetupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
