package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/SAP-F-2025/session-service/internal/config"
	"github.com/SAP-F-2025/session-service/internal/events"
	"github.com/SAP-F-2025/session-service/internal/gateway"
	"github.com/SAP-F-2025/session-service/internal/handlers"
	"github.com/SAP-F-2025/session-service/internal/journal"
	"github.com/SAP-F-2025/session-service/internal/services"
	"github.com/SAP-F-2025/session-service/internal/session"
	"github.com/SAP-F-2025/session-service/internal/store/memory"
	redisstore "github.com/SAP-F-2025/session-service/internal/store/redis"
	"github.com/SAP-F-2025/session-service/internal/utils"
	"github.com/SAP-F-2025/session-service/internal/validator"
	"github.com/SAP-F-2025/session-service/pkg"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the session service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	// Event bus (kafka or mock, per config).
	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()
	notifier := events.NewSessionNotifier(publisher, logger)

	// Snapshot store for session re-attach.
	var snapshots services.SnapshotStore
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect redis: %w", err)
		}
		defer redisClient.Close()
		snapshots = redisstore.NewSnapshotStore(redisClient, cfg.SnapshotTTL)
	}

	// Journal database for terminal session records.
	var archiver session.Archiver = journal.Noop{}
	if cfg.DatabaseURL != "" {
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		j := journal.New(db, logger)
		if err := j.Migrate(); err != nil {
			return err
		}
		archiver = j
	}

	backend := gateway.NewClient(cfg.BackendURL, cfg.BackendTimeout, logger)
	registry := memory.NewRegistry()
	service := services.NewSessionService(
		registry, snapshots, backend, notifier, archiver, logger, validator.New())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	handlers.NewHandlerManager(service, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket watch streams stay open
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("Starting session service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("Shutting down session service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
