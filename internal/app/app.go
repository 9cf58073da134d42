package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/notify-backend/internal/adapter/postgres"
	"github.com/heartmarshall/notify-backend/internal/adapter/postgres/directory"
	"github.com/heartmarshall/notify-backend/internal/adapter/postgres/entity"
	notificationrepo "github.com/heartmarshall/notify-backend/internal/adapter/postgres/notification"
	"github.com/heartmarshall/notify-backend/internal/adapter/postgres/subscription"
	"github.com/heartmarshall/notify-backend/internal/adapter/redis"
	"github.com/heartmarshall/notify-backend/internal/adapter/webpush"
	"github.com/heartmarshall/notify-backend/internal/auth"
	"github.com/heartmarshall/notify-backend/internal/config"
	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/approval"
	"github.com/heartmarshall/notify-backend/internal/service/automation"
	"github.com/heartmarshall/notify-backend/internal/service/notification"
	"github.com/heartmarshall/notify-backend/internal/service/push"
	"github.com/heartmarshall/notify-backend/internal/transport/middleware"
	"github.com/heartmarshall/notify-backend/internal/transport/rest"
)

const (
	// eventTimeout bounds the handling of one change event, recipient
	// lookups and notification writes included.
	eventTimeout = 30 * time.Second
	// pushMargin is added to the delivery timeout for background pushes so
	// the engine's own deadline fires first.
	pushMargin = 5 * time.Second
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and serves HTTP until ctx is cancelled, then
// drains background work.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("events_transport", cfg.Events.Transport),
		slog.Bool("push_configured", cfg.Push.Configured()),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return err
		}
	}

	// Repositories.
	notificationRepo := notificationrepo.New(pool)
	subscriptionRepo := subscription.New(pool)
	entityRepo := entity.New(pool)
	directoryRepo := directory.New(pool)
	txm := postgres.NewTxManager(pool)

	// Services.
	sender := webpush.NewSender(cfg.Push, &http.Client{})
	pushService := push.NewService(logger, subscriptionRepo, sender, cfg.Push)
	notificationService := notification.NewService(
		logger, notificationRepo, pushService, directoryRepo,
		cfg.Push.DeliveryTimeout+pushMargin,
	)
	dispatcher := automation.NewDispatcher(
		logger, notificationService, directoryRepo, entityRepo, cfg.Automation,
	)
	sink := automation.NewAsyncSink(logger, dispatcher, eventTimeout)

	health := rest.NewHealthHandler(pool, BuildVersion())

	// Approval transitions feed the dispatcher directly, or through Redis
	// so that every replica sees them.
	var events eventPublisher = sink
	var bus *redis.Bus
	if cfg.Events.Transport == config.TransportRedis {
		bus, err = redis.NewBus(ctx, cfg.Events, logger)
		if err != nil {
			return err
		}
		defer bus.Close() //nolint:errcheck
		events = bus
		health.WithCheck("event_bus", bus)
	}

	approvalService := approval.NewService(
		logger, entityRepo, txm, events, cfg.Approval.ElevatedRoles(),
	)

	// HTTP.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, 0)
	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.Router{
		Health:       health,
		Notification: rest.NewNotificationHandler(notificationService, logger),
		Push:         rest.NewPushHandler(pushService, logger),
		Automation:   rest.NewAutomationHandler(dispatcher, logger, eventTimeout),
		Approval:     rest.NewApprovalHandler(approvalService, logger),
		User: middleware.Chain(
			middleware.RequireAuth,
			middleware.When(cfg.Server.RateLimitPerMinute > 0, limiter.Limit(cfg.Server.RateLimitPerMinute)),
		),
		Internal: middleware.InternalKey(cfg.Auth.InternalAPIKey),
	}

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtManager),
	)(router.Handler())

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	errCh := make(chan error, 2)
	if bus != nil {
		go func() {
			err := bus.Run(runCtx, func(ctx context.Context, ev domain.ChangeEvent) error {
				return sink.Publish(ctx, ev)
			}, nil)
			if err != nil {
				errCh <- fmt.Errorf("event bus: %w", err)
			}
		}()
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case runErr = <-errCh:
		logger.Error("server failed", slog.String("error", runErr.Error()))
	}

	stop()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.String("error", err.Error()))
	}

	drain(shutdownCtx, logger, sink.Wait, notificationService.Wait)
	logger.Info("shutdown complete")

	return runErr
}

type eventPublisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

// drain waits for background work in order, giving up when ctx expires.
func drain(ctx context.Context, logger *slog.Logger, waits ...func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, wait := range waits {
			wait()
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("background work still running at shutdown deadline")
	}
}
