package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-manager/internal/config"
	"github.com/adanyl0v/task-manager/internal/delivery/http/v1"
	"github.com/adanyl0v/task-manager/internal/mail"
	"github.com/adanyl0v/task-manager/internal/metrics"
	"github.com/adanyl0v/task-manager/internal/services"
	"github.com/adanyl0v/task-manager/internal/storage"
)

func MustListenAndServeHTTP(cfg *config.Config, store storage.Store) {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP
	notifications := services.NewNotificationService(
		globalLogger,
		mail.NewSendGridMailer(cfg.Mail),
		cfg.Mail.SendTimeout,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())
	registerRoutes(router, cfg, store, notifications)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")

	notifications.Wait()
	globalLogger.Info().Msg("flushed pending notifications")
}

func registerRoutes(
	router *gin.Engine,
	cfg *config.Config,
	store storage.Store,
	notifications services.NotificationService,
) {
	authService := services.NewAuthService(
		globalLogger,
		store,
		nil,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.Secret),
	)
	v1Handler := v1.New(
		globalLogger,
		authService,
		services.NewSessionService(globalLogger, authService, store),
		services.NewUserService(globalLogger, authService, store, store),
		services.NewTaskService(globalLogger, store),
		notifications,
	)

	router.Use(v1Handler.HandleRequestLogger)
	router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	v1.RegisterRoutes(router, v1Handler)
}
