package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/relaychat/relay/internal/config"
	"github.com/relaychat/relay/internal/handler"
	"github.com/relaychat/relay/internal/history"
	"github.com/relaychat/relay/internal/hub"
	"github.com/relaychat/relay/internal/registry"
	"github.com/relaychat/relay/internal/room"
	"github.com/relaychat/relay/internal/service"
	pkglog "github.com/relaychat/relay/pkg/log"
	"github.com/relaychat/relay/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "relay",
	})
	logger := pkglog.L()

	// In-memory state: registry, room index, bounded message log.
	users := registry.New()
	rooms := room.NewIndex()
	messages := history.NewLog(cfg.History.Capacity)

	// The hub resolves room membership through the index at dispatch time.
	wsHub := hub.NewHub(rooms)

	chatSvc := service.NewChatService(users, rooms, messages, wsHub)
	wsHandler := handler.NewWSHandler(wsHub, chatSvc, cfg.WebSocket)

	store, localBase, err := newStorage(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize attachment storage")
	}

	httpHandler := handler.NewHTTPHandler(users, rooms, messages, store, cfg.Storage.URLTTL)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	r.GET("/ws", gin.WrapF(wsHandler.HandleWebSocket))
	httpHandler.RegisterRoutes(r)

	if localBase != "" {
		r.Static(cfg.Storage.Local.URLPrefix, localBase)
	}

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     r,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("relay listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("relay stopped")
}

// newStorage builds the configured attachment backend. For the local
// backend it also returns the base path so uploads can be served back
// over HTTP.
func newStorage(cfg config.StorageConfig) (storage.Storage, string, error) {
	switch cfg.Backend {
	case "s3":
		s, err := storage.NewS3Storage(context.Background(), cfg.S3)
		return s, "", err
	default:
		s, err := storage.NewLocalStorage(cfg.Local)
		if err != nil {
			return nil, "", err
		}
		return s, s.BasePath(), nil
	}
}
