package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gdelafosse/seerrbridge/internal/api"
	"github.com/gdelafosse/seerrbridge/internal/config"
	"github.com/gdelafosse/seerrbridge/internal/database"
	"github.com/gdelafosse/seerrbridge/internal/history"
	"github.com/gdelafosse/seerrbridge/internal/library"
	"github.com/gdelafosse/seerrbridge/internal/logger"
	"github.com/gdelafosse/seerrbridge/internal/media"
	"github.com/gdelafosse/seerrbridge/internal/seerr"
	"github.com/gdelafosse/seerrbridge/internal/settings"
	"github.com/gdelafosse/seerrbridge/internal/shutdown"
)

const shutdownTimeout = 15 * time.Second

func runServe() {
	cfg := config.Get()

	logger.InitializeLoggers(cfg.Logging.App.Level, cfg.Logging.Database.Level)
	log := logger.AppLogger()

	if err := database.Initialize(); err != nil {
		log.Error("failed to initialize database", err)
		os.Exit(1)
	}

	client := seerr.NewClient(seerr.Config{
		Service:  seerr.Service(cfg.Seerr.Service),
		BaseURL:  cfg.Seerr.URL,
		APIKey:   cfg.Seerr.APIKey,
		Username: cfg.Seerr.Username,
		Password: cfg.Seerr.Password,
		Timeout:  time.Duration(cfg.Seerr.Timeout) * time.Second,
	})

	store := settings.NewGormStore(database.Get())

	var resolver library.Resolver
	if cfg.Library.Enabled && cfg.Library.RPCURL != "" {
		resolver = library.NewJSONRPCClient(library.Config{
			RPCURL:   cfg.Library.RPCURL,
			Username: cfg.Library.Username,
			Password: cfg.Library.Password,
		})
	}

	server := api.NewServer(api.Options{
		Client:   client,
		Settings: store,
		History:  history.New(store),
		Resolver: resolver,
		Images: media.ImageBases{
			Small: cfg.Images.SmallBase,
			Large: cfg.Images.LargeBase,
		},
		CORSOrigins:      cfg.API.CORSOrigins,
		AskFourK:         cfg.UI.AskFourK,
		DefaultMovieView: strconv.Itoa(cfg.UI.MovieViewMode),
		DefaultTVView:    strconv.Itoa(cfg.UI.TVViewMode),
		HealthCheck:      database.HealthCheck,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: server.Router(),
	}

	handler := shutdown.New(shutdownTimeout)
	handler.Register("database", func(ctx context.Context) error {
		return database.Close()
	})
	handler.Register("http server", func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.WithField("port", cfg.API.Port).Info("starting HTTP bridge")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			handler.Trigger()
		}
	}()

	if err := handler.Wait(); err != nil {
		log.Error("shutdown finished with errors", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
