package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shortlist-app/shortlist/internal/auth"
	"github.com/shortlist-app/shortlist/internal/build"
	"github.com/shortlist-app/shortlist/internal/cache"
	"github.com/shortlist-app/shortlist/internal/config"
	"github.com/shortlist-app/shortlist/internal/db"
	"github.com/shortlist-app/shortlist/internal/handler"
	"github.com/shortlist-app/shortlist/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := httplog.NewLogger("shortlist", httplog.Options{
				JSON:    true,
				Concise: true,
				Tags: map[string]string{
					"version": build.Version,
				},
			})
			if cfg.Debug {
				logger = logger.Level(zerolog.DebugLevel)
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			urlCache, err := cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return err
			}
			defer func() { _ = urlCache.Close() }()
			if urlCache != nil {
				logger.Info().Str("addr", cfg.Redis.Addr).Msg("resolver cache enabled")
			}

			userStore := store.NewUserStore(database)
			itemStore := store.NewItemStore(database)
			tokenStore := auth.NewSQLTokenStore(database)

			router := handler.NewRouter(handler.Deps{
				ItemStore:  itemStore,
				UserStore:  userStore,
				TokenStore: tokenStore,
				URLCache:   urlCache,
				Logger:     logger,
			})

			server := &http.Server{
				Addr:    cfg.HTTP.Addr,
				Handler: router,
			}

			logger.Info().Str("addr", cfg.HTTP.Addr).Str("version", build.Version).Msg("starting server")
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Err(err).Msg("server error")
				}
			}()

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}
}
