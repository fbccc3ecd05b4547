package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/store"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portfolio web server",
		Long: `Serve the portfolio page, its HTMX fragments, the motion choreography
JSON and, when enabled, the visitor dashboard under /admin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := setupLogger(verboseFlag(cmd))
			slog.SetDefault(logger)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port, _ := cmd.Flags().GetInt("port"); port > 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}
	cmd.Flags().IntP("port", "p", 0, "Listen port (overrides server.port)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	gin.SetMode(cfg.Server.Mode)

	portfolio, err := content.Load(cfg.Content.Path)
	if err != nil {
		return err
	}

	var visits *store.Store
	if cfg.Tracking.Enabled {
		visits, err = store.Open(cfg.Database.Path, store.WithSalt(cfg.Tracking.HashSalt), store.WithLogger(logger))
		if err != nil {
			return err
		}
		defer visits.Close()
		logger.Info("visitor tracking enabled", "database", cfg.Database.Path, "respect_dnt", cfg.Tracking.RespectDNT)
	}

	srv, err := newServer(cfg, portfolio, visits, logger)
	if err != nil {
		return err
	}
	if cfg.Admin.Enabled {
		logger.Info("admin access available", "path", "/admin/login")
		if cfg.Admin.UsingDefaultCredentials() {
			logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
		}
	}

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", httpSrv.Addr, "mode", cfg.Server.Mode)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	if visits != nil && cfg.Tracking.Retention > 0 && cfg.Tracking.SweepInterval > 0 {
		g.Go(func() error {
			sweepVisitors(gctx, visits, cfg.Tracking.Retention, cfg.Tracking.SweepInterval, logger)
			return nil
		})
	}

	err = g.Wait()
	srv.wait()
	return err
}

// sweepVisitors removes visits older than retention now and then every
// interval until ctx is done.
func sweepVisitors(ctx context.Context, visits *store.Store, retention, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := visits.CleanupOlderThan(ctx, retention); err != nil && ctx.Err() == nil {
			logger.Warn("visitor cleanup failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
