package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/fund-matcher/internal/leads"
	"github.com/pdiddy/fund-matcher/internal/secrets"
	"github.com/pdiddy/fund-matcher/internal/session"
	"github.com/pdiddy/fund-matcher/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fund matching page and API",
	Long: `Serve runs the web page where a business enters its registration number,
region and industry, sees matching policy funds, and can request a
consultation. Each browser session runs at most one search at a time.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("allow-key-update", false, "let users set the API key from the page")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.allow_key_update", serveCmd.Flags().Lookup("allow-key-update"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig.Server

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	keys := secrets.NewStore(apiKey)
	if !keys.Configured() {
		logger.Warn().Msg("no API key configured; searches will fail until one is set")
	}
	sessions := session.NewRegistry()

	srv := web.New(web.Options{
		Matcher:        newService(),
		Keys:           keys,
		Sessions:       sessions,
		Leads:          leads.NewIntake(leads.NewLogSink(logger)),
		AllowKeyUpdate: cfg.AllowKeyUpdate,
		BaseContext:    ctx,
		Log:            logger,
	})

	scheduler := cron.New()
	if cfg.PruneSchedule != "" {
		_, err := scheduler.AddFunc(cfg.PruneSchedule, func() {
			if n := sessions.Prune(cfg.SessionIdleTTL); n > 0 {
				logger.Info().Int("pruned", n).Int("remaining", sessions.Len()).Msg("pruned idle sessions")
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling session pruning: %w", err)
		}
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("format", string(appConfig.Format)).
			Str("model", appConfig.AI.Model).
			Msg("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("serving on %s: %w", cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
		return err
	}
	return nil
}
