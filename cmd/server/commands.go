package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitecms/internal/handler"
	"github.com/sitecms/internal/newsfeed"
	"github.com/sitecms/internal/router"
	"github.com/sitecms/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sitecms",
		Short:        "Marketing site CMS backend",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newServeCmd(),
		newAdminCmd(),
		newSeedCmd(),
		newNewsCmd(),
	)
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the news schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve(cmd.Context())
		},
	}
}

func newAdminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	admin.AddCommand(&cobra.Command{
		Use:   "create <username> <password>",
		Short: "Create an admin account in the database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if a.gdb == nil {
				return errors.New("database is not available")
			}
			user, err := a.services.Admins.Create(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (id %d)\n", user.Username, user.ID)
			return nil
		},
	})
	return admin
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill empty collections with demo content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			report, err := seed.Run(cmd.Context(), a.services, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records into %s storage\n", report.Total(), a.services.StorageMode())
			return nil
		},
	}
}

func newNewsCmd() *cobra.Command {
	news := &cobra.Command{
		Use:   "news",
		Short: "News ingestion tasks",
	}
	news.AddCommand(&cobra.Command{
		Use:   "ingest",
		Short: "Fetch external news once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			report, err := a.newIngestor().Run(cmd.Context(), true)
			fmt.Fprintf(cmd.OutOrStdout(), "queries=%d fetched=%d created=%d skipped=%d\n",
				len(report.Queries), report.Fetched, report.Created, report.Skipped)
			return err
		},
	})
	return news
}

func (a *app) serve(ctx context.Context) error {
	if err := a.ensureAdmin(ctx); err != nil {
		return err
	}
	if a.cfg.SeedMemory {
		report, err := seed.Run(ctx, a.memory, a.logger)
		if err != nil {
			a.logger.Warn("seed memory store", zap.Error(err))
		} else {
			a.logger.Info("memory store seeded", zap.Int("records", report.Total()))
		}
	}

	ingestor := a.newIngestor()
	var scheduler *newsfeed.Scheduler
	if a.cfg.News.Enabled() {
		s, err := newsfeed.NewScheduler(a.cfg.News.Schedule, ingestor, 0, a.logger)
		if err != nil {
			return err
		}
		s.Start()
		scheduler = s
		a.logger.Info("news schedule started", zap.String("schedule", a.cfg.News.Schedule), zap.Time("next", s.Next()))
	} else {
		a.logger.Info("news schedule disabled")
	}

	gin.SetMode(a.cfg.GinMode)
	api := handler.NewAPI(a.services, handler.Options{
		Ingestor:    ingestor,
		NewsClient:  a.news,
		Logger:      a.logger,
		SiteBaseURL: a.cfg.SiteBaseURL,
	})
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           router.SetupRouter(a.cfg, api, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.cfg.ListenAddr), zap.String("storage", a.services.StorageMode()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			a.logger.Warn("stop news schedule", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.logger.Info("server exited")
	return nil
}
