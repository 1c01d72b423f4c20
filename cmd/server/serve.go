package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/ifcproc/ifcproc/internal/appconfig"
	"github.com/ifcproc/ifcproc/internal/applog"
	"github.com/ifcproc/ifcproc/internal/diskcache"
	"github.com/ifcproc/ifcproc/internal/httpapi"
)

func serveCmd() *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			applog.SetLevel(logLevel)
			return runServe()
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func runServe() error {
	cfg, err := appconfig.FromEnv()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cache, err := diskcache.New(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("opening cache at %s: %w", cfg.CacheDir, err)
	}
	atexit.Register(func() {
		applog.L().Info("shutting down")
	})

	server := httpapi.NewServer(cfg, cache)
	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		applog.WithFields(map[string]any{"port": cfg.Port}).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		applog.L().Info("signal received, shutting down gracefully")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	atexit.Exit(0)
	return nil
}
