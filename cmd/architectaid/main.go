package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"architectai/internal/api"
	"architectai/internal/config"
	"architectai/internal/designer"
)

// main launches architectaid.
func main() {
	os.Exit(run())
}

// run executes architectaid and returns an exit code.
func run() int {
	configPath := flag.String("config", "", "path to architectaid config (optional)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	if cfg.Platform.Endpoint == "" {
		logger.Warn("platform endpoint not configured, generation requests will be answered with a remediation message")
	}

	generator := designer.NewService(cfg, logger)
	handler := api.NewHandler(api.Config{
		Generator: generator,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: handler,
	}
	if timeout := cfg.Server.RequestTimeout(); timeout > 0 {
		server.Handler = http.TimeoutHandler(handler, timeout, "request deadline exceeded\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	code := 0
	select {
	case <-ctx.Done():
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	return code
}
