// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudx/catalogue-service/cmd/service"
	"github.com/iudx/catalogue-service/internal/query"
)

const (
	defaultPort = "8080"
	// gracefulShutdownSeconds should be higher than NATS client
	// request timeout, and lower than the pod's
	// terminationGracePeriodSeconds.
	gracefulShutdownSeconds = 25
)

var (
	port string
	bind string
	dbg  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the catalogue HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", defaultPort, "listen port")
	serveCmd.Flags().StringVar(&bind, "bind", "*", "interface to bind on")
	serveCmd.Flags().BoolVarP(&dbg, "debug", "d", false, "log every HTTP request")
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := service.LoadConfig()
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Starting catalogue service",
		"bind", bind,
		"http-port", port,
		"backend", cfg.BackendSource,
		"events", cfg.EventsSource,
		"graceful-shutdown-seconds", gracefulShutdownSeconds,
	)

	backend := service.BackendImpl(ctx, cfg)
	publisher := service.EventPublisherImpl(ctx, cfg)
	authService := service.AuthServiceImpl(ctx, cfg)
	validator := service.ItemValidatorImpl(ctx, cfg)
	compiler := query.NewCompiler(query.WithMaxDistance(cfg.MaxDistanceLimit))

	handler := service.NewCatalogueHandler(backend, publisher, authService, validator, compiler)

	// Create channel used by both the signal handler and server goroutines
	// to notify the main goroutine when to stop the server.
	errc := make(chan error)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(ctx)

	addr := ":" + port
	if bind != "*" {
		addr = bind + ":" + port
	}

	handleHTTPServer(ctx, addr, handler, &wg, errc, dbg)

	// Wait for signal.
	slog.InfoContext(ctx, "received shutdown signal, stopping servers",
		"signal", <-errc,
	)

	// Send cancellation signal to the goroutines.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	go func() {
		slog.InfoContext(shutdownCtx, "closing event publisher")
		if err := publisher.Close(); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to close event publisher", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.InfoContext(ctx, "graceful shutdown completed")
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "graceful shutdown timed out")
	}

	slog.InfoContext(ctx, "exited")
	return nil
}
