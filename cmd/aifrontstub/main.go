package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ccumaco/ai-frontend/internal/fakeapi"
	"github.com/ccumaco/ai-frontend/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:3000", "listen address")
	seed := flag.Bool("seed", true, "start with demo projects, chats and files")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger, err := logging.New(logging.Options{Profile: "stub", Level: *level, Console: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	backend := fakeapi.New(logger.Named("api"))
	if *seed {
		fakeapi.SeedDemo(backend)
	}

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", backend.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("stub backend listening",
			zap.String("addr", *addr),
			zap.String("api_url", "http://"+*addr+fakeapi.BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("stopped")
}
