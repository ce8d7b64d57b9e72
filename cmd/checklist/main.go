// Command checklist serves the workflow tracker API: Collection+JSON for API
// clients, rendered HTML for browsers, both under one base path.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-hypermedia/components/checklist"
	"github.com/goliatone/go-hypermedia/internal/logging"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	base := flag.String("base", "/cj", "base path the API is mounted under")
	seed := flag.String("seed", "", "YAML file with workflow definitions to preload")
	flag.Parse()

	logger := logging.New(slog.LevelInfo)
	if err := run(logger, *addr, *base, *seed); err != nil {
		logger.Error("checklist server failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, addr, base, seed string) error {
	options := []checklist.OptionFn{
		checklist.WithBasePath(base),
		checklist.WithLogger(logger),
	}
	if seed != "" {
		options = append(options, checklist.WithSeedFile(seed))
	}
	component, err := checklist.New(options...)
	if err != nil {
		return fmt.Errorf("configure checklist: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the transition catalog now so a broken schema document surfaces
	// at startup instead of on the first request.
	failures, err := component.Catalog().Failures(ctx)
	if err != nil {
		return fmt.Errorf("build transition catalog: %w", err)
	}
	for id, ferr := range failures {
		logger.Warn("operation excluded from catalog", "operation", id, "err", ferr)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	component.Mount(r)
	if base != "/" {
		r.Get("/", http.RedirectHandler(base+"/", http.StatusFound).ServeHTTP)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("checklist API listening", "addr", addr, "base", base)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
