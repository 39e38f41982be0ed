// Command serve is a zero-config static file server.
//
// It exposes one directory over HTTP with extension-based content types,
// index.html fallback, and generated directory listings:
//
//	serve -dir ./public -port 3000
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/serve"
	"github.com/meigma/serve/httpd"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "serve:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogFormat)

	// Fail fast: the root must exist before the listener opens.
	resolver, err := serve.New(cfg.Dir, serve.WithIndexFile(cfg.IndexFile))
	if err != nil {
		return err
	}

	handler := httpd.NewHandler(resolver, httpd.WithLogger(logger))
	server := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !cfg.Quiet {
		banner(resolver.Root(), cfg.Port)
	}
	logger.Info("serving", slog.String("dir", resolver.Root()), slog.Int("port", cfg.Port))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newLogger(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func banner(root string, port int) {
	color.New(color.Bold).Printf("Serving %s\n", root)
	color.Cyan("  http://localhost:%d", port)
	fmt.Println("Press Ctrl+C to stop")
}
