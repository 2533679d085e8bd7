// Command fakeshop serves an in-memory shop API with seeded orders, for
// trying orderscope without a real storefront.
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

	"orderscope/internal/fakeshop"
	"orderscope/internal/logging"
)

func main() {
	var (
		addr     string
		orders   int
		token    string
		latency  time.Duration
		logLevel string
	)
	flag.StringVar(&addr, "addr", "127.0.0.1:3000", "Listen address")
	flag.IntVar(&orders, "orders", 10, "Number of placed orders to seed")
	flag.StringVar(&token, "token", "", "Bearer token of the signed-in customer; empty accepts any request")
	flag.DurationVar(&latency, "latency", 0, "Delay added to every response")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.New("fakeshop", logLevel, os.Stderr)

	shop := fakeshop.New(fakeshop.SeedOrders(orders, time.Now()), fakeshop.Options{
		Token:   token,
		Latency: latency,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           shop,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving shop API",
		slog.String("url", fmt.Sprintf("http://%s%s", addr, fakeshop.Path)),
		slog.Int("orders", orders),
		slog.Duration("latency", latency),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
