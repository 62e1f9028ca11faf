package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/notifier"
	"github.com/danielhkuo/livepoll/router"
	"github.com/danielhkuo/livepoll/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.LogFormat))

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func run(cfg cliparse.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the poll store
	polls, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.SeedDemo {
		n, err := store.SeedDemo(ctx, polls)
		if err != nil {
			return err
		}
		slog.Info("Seeded demo polls", "count", n)
	}

	hub := notifier.New(polls, notifier.Config{
		PublicURL: cfg.PublicURL,
		Tokens: auth.TokenConfig{
			Key: []byte(cfg.SigningKey),
			TTL: cfg.TokenTTL,
		},
		QueueSize: cfg.BroadcastQueueSize,
		Logger:    slog.Default(),
	})

	// Create router
	mux := router.NewRouter(polls, hub)

	// Create server
	server := &http.Server{
		Handler:           middleware.CORS(middleware.Recover(mux)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(ctx)
	})

	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port, "store", cfg.StoreType)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// Wait for Ctrl-C or a failed sibling
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	slog.Info("Server closed", "error", err)
	return err
}

// openStore builds the configured PollStore and a func releasing it
func openStore(cfg cliparse.Config) (store.PollStore, func(), error) {
	ids := store.NewIDGenerator(nil)

	if cfg.StoreType != cliparse.StoreSQLite {
		return store.NewMemory(ids), func() {}, nil
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("Database schema ready")

	return store.NewSQL(conn, ids), func() { closeDB(conn) }, nil
}

func closeDB(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		slog.Error("database close failed", "error", err)
	}
}
