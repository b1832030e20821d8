package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/commands"
	"github.com/dukerupert/monthly/internal/config"
	"github.com/dukerupert/monthly/internal/database"
	"github.com/dukerupert/monthly/internal/logging"
	"github.com/dukerupert/monthly/internal/middleware"
	"github.com/dukerupert/monthly/internal/server"
	"github.com/dukerupert/monthly/internal/store"
	"github.com/dukerupert/monthly/internal/tui"
)

const usage = `usage: monthly [command]

commands:
  serve          run the web server (default)
  tui            run the terminal calendar
  hash-password  print a bcrypt hash for MONTHLY_AUTH_HASH
`

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if cmd == "hash-password" {
		if err := commands.HashPassword(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case "serve":
		logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
		if err := serve(cfg, logger); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case "tui":
		// The terminal owns stdout, so logs go to stderr at warn and above.
		logger := logging.New(os.Stderr, "warn", cfg.LogFormat)
		if err := runTUI(cfg, logger); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}

// openStore returns the in-memory store, or the SQLite store when a database
// path is configured. closeFn releases the database.
func openStore(cfg *config.Config, logger *slog.Logger) (s store.Store, closeFn func(), err error) {
	if cfg.DBPath == "" {
		logger.Info("using in-memory store")
		return store.NewMemoryEventStore(), func() {}, nil
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	logger.Info("database opened", "path", cfg.DBPath)
	return store.NewEventStore(db), func() { db.Close() }, nil
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	s, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	creds := middleware.Credentials{Username: cfg.AuthUser, Hash: []byte(cfg.AuthHash)}
	if creds.Enabled() {
		logger.Info("basic auth enabled", "user", cfg.AuthUser)
	}

	srv := server.New(s, server.Options{Location: cfg.Location(), Credentials: creds}, logger)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go cleanupLoop(ctx, srv.RateLimiter())

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", httpServer.Addr, "timezone", cfg.Timezone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// cleanupLoop drops expired rate limiter entries until ctx is done.
func cleanupLoop(ctx context.Context, rl *middleware.RateLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

func runTUI(cfg *config.Config, logger *slog.Logger) error {
	s, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	m := tui.New(s, calendar.Today(cfg.Location()))
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
