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

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-micro/internal/leaderboard"
	"github.com/vovakirdan/flappy-micro/internal/storage"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP leaderboard backend",
	Long: `Start the leaderboard backend that players submit scores to.

Endpoints:
  GET  /                 - "Backend running"
  GET  /health           - "ok"
  POST /score            - {"player_name": "...", "score": N}
  GET  /scores?limit=N   - Top scores as JSON
  GET  /scores/stream    - Websocket feed of the top scores

Scores are stored in the local SQLite file (--db or FLAPPY_DB).

Examples:
  flappy serve                     # Listen on $FLAPPY_ADDR or :5000
  flappy serve --addr :8080
  flappy serve --db ./scores.db

Players connect with:
  flappy play --server http://localhost:5000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default $FLAPPY_ADDR or :5000)")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	svc := service()
	if flagAddr != "" {
		svc.Addr = flagAddr
	}

	store, err := storage.Open(svc.DBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	lb := leaderboard.NewServer(leaderboard.NewStoreGateway(store), leaderboard.ServerConfig{
		Logger: logger,
	})
	httpSrv := &http.Server{
		Addr:              svc.Addr,
		Handler:           lb,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("leaderboard listening", "address", svc.Addr, "db", svc.DBPath)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	// Streams are hijacked connections that Shutdown does not wait for.
	lb.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
