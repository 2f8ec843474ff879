package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-micro/internal/leaderboard"
	"github.com/vovakirdan/flappy-micro/internal/platform/tui"
	"github.com/vovakirdan/flappy-micro/internal/storage"
)

var (
	flagLimit       int
	flagFollow      bool
	flagInteractive bool
	flagStats       bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the top scores.

With --follow the list is reprinted every time a score is accepted by a
remote leaderboard (requires --server or FLAPPY_API_BASE).

Examples:
  flappy scores
  flappy scores --limit 20
  flappy scores -i
  flappy scores --stats
  flappy scores --follow --server http://localhost:5000
  flappy scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagLimit, "limit", "n", leaderboard.DefaultLimit, "Number of scores to show")
	scoresCmd.Flags().BoolVarP(&flagFollow, "follow", "f", false, "Keep printing updates from a remote leaderboard")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the scrollable scoreboard")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Show local leaderboard statistics")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every score from the local leaderboard")
}

func runScores(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	svc := service()
	out := cmd.OutOrStdout()

	switch {
	case flagClear || flagStats:
		if svc.Remote() {
			return errors.New("--clear and --stats only work on the local leaderboard")
		}
		store, err := storage.Open(svc.DBPath)
		if err != nil {
			return fmt.Errorf("opening scores database: %w", err)
		}
		defer store.Close()
		if flagClear {
			return clearScores(cmd.Context(), out, store)
		}
		return printStats(cmd.Context(), out, store)

	case flagFollow:
		if !svc.Remote() {
			return errors.New("--follow needs a remote leaderboard (--server or FLAPPY_API_BASE)")
		}
		return followScores(out, leaderboard.NewClient(svc.APIBase), logger)
	}

	gw, closeGateway, err := openGateway(svc, logger)
	if err != nil {
		return fmt.Errorf("opening leaderboard: %w", err)
	}
	defer closeGateway()

	if flagInteractive {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(gw, width, height)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entries, err := gw.Top(ctx, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}
	printScores(out, entries)
	return nil
}

func printScores(w io.Writer, entries []leaderboard.Entry) {
	fmt.Fprintln(w, "Leaderboard - Flappy Micro")
	fmt.Fprintln(w)

	if len(entries) == 0 {
		fmt.Fprintln(w, "No scores yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'flappy play' to set the first high score!")
		return
	}

	fmt.Fprintf(w, "  %-4s  %-20s  %-7s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Fprintf(w, "  %-4s  %-20s  %-7s  %s\n", "----", "------", "-----", "----")
	for i, e := range entries {
		date := "-"
		if !e.CreatedAt.IsZero() {
			date = e.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "  %-4d  %-20s  %-7d  %s\n", i+1, clip(e.PlayerName, 20), e.Score, date)
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printStats(ctx context.Context, w io.Writer, store *storage.Store) error {
	st, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	fmt.Fprintf(w, "Games played: %d\n", st.Games)
	fmt.Fprintf(w, "High score:   %d\n", st.HighScore)
	fmt.Fprintf(w, "Average:      %.1f\n", st.AvgScore)
	if !st.LastPlayed.IsZero() {
		fmt.Fprintf(w, "Last played:  %s\n", st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func clearScores(ctx context.Context, w io.Writer, store *storage.Store) error {
	if err := store.ClearScores(ctx); err != nil {
		return fmt.Errorf("clearing scores: %w", err)
	}
	fmt.Fprintln(w, "Leaderboard cleared.")
	return nil
}

// followScores prints the live list until interrupted.
func followScores(w io.Writer, c *leaderboard.Client, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	updates, err := c.Stream(ctx, flagLimit)
	if err != nil {
		return fmt.Errorf("connecting to leaderboard stream: %w", err)
	}

	for entries := range updates {
		fmt.Fprintf(w, "\n[%s]\n", time.Now().Format("15:04:05"))
		printScores(w, entries)
	}
	if ctx.Err() == nil {
		logger.Warn("leaderboard stream closed by server")
	}
	return nil
}
