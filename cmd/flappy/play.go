package main

import (
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-micro/internal/platform/tui"
)

var flagName string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  Space/Up/W/Click  - Flap (the first flap starts the run)
  P/Esc             - Pause
  B                 - Stop the run and return to name entry
  R                 - Play again (after game over)
  Enter             - New player (after game over)
  Tab               - Scoreboard
  Ctrl+R            - Refresh leaderboard
  Ctrl+S            - Screenshot
  Q/Ctrl+C          - Quit

Logs are written to ~/.flappy/flappy.log.

Examples:
  flappy play
  flappy play --name ann
  flappy play --rules classic
  flappy play --config ./my-flappy.yaml
  flappy play --server http://localhost:5000`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagName, "name", "", "Pre-fill the player name (default: OS user)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	world, tuning, err := loadTuning()
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if f, fileErr := openLogFile(); fileErr == nil {
		defer f.Close()
		out = f
	}
	logger, err := newLogger(out)
	if err != nil {
		return err
	}

	gw, closeGateway, err := openGateway(service(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open leaderboard: %v\n", err)
		logger.Warn("leaderboard disabled", "error", err)
		// Continue without a leaderboard - the game still works
		gw = nil
	}
	defer closeGateway()

	name := flagName
	if name == "" {
		if u, userErr := user.Current(); userErr == nil {
			name = u.Username
		}
	}

	// Warn early on terminals too small to be playable.
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil && (w < 20 || h < 8) {
		fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the game needs at least 20x8\n", w, h)
	}

	return tui.Run(tui.Options{
		World:      world,
		Tuning:     tuning,
		Gateway:    gw,
		Logger:     logger,
		TickRate:   flagFPS,
		Seed:       flagSeed,
		PlayerName: name,
	})
}
