// flappy is a terminal Flappy game with a shared leaderboard.
//
// Usage:
//
//	flappy play              - Play in this terminal
//	flappy scores            - Show the leaderboard
//	flappy serve             - Run the HTTP leaderboard backend
//	flappy ssh               - Serve the game over SSH
//	flappy rules             - List rulesets and the active tuning
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Local leaderboard database (default: ~/.flappy/scores.db)
//	--server <url>       - Remote leaderboard base URL
//	--config <path>      - Tuning file
//	--rules <name>       - Ruleset: micro, classic
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagServer   string
	flagConfig   string
	flagRules    string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy Micro - flap through pipes in your terminal",
	Long: `Flappy Micro is a terminal Flappy game with a shared leaderboard.

Available commands:
  play     - Play in this terminal
  scores   - View the leaderboard
  serve    - Run the HTTP leaderboard backend
  ssh      - Serve the game over SSH
  rules    - List rulesets and the active tuning

Scores go to a local SQLite file unless a remote leaderboard is set
with --server or FLAPPY_API_BASE.

Examples:
  flappy play
  flappy play --rules classic
  flappy serve --addr :5000
  flappy play --server http://localhost:5000
  flappy scores --follow --server http://localhost:5000`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to local leaderboard database (default $FLAPPY_DB or ~/.flappy/scores.db)")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Remote leaderboard base URL (default $FLAPPY_API_BASE)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "Ruleset: micro, classic")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(rulesCmd)
}
