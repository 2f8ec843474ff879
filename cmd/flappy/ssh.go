package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-micro/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve the game over SSH",
	Long: `Start an SSH server that lets anyone play from their own terminal.

Each connection gets its own game. The SSH user name pre-fills the player
name, and every session shares one leaderboard: the local SQLite file, or
the remote one given with --server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.flappy/host_key

Examples:
  flappy ssh                           # Listen on :23234
  flappy ssh --listen :2222
  flappy ssh --server http://localhost:5000

Players connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runSSH,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	sshCmd.Flags().StringVar(&flagSSHAddr, "listen", defaults.Address, "SSH server address (host:port)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
}

func runSSH(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	world, tuning, err := loadTuning()
	if err != nil {
		return err
	}

	gw, closeGateway, err := openGateway(service(), logger)
	if err != nil {
		logger.Warn("could not open leaderboard, sessions will play offline", "error", err)
		gw = nil
	}
	defer closeGateway()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Session: tui.Options{
			World:    world,
			Tuning:   tuning,
			Gateway:  gw,
			TickRate: flagFPS,
		},
	}

	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Starting Flappy SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx)
}
