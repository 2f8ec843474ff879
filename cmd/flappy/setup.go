package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-micro/internal/config"
	"github.com/vovakirdan/flappy-micro/internal/games/flappy/engine"
	"github.com/vovakirdan/flappy-micro/internal/leaderboard"
	"github.com/vovakirdan/flappy-micro/internal/storage"
)

// newLogger builds the root logger at the --log-level threshold.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "flappy",
	}), nil
}

// openLogFile opens ~/.flappy/flappy.log for appending. Bubble Tea owns the
// terminal during play, so logs cannot go to stderr.
func openLogFile() (*os.File, error) {
	path := config.UserPath("flappy.log")
	if path == "" {
		return nil, fmt.Errorf("cannot resolve home directory for log file")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// loadTuning reads the tuning file, applies --rules and rejects the result
// if the engine could not play it.
func loadTuning() (engine.World, engine.Tuning, error) {
	cfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return engine.World{}, engine.Tuning{}, err
	}
	if err := config.ApplyRuleset(&cfg, config.Ruleset(strings.ToLower(flagRules))); err != nil {
		return engine.World{}, engine.Tuning{}, err
	}
	if err := cfg.Validate(); err != nil {
		return engine.World{}, engine.Tuning{}, fmt.Errorf("unplayable tuning: %w", err)
	}
	return cfg.Engine()
}

// service merges FLAPPY_* settings with the global flags.
func service() config.Service {
	svc := config.LoadService()
	if flagDBPath != "" {
		svc.DBPath = flagDBPath
	}
	if flagServer != "" {
		svc.APIBase = strings.TrimRight(flagServer, "/")
	}
	return svc
}

// openGateway picks the remote leaderboard when one is configured and the
// local SQLite file otherwise. The returned close func is never nil.
func openGateway(svc config.Service, logger *log.Logger) (leaderboard.Gateway, func(), error) {
	if svc.Remote() {
		logger.Info("using remote leaderboard", "url", svc.APIBase)
		return leaderboard.NewClient(svc.APIBase), func() {}, nil
	}

	store, err := storage.Open(svc.DBPath)
	if err != nil {
		return nil, func() {}, err
	}
	logger.Info("using local leaderboard", "path", svc.DBPath)
	return leaderboard.NewStoreGateway(store), func() { store.Close() }, nil
}
