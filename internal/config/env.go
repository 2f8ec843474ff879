package config

import (
	"os"
	"strings"
)

// Environment variables read by LoadService.
const (
	EnvAddr    = "FLAPPY_ADDR"
	EnvDB      = "FLAPPY_DB"
	EnvAPIBase = "FLAPPY_API_BASE"
)

// DefaultAddr is where `flappy serve` listens when nothing else is set.
const DefaultAddr = ":5000"

// Service holds the leaderboard settings shared by the CLI commands.
type Service struct {
	Addr    string // listen address for the HTTP leaderboard
	DBPath  string // SQLite file for the local leaderboard
	APIBase string // remote leaderboard base URL; empty means use DBPath
}

// LoadService reads settings from the environment, filling gaps with
// defaults. Flags override the result in cmd/flappy.
func LoadService() Service {
	return loadService(os.Getenv)
}

func loadService(getenv func(string) string) Service {
	s := Service{
		Addr:    strings.TrimSpace(getenv(EnvAddr)),
		DBPath:  strings.TrimSpace(getenv(EnvDB)),
		APIBase: strings.TrimRight(strings.TrimSpace(getenv(EnvAPIBase)), "/"),
	}
	if s.Addr == "" {
		s.Addr = DefaultAddr
	}
	if s.DBPath == "" {
		s.DBPath = "~/" + AppDir + "/scores.db"
	}
	return s
}

// Remote reports whether scores go to an HTTP leaderboard.
func (s Service) Remote() bool {
	return s.APIBase != ""
}
