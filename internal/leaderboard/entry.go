// Package leaderboard is the contract between a finished run and wherever
// scores are kept. It provides a local SQLite gateway, an HTTP server that
// exposes any gateway, and an HTTP client that is itself a gateway.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Limits applied to submissions and queries.
const (
	MaxNameLength = 100
	DefaultLimit  = 10
	MaxLimit      = 100
)

var (
	// ErrInvalidEntry is returned for a missing name or a negative score.
	ErrInvalidEntry = errors.New("leaderboard: invalid entry")
	// ErrUnavailable wraps storage and transport failures.
	ErrUnavailable = errors.New("leaderboard: unavailable")
)

// Entry is one submitted score.
type Entry struct {
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// Gateway submits scores and reads the ranking. Implementations must be safe
// for concurrent use.
type Gateway interface {
	Submit(ctx context.Context, e Entry) error
	// Top returns at most limit entries ordered by score, highest first.
	Top(ctx context.Context, limit int) ([]Entry, error)
}

// Normalize trims surrounding whitespace from the player name.
func (e Entry) Normalize() Entry {
	e.PlayerName = strings.TrimSpace(e.PlayerName)
	return e
}

// Validate checks a normalized entry.
func Validate(e Entry) error {
	switch n := utf8.RuneCountInString(e.PlayerName); {
	case n == 0:
		return fmt.Errorf("%w: player name required", ErrInvalidEntry)
	case n > MaxNameLength:
		return fmt.Errorf("%w: player name longer than %d characters", ErrInvalidEntry, MaxNameLength)
	case e.Score < 0:
		return fmt.Errorf("%w: negative score %d", ErrInvalidEntry, e.Score)
	}
	return nil
}

// NormalizeLimit maps a requested limit into [1, MaxLimit]; non-positive
// means DefaultLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
