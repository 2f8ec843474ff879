package leaderboard

import (
	"context"
	"fmt"

	"github.com/vovakirdan/flappy-micro/internal/storage"
)

// StoreGateway keeps scores in a local SQLite store.
type StoreGateway struct {
	store *storage.Store
}

// NewStoreGateway wraps an open store. The caller keeps ownership and
// closes it.
func NewStoreGateway(store *storage.Store) *StoreGateway {
	return &StoreGateway{store: store}
}

// Submit validates and saves an entry.
func (g *StoreGateway) Submit(ctx context.Context, e Entry) error {
	e = e.Normalize()
	if err := Validate(e); err != nil {
		return err
	}
	if _, err := g.store.SaveScore(ctx, e.PlayerName, e.Score); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Top returns the best entries.
func (g *StoreGateway) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := g.store.TopScores(ctx, NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{
			PlayerName: r.PlayerName,
			Score:      r.Score,
			CreatedAt:  r.CreatedAt,
		}
	}
	return entries, nil
}

var _ Gateway = (*StoreGateway)(nil)
