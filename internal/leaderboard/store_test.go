package leaderboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/flappy-micro/internal/storage"
)

func newStoreGateway(t *testing.T) *StoreGateway {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewStoreGateway(store)
}

func TestStoreGatewaySubmitAndTop(t *testing.T) {
	ctx := context.Background()
	gw := newStoreGateway(t)

	for _, e := range []Entry{
		{PlayerName: " ada ", Score: 4},
		{PlayerName: "bob", Score: 9},
		{PlayerName: "cy", Score: 0},
	} {
		if err := gw.Submit(ctx, e); err != nil {
			t.Fatalf("Submit(%+v) failed: %v", e, err)
		}
	}

	top, err := gw.Top(ctx, 2)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	if len(top) != 2 || top[0].PlayerName != "bob" || top[1].PlayerName != "ada" {
		t.Errorf("Top(2) = %+v", top)
	}
	if top[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not carried through")
	}
}

func TestStoreGatewayRejectsInvalid(t *testing.T) {
	gw := newStoreGateway(t)

	err := gw.Submit(context.Background(), Entry{PlayerName: "", Score: 1})
	if !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Submit() = %v, expected ErrInvalidEntry", err)
	}

	top, _ := gw.Top(context.Background(), 10)
	if len(top) != 0 {
		t.Errorf("invalid entry was stored: %+v", top)
	}
}

func TestStoreGatewayUnavailable(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	gw := NewStoreGateway(store)
	store.Close()

	if err := gw.Submit(context.Background(), Entry{PlayerName: "ada", Score: 1}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Submit() on closed store = %v, expected ErrUnavailable", err)
	}
	if _, err := gw.Top(context.Background(), 5); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Top() on closed store = %v, expected ErrUnavailable", err)
	}
}
