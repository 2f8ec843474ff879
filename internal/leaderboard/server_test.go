package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

// memGateway is an in-memory Gateway with an injectable failure.
type memGateway struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (g *memGateway) Submit(_ context.Context, e Entry) error {
	e = e.Normalize()
	if err := Validate(e); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.entries = append(g.entries, e)
	return nil
}

func (g *memGateway) Top(_ context.Context, limit int) ([]Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	out := append([]Entry(nil), g.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n := NormalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func newTestServer(gw Gateway) *Server {
	return NewServer(gw, ServerConfig{Logger: log.New(io.Discard)})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerRoot(t *testing.T) {
	srv := newTestServer(&memGateway{})

	rec := do(t, srv, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "Backend running" {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /health = %d %q", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope = %d, expected 404", rec.Code)
	}
}

func TestServerSubmit(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"ok", `{"player_name":"ada","score":7}`, http.StatusOK, ""},
		{"zero score", `{"player_name":"bob","score":0}`, http.StatusOK, ""},
		{"missing score", `{"player_name":"ada"}`, http.StatusBadRequest, msgRequired},
		{"missing name", `{"score":3}`, http.StatusBadRequest, msgRequired},
		{"blank name", `{"player_name":"  ","score":3}`, http.StatusBadRequest, msgRequired},
		{"empty body", ``, http.StatusBadRequest, msgRequired},
		{"malformed", `{"player_name":`, http.StatusBadRequest, msgRequired},
		{"fractional score", `{"player_name":"ada","score":1.5}`, http.StatusBadRequest, msgRequired},
		{"negative score", `{"player_name":"ada","score":-4}`, http.StatusBadRequest, "invalid entry: negative score -4"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gw := &memGateway{}
			rec := do(t, newTestServer(gw), http.MethodPost, "/score", tc.body)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, expected %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %q", rec.Body.String())
			}
			if tc.status == http.StatusOK {
				if body["message"] != "Score saved" || len(gw.entries) != 1 {
					t.Errorf("body = %v, stored = %d", body, len(gw.entries))
				}
				return
			}
			if body["error"] != tc.msg {
				t.Errorf("error = %q, expected %q", body["error"], tc.msg)
			}
			if len(gw.entries) != 0 {
				t.Error("rejected entry was stored")
			}
		})
	}
}

func TestServerSubmitStoreFailure(t *testing.T) {
	gw := &memGateway{err: errors.New("disk full")}
	rec := do(t, newTestServer(gw), http.MethodPost, "/score", `{"player_name":"ada","score":1}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, expected 500", rec.Code)
	}
}

func TestServerTop(t *testing.T) {
	gw := &memGateway{}
	srv := newTestServer(gw)

	rec := do(t, srv, http.MethodGet, "/scores", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty GET /scores = %d %q, expected []", rec.Code, rec.Body.String())
	}

	for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
		gw.Submit(context.Background(), Entry{PlayerName: name, Score: i})
	}

	rec = do(t, srv, http.MethodGet, "/scores?limit=5", "")
	var got []Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 5 || got[0].PlayerName != "f" || got[4].PlayerName != "b" {
		t.Errorf("GET /scores?limit=5 = %+v", got)
	}
	if strings.Contains(rec.Body.String(), "created_at") {
		t.Errorf("zero timestamps should be omitted: %s", rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/scores?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, expected 400", rec.Code)
	}

	gw.err = errors.New("boom")
	rec = do(t, srv, http.MethodGet, "/scores", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("failing gateway status = %d, expected 500", rec.Code)
	}
}

func TestServerMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&memGateway{})

	if rec := do(t, srv, http.MethodGet, "/score", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /score = %d, expected 405", rec.Code)
	}
	if rec := do(t, srv, http.MethodDelete, "/scores", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /scores = %d, expected 405", rec.Code)
	}
}

func TestServerCORS(t *testing.T) {
	srv := newTestServer(&memGateway{})

	rec := do(t, srv, http.MethodOptions, "/score", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, expected 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Allow-Methods = %q", got)
	}

	rec = do(t, srv, http.MethodGet, "/scores", "")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, expected *", got)
	}
}
