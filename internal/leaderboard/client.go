package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultClientTimeout bounds each HTTP request made by Client.
const DefaultClientTimeout = 5 * time.Second

// Client is a Gateway backed by a remote leaderboard Server.
type Client struct {
	base   string
	http   *http.Client
	dialer *websocket.Dialer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for the server at base, e.g.
// "http://localhost:5000".
func NewClient(base string, opts ...ClientOption) *Client {
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{Timeout: DefaultClientTimeout},
		dialer: websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts an entry. Entries that fail local validation are not sent.
func (c *Client) Submit(ctx context.Context, e Entry) error {
	e = e.Normalize()
	if err := Validate(e); err != nil {
		return err
	}

	body, err := json.Marshal(struct {
		PlayerName string `json:"player_name"`
		Score      int    `json:"score"`
	}{e.PlayerName, e.Score})
	if err != nil {
		return fmt.Errorf("leaderboard: encode entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/score", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("leaderboard: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidEntry, errorMessage(resp))
	default:
		return fmt.Errorf("%w: POST /score: %s: %s", ErrUnavailable, resp.Status, errorMessage(resp))
	}
}

// Top fetches the ranking.
func (c *Client) Top(ctx context.Context, limit int) ([]Entry, error) {
	u := c.base + "/scores?limit=" + strconv.Itoa(NormalizeLimit(limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET /scores: %s: %s", ErrUnavailable, resp.Status, errorMessage(resp))
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %w", ErrUnavailable, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Stream subscribes to the live ranking. The first value is the current
// ranking; later values follow each accepted submission. The channel is
// closed when ctx is cancelled or the connection drops.
func (c *Client) Stream(ctx context.Context, limit int) (<-chan []Entry, error) {
	u, err := url.Parse(c.base + "/scores/stream")
	if err != nil {
		return nil, fmt.Errorf("leaderboard: bad base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.RawQuery = "limit=" + strconv.Itoa(NormalizeLimit(limit))

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	out := make(chan []Entry)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(out)
		defer close(done)
		defer conn.Close()
		for {
			var entries []Entry
			if err := conn.ReadJSON(&entries); err != nil {
				return
			}
			select {
			case out <- entries:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// errorMessage extracts {"error": "..."} from a failed response, falling
// back to the raw body.
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

var _ Gateway = (*Client)(nil)
