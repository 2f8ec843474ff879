package leaderboard

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	maxBodyBytes = 4 << 10
	queryTimeout = 5 * time.Second
	writeWait    = 10 * time.Second
	pingPeriod   = 30 * time.Second
)

// Response bodies shared with the browser front end.
const (
	msgRunning  = "Backend running"
	msgSaved    = "Score saved"
	msgRequired = "player_name and score required"
)

// ServerConfig configures NewServer.
type ServerConfig struct {
	Logger *log.Logger
}

// Server exposes a Gateway over HTTP:
//
//	GET  /               liveness text
//	GET  /health         "ok"
//	POST /score          {"player_name": "...", "score": N}
//	GET  /scores         ?limit=N, JSON array highest first
//	GET  /scores/stream  websocket, pushes the ranking after every submission
type Server struct {
	gw       Gateway
	logger   *log.Logger
	hub      *hub
	upgrader websocket.Upgrader
	handler  http.Handler
}

// NewServer builds the HTTP handler for gw.
func NewServer(gw Gateway, cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		gw:     gw,
		logger: logger,
		hub:    newHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, msgRunning)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("POST /score", s.handleSubmit)
	mux.HandleFunc("GET /scores", s.handleTop)
	mux.HandleFunc("GET /scores/stream", s.handleStream)

	s.handler = s.logRequests(cors(mux))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close ends all open streams. http.Server.Shutdown does not wait for
// hijacked websocket connections, so call this first.
func (s *Server) Close() {
	s.hub.close()
}

type submitRequest struct {
	PlayerName *string `json:"player_name"`
	Score      *int    `json:"score"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, msgRequired)
		return
	}
	if req.PlayerName == nil || req.Score == nil || strings.TrimSpace(*req.PlayerName) == "" {
		writeError(w, http.StatusBadRequest, msgRequired)
		return
	}

	e := Entry{PlayerName: *req.PlayerName, Score: *req.Score}
	err := s.gw.Submit(r.Context(), e)
	switch {
	case errors.Is(err, ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "leaderboard: "))
		return
	case err != nil:
		s.logger.Error("save score failed", "player", e.PlayerName, "score", e.Score, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save score")
		return
	}

	s.logger.Info("score saved", "player", e.Normalize().PlayerName, "score", e.Score)
	s.hub.notify()
	writeJSON(w, http.StatusOK, map[string]string{"message": msgSaved})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.gw.Top(r.Context(), limit)
	if err != nil {
		s.logger.Error("load scores failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load scores")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	changed := s.hub.subscribe()
	s.logger.Debug("stream opened", "remote", r.RemoteAddr, "subscribers", s.hub.count())
	defer func() {
		s.hub.unsubscribe(changed)
		s.logger.Debug("stream closed", "remote", r.RemoteAddr, "subscribers", s.hub.count())
	}()

	// The client never sends data; reading surfaces its close frame.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		entries, err := s.gw.Top(ctx, limit)
		cancel()
		if err != nil {
			s.logger.Warn("stream: load scores failed", "error", err)
			return true
		}
		if entries == nil {
			entries = []Entry{}
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(entries) == nil
	}

	if !send() {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			return
		case <-s.hub.closed:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		case <-changed:
			if !send() {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return NormalizeLimit(n), nil
}

// cors allows any origin, as the browser front end is served elsewhere.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// statusRecorder captures the response code. It forwards Hijack so the
// websocket upgrade still works behind the logging middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("leaderboard: response does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
