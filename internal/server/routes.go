package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/pattty847/poker-trainer/internal/game"
)

// Service wires the session store to the HTTP surface.
type Service struct {
	cfg      *Config
	manager  *Manager
	streamer *TokenStreamer
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewService builds the HTTP service. The clock is injectable so tests can
// drive SSE pacing with mock time.
func NewService(cfg *Config, logger *log.Logger, clock quartz.Clock) *Service {
	s := &Service{
		cfg:      cfg,
		manager:  NewManager(logger.WithPrefix("store")),
		streamer: NewTokenStreamer(clock),
		logger:   logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.originAllowed(r.Header.Get("Origin"))
		},
	}
	return s
}

// Manager exposes the session store, mainly for tests.
func (s *Service) Manager() *Manager { return s.manager }

// Routes assembles the API router.
func (s *Service) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/action", s.handleAction)
		r.Get("/state", s.handleState)
		r.Post("/reset", s.handleReset)
		r.Get("/ws", s.handleGameSocket)
	})

	r.Get("/api/range/estimate", s.handleRangeEstimate)
	r.Get("/api/review/hand", s.handleReviewHand)
	r.Post("/api/coach/ask", s.handleCoachAsk)
	r.Get("/api/reason/stream", s.handleReasonStream)

	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type newGameRequest struct {
	SmallBlind *float64 `json:"smallBlind"`
	BigBlind   *float64 `json:"bigBlind"`
	Stack      *float64 `json:"stack"`
	Seed       *int64   `json:"seed"`
	NumPlayers *int     `json:"numPlayers"`
}

func (s *Service) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := game.Config{
		SmallBlind:    s.cfg.Game.SmallBlind,
		BigBlind:      s.cfg.Game.BigBlind,
		StartingStack: s.cfg.Game.StartingStack,
		Seed:          s.cfg.Game.DefaultSeed,
		Seats:         2,
	}
	if req.SmallBlind != nil {
		cfg.SmallBlind = *req.SmallBlind
	}
	if req.BigBlind != nil {
		cfg.BigBlind = *req.BigBlind
	}
	if req.Stack != nil {
		cfg.StartingStack = *req.Stack
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if req.NumPlayers != nil {
		cfg.Seats = *req.NumPlayers
	}

	id, snap, err := s.manager.Create(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": id, "state": snap})
}

type actionRequest struct {
	SessionID string   `json:"sessionId"`
	Action    string   `json:"action"`
	Size      *float64 `json:"size"`
}

func (s *Service) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	action, ok := parseAction(req.Action)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown action "+req.Action))
		return
	}

	snap, err := s.manager.Apply(req.SessionID, action, req.Size)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": snap, "aiActionApplied": true})
}

func (s *Service) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.manager.Get(r.URL.Query().Get("sessionId"))
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": snap})
}

type resetRequest struct {
	SessionID string `json:"sessionId"`
	Seed      *int64 `json:"seed"`
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := s.manager.Reset(req.SessionID, req.Seed)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": snap})
}

func parseAction(raw string) (game.Action, bool) {
	switch game.Action(strings.ToLower(raw)) {
	case game.Fold:
		return game.Fold, true
	case game.Call:
		return game.Call, true
	case game.Raise:
		return game.Raise, true
	case game.Check:
		return game.Check, true
	case game.Bet:
		return game.Bet, true
	default:
		return "", false
	}
}

// writeGameError maps engine and store errors onto HTTP status codes.
func (s *Service) writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, game.ErrInvalidAction), errors.Is(err, game.ErrInsufficientStack):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

// cors handles preflight and reflects allowed origins from config.
func (s *Service) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) originAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// decodeJSON tolerates an empty body; every field has a server-side default.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
