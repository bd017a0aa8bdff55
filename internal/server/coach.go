package server

import (
	"net/http"
	"strings"
)

const coachPreface = "Consider position and pot odds."

type coachRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
}

// handleCoachAsk streams a canned coaching suggestion token by token. Clients
// that don't ask for an event stream get a plain JSON suggestion instead.
func (s *Service) handleCoachAsk(w http.ResponseWriter, r *http.Request) {
	var req coachRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Accept"), "text/event-stream") {
		writeJSON(w, http.StatusOK, map[string]any{"suggestion": coachPreface})
		return
	}

	tokens := strings.Fields(coachPreface + " " + req.Question)
	if err := s.streamer.Stream(r.Context(), w, "coach_suggestion", tokens); err != nil {
		s.logger.Debug("coach stream ended", "error", err)
	}
}

const reasonText = "On this flop, range advantage favors the preflop raiser. We can c-bet small."

// handleReasonStream emits a skill tag event followed by a mocked reasoning
// token stream for the requested session.
func (s *Service) handleReasonStream(w http.ResponseWriter, r *http.Request) {
	if _, err := s.manager.Get(r.URL.Query().Get("sessionId")); err != nil {
		s.writeGameError(w, err)
		return
	}

	if err := s.streamer.WriteFrame(w, Frame{Type: "tag", Content: "intermediate"}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.streamer.Stream(r.Context(), w, "token", strings.Fields(reasonText)); err != nil {
		s.logger.Debug("reason stream ended", "error", err)
	}
}
