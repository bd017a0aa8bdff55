package server

import (
	"net/http"
)

// handleRangeEstimate returns a uniform 13x13 hand grid for the requested
// perspective. A placeholder until a real range model exists; the shape is
// what matters to clients.
func (s *Service) handleRangeEstimate(w http.ResponseWriter, r *http.Request) {
	if _, err := s.manager.Get(r.URL.Query().Get("sessionId")); err != nil {
		s.writeGameError(w, err)
		return
	}

	perspective := r.URL.Query().Get("perspective")
	if perspective != "hero" && perspective != "villain" {
		perspective = "hero"
	}

	weight := 1.0 / 169.0
	grid := make([][]float64, 13)
	for i := range grid {
		row := make([]float64, 13)
		for j := range row {
			row[j] = weight
		}
		grid[i] = row
	}

	writeJSON(w, http.StatusOK, map[string]any{"grid": grid})
}

// handleReviewHand returns the hand timeline for post-hand review. Alternate
// lines are not generated yet and come back empty.
func (s *Service) handleReviewHand(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	snap, err := s.manager.Get(sessionID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"handId":         sessionID,
		"timeline":       snap.History,
		"alternateLines": []any{},
	})
}
