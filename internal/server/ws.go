package server

import (
	"net/http"
)

// handleGameSocket upgrades to a websocket and pushes a state snapshot after
// every applied action or reset. The client never sends game commands over
// the socket; it is a live feed only.
func (s *Service) handleGameSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	snap, err := s.manager.Get(sessionID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := s.manager.Subscribe(sessionID)
	if err != nil {
		return
	}
	defer cancel()

	if err := conn.WriteJSON(snap); err != nil {
		return
	}

	// Drain the reader so close frames are processed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		}
	}
}
