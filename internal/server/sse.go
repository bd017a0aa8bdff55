package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/quartz"
)

// tokenInterval is the pause between streamed tokens.
const tokenInterval = 30 * time.Millisecond

// Frame is one server-sent event payload.
type Frame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// TokenStreamer writes paced SSE token streams. Pacing goes through a quartz
// clock so tests advance time instead of sleeping.
type TokenStreamer struct {
	clock    quartz.Clock
	interval time.Duration
}

// NewTokenStreamer creates a streamer at the default pace.
func NewTokenStreamer(clock quartz.Clock) *TokenStreamer {
	return &TokenStreamer{clock: clock, interval: tokenInterval}
}

// Stream emits one frame per token, pausing before each, then a terminal end
// frame. It stops early when the request context is cancelled.
func (t *TokenStreamer) Stream(ctx context.Context, w http.ResponseWriter, frameType string, tokens []string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errors.New("streaming unsupported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for _, token := range tokens {
		if err := t.pause(ctx); err != nil {
			return err
		}
		if err := writeFrame(w, flusher, Frame{Type: frameType, Content: token + " "}); err != nil {
			return err
		}
	}
	return writeFrame(w, flusher, Frame{Type: "end"})
}

// WriteFrame emits a single unpaced frame, for events surrounding the token
// stream.
func (t *TokenStreamer) WriteFrame(w http.ResponseWriter, frame Frame) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errors.New("streaming unsupported")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	return writeFrame(w, flusher, frame)
}

func (t *TokenStreamer) pause(ctx context.Context) error {
	fired := make(chan struct{})
	timer := t.clock.AfterFunc(t.interval, func() { close(fired) })

	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-fired:
		return nil
	}
}

func writeFrame(w http.ResponseWriter, flusher http.Flusher, frame Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\n\n")); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
