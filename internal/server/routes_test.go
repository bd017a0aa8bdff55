package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattty847/poker-trainer/internal/game"
)

func newTestService(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	svc := NewService(DefaultConfig(), log.New(io.Discard), quartz.NewReal())
	ts := httptest.NewServer(svc.Routes())
	t.Cleanup(ts.Close)
	return svc, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func startGame(t *testing.T, ts *httptest.Server) (string, game.Snapshot) {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/game/new", map[string]any{"seed": 21})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		SessionID string        `json:"sessionId"`
		State     game.Snapshot `json:"state"`
	}
	decodeBody(t, resp, &out)
	require.NotEmpty(t, out.SessionID)
	return out.SessionID, out.State
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]bool
	decodeBody(t, resp, &out)
	assert.True(t, out["ok"])
}

func TestNewGameDefaults(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	_, state := startGame(t, ts)

	assert.Equal(t, game.Preflop, state.Street)
	assert.InDelta(t, 1.5, state.Pot, 1e-9)
	assert.Len(t, state.Hero.Cards, 2)
	assert.Empty(t, state.Villain.Cards)
	assert.Equal(t, "deterministic_mock", state.Metadata.OpponentType)
}

func TestNewGameRejectsBadBlinds(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	resp := postJSON(t, ts.URL+"/api/game/new", map[string]any{
		"smallBlind": 2.0,
		"bigBlind":   1.0,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActionFlow(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	id, _ := startGame(t, ts)

	resp := postJSON(t, ts.URL+"/api/game/action", map[string]any{
		"sessionId": id,
		"action":    "call",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		State           game.Snapshot `json:"state"`
		AIActionApplied bool          `json:"aiActionApplied"`
	}
	decodeBody(t, resp, &out)
	assert.True(t, out.AIActionApplied)
	assert.Equal(t, game.Flop, out.State.Street)
	assert.Len(t, out.State.Board, 3)
}

func TestActionErrorMapping(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	id, _ := startGame(t, ts)

	// Illegal action for the street
	resp := postJSON(t, ts.URL+"/api/game/action", map[string]any{
		"sessionId": id,
		"action":    "check",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown action name
	resp = postJSON(t, ts.URL+"/api/game/action", map[string]any{
		"sessionId": id,
		"action":    "shove",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown session
	resp = postJSON(t, ts.URL+"/api/game/action", map[string]any{
		"sessionId": "missing",
		"action":    "call",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStateEndpoint(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	id, created := startGame(t, ts)

	resp, err := http.Get(ts.URL + "/api/game/state?sessionId=" + id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		State game.Snapshot `json:"state"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, created.Street, out.State.Street)
	assert.Equal(t, id, out.State.SessionID)

	resp, err = http.Get(ts.URL + "/api/game/state?sessionId=missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResetEndpoint(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	id, _ := startGame(t, ts)

	resp := postJSON(t, ts.URL+"/api/game/action", map[string]any{
		"sessionId": id,
		"action":    "fold",
	})
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/game/reset", map[string]any{
		"sessionId": id,
		"seed":      99,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		State game.Snapshot `json:"state"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, game.Preflop, out.State.Street)
	assert.Empty(t, out.State.Board)
}

func TestRangeEstimateEndpoint(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	id, _ := startGame(t, ts)

	resp, err := http.Get(ts.URL + "/api/range/estimate?sessionId=" + id + "&perspective=hero")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Grid [][]float64 `json:"grid"`
	}
	decodeBody(t, resp, &out)
	require.Len(t, out.Grid, 13)

	total := 0.0
	for _, row := range out.Grid {
		require.Len(t, row, 13)
		for _, w := range row {
			total += w
		}
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestReviewHandEndpoint(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	id, _ := startGame(t, ts)

	resp := postJSON(t, ts.URL+"/api/game/action", map[string]any{
		"sessionId": id,
		"action":    "call",
	})
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/api/review/hand?sessionId=" + id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		HandID         string              `json:"handId"`
		Timeline       []game.HistoryEntry `json:"timeline"`
		AlternateLines []any               `json:"alternateLines"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, id, out.HandID)
	assert.NotEmpty(t, out.Timeline)
	assert.Equal(t, "post_sb", out.Timeline[0].Move)
	assert.Empty(t, out.AlternateLines)
}

func TestCoachAskPlainJSON(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	resp := postJSON(t, ts.URL+"/api/coach/ask", map[string]any{
		"question": "should I bet?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	decodeBody(t, resp, &out)
	assert.Equal(t, coachPreface, out["suggestion"])
}

func TestCoachAskStreams(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/coach/ask",
		strings.NewReader(`{"question":"bet or check?"}`))
	require.NoError(t, err)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	frames := parseFrames(t, string(body))
	require.NotEmpty(t, frames)
	assert.Equal(t, "coach_suggestion", frames[0].Type)
	assert.Equal(t, "end", frames[len(frames)-1].Type)

	var text strings.Builder
	for _, f := range frames[:len(frames)-1] {
		text.WriteString(f.Content)
	}
	assert.Contains(t, text.String(), "pot odds")
	assert.Contains(t, text.String(), "check?")
}

func TestReasonStream(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	id, _ := startGame(t, ts)

	resp, err := http.Get(ts.URL + "/api/reason/stream?sessionId=" + id + "&archetype=tag")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	frames := parseFrames(t, string(body))
	require.Greater(t, len(frames), 2)
	assert.Equal(t, Frame{Type: "tag", Content: "intermediate"}, frames[0])
	assert.Equal(t, "token", frames[1].Type)
	assert.Equal(t, "end", frames[len(frames)-1].Type)

	resp, err = http.Get(ts.URL + "/api/reason/stream?sessionId=missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	_, ts := newTestService(t)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/game/new", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestGameWebsocketLiveFeed(t *testing.T) {
	t.Parallel()

	svc, ts := newTestService(t)
	id, _ := startGame(t, ts)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/game/ws?sessionId=" + id
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Initial snapshot arrives on connect
	var initial game.Snapshot
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, game.Preflop, initial.Street)

	// Each applied action pushes an update
	_, err = svc.Manager().Apply(id, game.Call, nil)
	require.NoError(t, err)

	var update game.Snapshot
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, game.Flop, update.Street)
	assert.Len(t, update.Board, 3)
}

// parseFrames extracts the JSON payloads from an SSE body.
func parseFrames(t *testing.T, body string) []Frame {
	t.Helper()
	var frames []Frame
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var f Frame
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &f))
		frames = append(frames, f)
	}
	return frames
}
