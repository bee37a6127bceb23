package raceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/beka-birhanu/vinom-nav/service"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silentLogger struct{}

func (silentLogger) Info(string)    {}
func (silentLogger) Warning(string) {}
func (silentLogger) Error(string)   {}
func (silentLogger) Debug(string)   {}

type fixedBoard struct {
	entries []dmn.LeaderboardEntry
	err     error
}

func (b *fixedBoard) Record(context.Context, string, uuid.UUID, int) (bool, error) {
	return true, nil
}

func (b *fixedBoard) Top(_ context.Context, _ string, limit int64) ([]dmn.LeaderboardEntry, error) {
	if b.err != nil {
		return nil, b.err
	}
	if int64(len(b.entries)) > limit {
		return b.entries[:limit], nil
	}
	return b.entries, nil
}

func openMaze(width, height int, _ int64) (*maze.Maze, error) {
	return maze.NewBounded(width, height, maze.Point{X: width, Y: height - 1})
}

func newRouter(t *testing.T, board *fixedBoard) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rm, err := service.NewRaceManager(&service.Config{
		MazeFactory:   openMaze,
		Logger:        silentLogger{},
		MaxTicks:      50,
		DefaultWidth:  3,
		DefaultHeight: 3,
	})
	require.NoError(t, err)

	var lb i.Leaderboard
	if board != nil {
		lb = board
	}
	rc, err := NewRaceController(rm, lb, silentLogger{})
	require.NoError(t, err)

	router := gin.New()
	rc.RegisterPublic(router.Group("/api/v1"))
	return router
}

func raceBody(t *testing.T, req dmn.RaceRequest) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func runnerRequest() dmn.RaceRequest {
	return dmn.RaceRequest{Agents: []dmn.RaceEntry{{Config: &dmn.AgentConfig{Name: "runner", Algorithm: dmn.AlgorithmAStar}}}}
}

func TestNewRaceController(t *testing.T) {
	_, err := NewRaceController(nil, nil, silentLogger{})
	assert.ErrorIs(t, err, ErrNilRaceManager)
}

func TestRaceRoutes(t *testing.T) {
	router := newRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/races", raceBody(t, runnerRequest())))
	require.Equal(t, http.StatusCreated, w.Code)

	var result dmn.RaceResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 5, result.Ticks)
	assert.Equal(t, "3x3", result.Board)

	t.Run("result is kept", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/races/"+result.ID.String(), nil))
		require.Equal(t, http.StatusOK, w.Code)

		var stored dmn.RaceResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
		assert.Equal(t, result.ID, stored.ID)
	})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed body", http.MethodPost, "/api/v1/races", "{", http.StatusBadRequest},
		{"no agents", http.MethodPost, "/api/v1/races", `{"agents":[]}`, http.StatusBadRequest},
		{"stored config without repository", http.MethodPost, "/api/v1/races", `{"agents":[{"configId":"` + uuid.NewString() + `"}]}`, http.StatusBadRequest},
		{"malformed id", http.MethodGet, "/api/v1/races/abc", "", http.StatusBadRequest},
		{"unknown race", http.MethodGet, "/api/v1/races/" + uuid.NewString(), "", http.StatusNotFound},
		{"leaderboard disabled", http.MethodGet, "/api/v1/leaderboard/3x3", "", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestLeaderboardRoute(t *testing.T) {
	board := &fixedBoard{entries: []dmn.LeaderboardEntry{
		{AgentID: uuid.New(), Ticks: 5, Rank: 1},
		{AgentID: uuid.New(), Ticks: 9, Rank: 2},
	}}
	router := newRouter(t, board)

	t.Run("top entries", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/3x3?limit=1", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp LeaderboardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "3x3", resp.Board)
		assert.Equal(t, board.entries[:1], resp.Entries)
	})

	t.Run("invalid limit", func(t *testing.T) {
		for _, limit := range []string{"0", "-3", "abc", "101"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/3x3?limit="+limit, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code, limit)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		board.err = errors.New("redis down")
		defer func() { board.err = nil }()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/3x3", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestWatch(t *testing.T) {
	server := httptest.NewServer(newRouter(t, nil))
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/races/watch"

	t.Run("streams ticks then the result", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteJSON(runnerRequest()))

		var frames []WatchMessage
		for {
			var msg WatchMessage
			require.NoError(t, conn.ReadJSON(&msg))
			frames = append(frames, msg)
			if msg.Type != MessageTick {
				break
			}
		}

		require.Len(t, frames, 6)
		for tick, f := range frames[:5] {
			require.NotNil(t, f.Snapshot)
			assert.Equal(t, tick+1, f.Snapshot.Tick)
		}
		last := frames[5]
		assert.Equal(t, MessageResult, last.Type)
		require.NotNil(t, last.Result)
		assert.Equal(t, 5, last.Result.Ticks)
	})

	t.Run("rejects a malformed request", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("nope")))
		var msg WatchMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, MessageError, msg.Type)
	})

	t.Run("reports race errors", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.WriteJSON(dmn.RaceRequest{}))
		var msg WatchMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, MessageError, msg.Type)
		assert.NotEmpty(t, msg.Error)
	})
}
