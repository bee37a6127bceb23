package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Info(msg string)    { l.lines = append(l.lines, "INFO "+msg) }
func (l *recordingLogger) Warning(msg string) { l.lines = append(l.lines, "WARN "+msg) }
func (l *recordingLogger) Error(msg string)   { l.lines = append(l.lines, "ERROR "+msg) }
func (l *recordingLogger) Debug(msg string)   { l.lines = append(l.lines, "DEBUG "+msg) }

func (l *recordingLogger) contains(prefix string) bool {
	for _, line := range l.lines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

type memoryRepo struct {
	configs map[uuid.UUID]*dmn.AgentConfig
}

func (r *memoryRepo) Save(cfg *dmn.AgentConfig) error {
	r.configs[cfg.ID] = cfg
	return nil
}

func (r *memoryRepo) ByID(id uuid.UUID) (*dmn.AgentConfig, error) {
	cfg, ok := r.configs[id]
	if !ok {
		return nil, dmn.ErrAgentConfigNotFound
	}
	return cfg, nil
}

func (r *memoryRepo) List(limit int64) ([]*dmn.AgentConfig, error) {
	configs := make([]*dmn.AgentConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		configs = append(configs, cfg)
	}
	return configs, nil
}

func (r *memoryRepo) Delete(id uuid.UUID) error {
	delete(r.configs, id)
	return nil
}

type memoryBoard struct {
	best map[string]map[uuid.UUID]int
	err  error
}

func (b *memoryBoard) Record(_ context.Context, board string, id uuid.UUID, ticks int) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	if b.best[board] == nil {
		b.best[board] = make(map[uuid.UUID]int)
	}
	if prev, ok := b.best[board][id]; ok && prev <= ticks {
		return false, nil
	}
	b.best[board][id] = ticks
	return true, nil
}

func (b *memoryBoard) Top(context.Context, string, int64) ([]dmn.LeaderboardEntry, error) {
	return nil, nil
}

// openMaze builds bounded mazes with the exit east of the bottom-right cell.
func openMaze(width, height int, _ int64) (*maze.Maze, error) {
	return maze.NewBounded(width, height, maze.Point{X: width, Y: height - 1})
}

func newManager(t *testing.T) (*RaceManager, *memoryRepo, *memoryBoard, *recordingLogger) {
	t.Helper()
	repo := &memoryRepo{configs: make(map[uuid.UUID]*dmn.AgentConfig)}
	board := &memoryBoard{best: make(map[string]map[uuid.UUID]int)}
	logger := &recordingLogger{}
	rm, err := NewRaceManager(&Config{
		MazeFactory:   openMaze,
		Repo:          repo,
		Leaderboard:   board,
		Logger:        logger,
		MaxTicks:      50,
		DefaultWidth:  3,
		DefaultHeight: 3,
	})
	require.NoError(t, err)
	return rm, repo, board, logger
}

func inline(name, algorithm string) *dmn.AgentConfig {
	return &dmn.AgentConfig{Name: name, Algorithm: algorithm}
}

func TestNewRaceManager(t *testing.T) {
	_, err := NewRaceManager(&Config{})
	assert.ErrorIs(t, err, ErrNilLogger)

	rm, err := NewRaceManager(&Config{Logger: &recordingLogger{}})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxTicks, rm.maxTicks)
	assert.Equal(t, defaultMazeSize, rm.defaultWidth)
	assert.Equal(t, defaultMazeSize, rm.defaultHeight)
	assert.NotNil(t, rm.mazeFactory)
}

func TestRace(t *testing.T) {
	t.Run("inline agent finishes and is recorded", func(t *testing.T) {
		rm, _, board, logger := newManager(t)
		result, err := rm.Race(context.Background(), dmn.RaceRequest{
			Agents: []dmn.RaceEntry{{Config: inline("runner", dmn.AlgorithmAStar)}},
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, "3x3", result.Board)
		assert.Equal(t, maze.Point{X: 3, Y: 2}, result.Exit)
		assert.Equal(t, 5, result.Ticks)
		require.Len(t, result.Agents, 1)
		runner := result.Agents[0]
		assert.True(t, runner.Finished)
		assert.Equal(t, 5, runner.FinishTick)
		assert.NotEqual(t, uuid.Nil, runner.AgentID)
		assert.Equal(t, 5, board.best["3x3"][runner.AgentID])

		stored, err := rm.Result(result.ID)
		require.NoError(t, err)
		assert.Same(t, result, stored)
		assert.True(t, logger.contains("INFO race "))
		assert.True(t, logger.contains("DEBUG runner set a new best"))
	})

	t.Run("stored configs", func(t *testing.T) {
		rm, repo, _, _ := newManager(t)
		cfg, err := dmn.NewAgentConfig(dmn.AgentConfigParams{Name: "planner", Algorithm: dmn.AlgorithmDStar, Channel: "blue"})
		require.NoError(t, err)
		require.NoError(t, repo.Save(cfg))

		result, err := rm.Race(context.Background(), dmn.RaceRequest{
			Width:  4,
			Height: 4,
			Agents: []dmn.RaceEntry{{ConfigID: cfg.ID}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "4x4", result.Board)
		require.Len(t, result.Finishers(), 1)
		assert.Equal(t, cfg.ID, result.Agents[0].AgentID)

		_, err = rm.Race(context.Background(), dmn.RaceRequest{
			Agents: []dmn.RaceEntry{{ConfigID: uuid.New()}},
		}, nil)
		assert.ErrorIs(t, err, dmn.ErrAgentConfigNotFound)
	})

	t.Run("stored configs need a repository", func(t *testing.T) {
		rm, err := NewRaceManager(&Config{Logger: &recordingLogger{}, MazeFactory: openMaze})
		require.NoError(t, err)
		_, err = rm.Race(context.Background(), dmn.RaceRequest{
			Agents: []dmn.RaceEntry{{ConfigID: uuid.New()}},
		}, nil)
		assert.ErrorIs(t, err, ErrNoRepo)
	})

	t.Run("layout wins over size", func(t *testing.T) {
		rm, _, _, _ := newManager(t)
		layout, err := maze.NewBounded(5, 2, maze.Point{X: 5, Y: 1})
		require.NoError(t, err)

		result, err := rm.Race(context.Background(), dmn.RaceRequest{
			Width:  9,
			Height: 9,
			Layout: layout.String(),
			Agents: []dmn.RaceEntry{{Config: inline("walker", dmn.AlgorithmWallFollower)}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "5x2", result.Board)
		assert.Equal(t, layout.String(), result.Layout)
	})

	t.Run("invalid requests", func(t *testing.T) {
		rm, _, _, _ := newManager(t)
		tests := []struct {
			name string
			req  dmn.RaceRequest
		}{
			{"no agents", dmn.RaceRequest{}},
			{"bad size", dmn.RaceRequest{Width: 1000, Agents: []dmn.RaceEntry{{Config: inline("runner", dmn.AlgorithmAStar)}}}},
			{"bad algorithm", dmn.RaceRequest{Agents: []dmn.RaceEntry{{Config: inline("runner", "teleport")}}}},
			{"start outside", dmn.RaceRequest{Agents: []dmn.RaceEntry{{Config: inline("runner", dmn.AlgorithmAStar), Start: maze.Point{X: 7, Y: 7}}}}},
			{"shared start", dmn.RaceRequest{Agents: []dmn.RaceEntry{
				{Config: inline("first", dmn.AlgorithmAStar)},
				{Config: inline("second", dmn.AlgorithmAStar)},
			}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := rm.Race(context.Background(), tt.req, nil)
				assert.ErrorIs(t, err, ErrInvalidRequest)
			})
		}
	})

	t.Run("streams snapshots", func(t *testing.T) {
		rm, _, _, _ := newManager(t)
		ticks := make(chan game.Snapshot, 50)
		result, err := rm.Race(context.Background(), dmn.RaceRequest{
			Agents: []dmn.RaceEntry{{Config: inline("runner", dmn.AlgorithmDStar)}},
		}, ticks)
		require.NoError(t, err)
		close(ticks)

		var last game.Snapshot
		count := 0
		for s := range ticks {
			count++
			last = s
		}
		assert.Equal(t, result.Ticks, count)
		assert.True(t, last.Done)
	})

	t.Run("cancelled race is not stored", func(t *testing.T) {
		rm, _, board, logger := newManager(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := rm.Race(ctx, dmn.RaceRequest{
			Agents: []dmn.RaceEntry{{Config: inline("runner", dmn.AlgorithmAStar)}},
		}, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, rm.results)
		assert.Empty(t, board.best)
		assert.True(t, logger.contains("WARN race "))
	})

	t.Run("leaderboard failures do not fail the race", func(t *testing.T) {
		rm, _, board, logger := newManager(t)
		board.err = errors.New("redis down")

		result, err := rm.Race(context.Background(), dmn.RaceRequest{
			Agents: []dmn.RaceEntry{{Config: inline("runner", dmn.AlgorithmAStar)}},
		}, nil)
		require.NoError(t, err)
		assert.Len(t, result.Finishers(), 1)
		assert.True(t, logger.contains("ERROR recording runner"))
	})
}

func TestResult(t *testing.T) {
	rm, _, _, _ := newManager(t)
	_, err := rm.Result(uuid.New())
	assert.ErrorIs(t, err, ErrRaceNotFound)
}
