package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-nav/agent"
	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/beka-birhanu/vinom-nav/planner/dstar"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/google/uuid"
)

const (
	defaultMazeSize = 16
	defaultMaxTicks = 2000
	recordTimeout   = 2 * time.Second
)

var (
	ErrNilLogger      = errors.New("logger is required")
	ErrNoRepo         = errors.New("stored agent configs need a repository")
	ErrRaceNotFound   = errors.New("race not found")
	ErrInvalidRequest = errors.New("invalid race request")
)

// MazeFactory builds the ground-truth maze of a race.
type MazeFactory func(width, height int, seed int64) (*maze.Maze, error)

// GenerateMaze is the default MazeFactory: a Wilson maze from seed.
func GenerateMaze(width, height int, seed int64) (*maze.Maze, error) {
	return maze.Generate(width, height, rand.New(rand.NewSource(seed)))
}

// RaceManager builds races from requests, runs them and keeps their results.
type RaceManager struct {
	mazeFactory   MazeFactory
	repo          i.AgentConfigRepo
	leaderboard   i.Leaderboard
	logger        i.Logger
	maxTicks      int
	defaultWidth  int
	defaultHeight int
	results       map[uuid.UUID]*dmn.RaceResult
	sync.RWMutex
}

// Config holds the collaborators of a RaceManager. Repo and Leaderboard are
// optional.
type Config struct {
	MazeFactory   MazeFactory
	Repo          i.AgentConfigRepo
	Leaderboard   i.Leaderboard
	Logger        i.Logger
	MaxTicks      int
	DefaultWidth  int
	DefaultHeight int
}

// NewRaceManager creates a RaceManager, filling unset sizes and budgets with
// defaults.
func NewRaceManager(c *Config) (*RaceManager, error) {
	if c.Logger == nil {
		return nil, ErrNilLogger
	}
	rm := &RaceManager{
		mazeFactory:   c.MazeFactory,
		repo:          c.Repo,
		leaderboard:   c.Leaderboard,
		logger:        c.Logger,
		maxTicks:      c.MaxTicks,
		defaultWidth:  c.DefaultWidth,
		defaultHeight: c.DefaultHeight,
		results:       make(map[uuid.UUID]*dmn.RaceResult),
	}
	if rm.mazeFactory == nil {
		rm.mazeFactory = GenerateMaze
	}
	if rm.maxTicks <= 0 {
		rm.maxTicks = defaultMaxTicks
	}
	if rm.defaultWidth <= 0 {
		rm.defaultWidth = defaultMazeSize
	}
	if rm.defaultHeight <= 0 {
		rm.defaultHeight = defaultMazeSize
	}
	return rm, nil
}

// Race runs req to completion and stores its result. A snapshot is sent on
// ticks after every tick when ticks is not nil; Race never closes it.
func (rm *RaceManager) Race(ctx context.Context, req dmn.RaceRequest, ticks chan<- game.Snapshot) (*dmn.RaceResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	m, err := rm.buildMaze(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	env, err := game.NewEnvironment(m)
	if err != nil {
		return nil, err
	}

	// Channels are scoped to one race.
	registry := dstar.NewRegistry()
	agents, err := rm.buildAgents(req.Agents, env, registry)
	if err != nil {
		return nil, err
	}

	budget := req.MaxTicks
	if budget == 0 {
		budget = rm.maxTicks
	}
	race, err := game.NewRace(game.RaceConfig{
		Environment: env,
		Agents:      agents,
		MaxTicks:    budget,
	})
	if err != nil {
		release(agents)
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	result := &dmn.RaceResult{
		ID:        uuid.New(),
		Board:     dmn.BoardName(m.Width(), m.Height()),
		Width:     m.Width(),
		Height:    m.Height(),
		Exit:      m.Exit(),
		Layout:    m.String(),
		StartedAt: time.Now(),
	}
	rm.logger.Info(fmt.Sprintf("race %s started: %d agents on %s, budget %d", result.ID, len(agents), result.Board, budget))

	final, err := race.Run(ctx, ticks)
	if err != nil {
		rm.logger.Warning(fmt.Sprintf("race %s stopped at tick %d: %v", result.ID, final.Tick, err))
		return nil, err
	}

	result.FinishedAt = time.Now()
	result.Ticks = final.Tick
	result.Agents = make([]dmn.AgentResult, 0, len(final.Agents))
	for _, s := range final.Agents {
		result.Agents = append(result.Agents, dmn.AgentResult{
			AgentID:    s.ID,
			Name:       s.Name,
			Algorithm:  s.Algorithm,
			Start:      s.Start,
			Position:   s.Position,
			Finished:   s.Finished,
			FinishTick: s.FinishTick,
			Moves:      s.Moves,
			Stalls:     s.Stalls,
		})
	}

	rm.Lock()
	rm.results[result.ID] = result
	rm.Unlock()

	rm.record(result)
	rm.logger.Info(fmt.Sprintf("race %s done after %d ticks: %d/%d agents finished", result.ID, result.Ticks, len(result.Finishers()), len(result.Agents)))
	return result, nil
}

// Result returns a finished race.
func (rm *RaceManager) Result(id uuid.UUID) (*dmn.RaceResult, error) {
	rm.RLock()
	defer rm.RUnlock()

	result, ok := rm.results[id]
	if !ok {
		return nil, ErrRaceNotFound
	}
	return result, nil
}

func (rm *RaceManager) buildMaze(req dmn.RaceRequest) (*maze.Maze, error) {
	if req.Layout != "" {
		return maze.Parse(strings.NewReader(req.Layout))
	}

	width, height := req.Width, req.Height
	if width == 0 {
		width = rm.defaultWidth
	}
	if height == 0 {
		height = rm.defaultHeight
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	return rm.mazeFactory(width, height, seed)
}

func (rm *RaceManager) buildAgents(entries []dmn.RaceEntry, env *game.Environment, registry *dstar.Registry) ([]agent.Agent, error) {
	agents := make([]agent.Agent, 0, len(entries))
	for _, e := range entries {
		cfg, err := rm.resolve(e)
		if err != nil {
			release(agents)
			return nil, err
		}
		a, err := agent.New(cfg, e.Start, env, registry)
		if err != nil {
			release(agents)
			return nil, fmt.Errorf("%w: agent %s: %w", ErrInvalidRequest, cfg.Name, err)
		}
		agents = append(agents, a)
	}
	return agents, nil
}

// resolve returns the configuration of an entry. Inline configurations
// without an ID get a fresh one.
func (rm *RaceManager) resolve(e dmn.RaceEntry) (*dmn.AgentConfig, error) {
	if e.Config != nil {
		cfg := *e.Config
		if cfg.ID == uuid.Nil {
			cfg.ID = uuid.New()
		}
		return &cfg, nil
	}
	if rm.repo == nil {
		return nil, ErrNoRepo
	}
	return rm.repo.ByID(e.ConfigID)
}

// record submits every finisher to the board of the race. Leaderboard
// failures are logged and do not fail the race.
func (rm *RaceManager) record(result *dmn.RaceResult) {
	if rm.leaderboard == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	for _, a := range result.Finishers() {
		if a.FinishTick == 0 {
			continue
		}
		improved, err := rm.leaderboard.Record(ctx, result.Board, a.AgentID, a.FinishTick)
		if err != nil {
			rm.logger.Error(fmt.Sprintf("recording %s on %s: %v", a.Name, result.Board, err))
			continue
		}
		if improved {
			rm.logger.Debug(fmt.Sprintf("%s set a new best of %d ticks on %s", a.Name, a.FinishTick, result.Board))
		}
	}
}

func release(agents []agent.Agent) {
	for _, a := range agents {
		if r, ok := a.(agent.Releaser); ok {
			r.Release()
		}
	}
}
