package game

import (
	"context"
	"errors"
	"sync"

	"github.com/beka-birhanu/vinom-nav/agent"
	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/google/uuid"
)

// Race-related errors.
var (
	ErrNoAgents          = errors.New("no agents")
	ErrTooManyAgents     = errors.New("too many agents")
	ErrInvalidTickBudget = errors.New("tick budget must be positive")
)

const (
	maxAgents = 16 // Maximum number of agents in one race.
)

// AgentState is the public progress of one agent.
type AgentState struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Algorithm  string     `json:"algorithm"`
	Start      maze.Point `json:"start"`
	Position   maze.Point `json:"position"`
	Finished   bool       `json:"finished"`
	FinishTick int        `json:"finishTick,omitempty"`
	Moves      int        `json:"moves"`
	Stalls     int        `json:"stalls"`
}

// Snapshot is the race state after a tick.
type Snapshot struct {
	Tick   int          `json:"tick"`
	Agents []AgentState `json:"agents"`
	Done   bool         `json:"done"`
}

// RaceConfig holds parameters for creating a Race.
type RaceConfig struct {
	Environment *Environment
	Agents      []agent.Agent
	MaxTicks    int
}

// Race moves agents through an environment one tick at a time. Within a tick
// agents act strictly in order, so planners shared between them only ever
// see one writer at a time.
type Race struct {
	env          *Environment
	agents       []agent.Agent
	states       []AgentState
	tick         int
	maxTicks     int
	active       int
	sync.RWMutex // Read-Write lock for synchronizing access.
}

// NewRace places every agent on its current position and creates the race.
// Returns an error if configuration constraints are violated.
func NewRace(cfg RaceConfig) (*Race, error) {
	if cfg.Environment == nil {
		return nil, ErrNilMaze
	}
	if len(cfg.Agents) == 0 {
		return nil, ErrNoAgents
	}
	if len(cfg.Agents) > maxAgents {
		return nil, ErrTooManyAgents
	}
	if cfg.MaxTicks <= 0 {
		return nil, ErrInvalidTickBudget
	}

	states := make([]AgentState, 0, len(cfg.Agents))
	for _, a := range cfg.Agents {
		if err := cfg.Environment.Place(a.ID(), a.Position()); err != nil {
			for _, placed := range states {
				cfg.Environment.Remove(placed.ID)
			}
			return nil, err
		}
		states = append(states, AgentState{
			ID:        a.ID(),
			Name:      a.Name(),
			Algorithm: a.AlgorithmName(),
			Start:     a.Position(),
			Position:  a.Position(),
		})
	}

	r := &Race{
		env:      cfg.Environment,
		agents:   cfg.Agents,
		states:   states,
		maxTicks: cfg.MaxTicks,
		active:   len(cfg.Agents),
	}
	// An agent starting on an exit inside the grid is done before it moves.
	for i := range r.states {
		if r.states[i].Start == r.env.Exit() {
			r.states[i].Finished = true
			r.env.Remove(r.states[i].ID)
			r.active--
		}
	}
	return r, nil
}

// Done reports whether every agent finished or the tick budget is spent.
func (r *Race) Done() bool {
	r.RLock()
	defer r.RUnlock()
	return r.done()
}

func (r *Race) done() bool {
	return r.active == 0 || r.tick >= r.maxTicks
}

// Step plays one tick and reports whether the race goes on.
func (r *Race) Step() bool {
	r.Lock()
	defer r.Unlock()

	if r.done() {
		return false
	}
	r.tick++

	for i, a := range r.agents {
		state := &r.states[i]
		if state.Finished {
			continue
		}

		d := a.NextMovement()
		if d == maze.None {
			state.Stalls++
			a.DoMovement(maze.None)
			continue
		}

		to, err := r.env.Move(a.ID(), d)
		if err != nil {
			state.Stalls++
			a.DoMovement(maze.None)
			continue
		}
		a.DoMovement(d)
		state.Moves++
		state.Position = to

		if to == r.env.Exit() {
			state.Finished = true
			state.FinishTick = r.tick
			r.env.Remove(a.ID())
			r.active--
		}
	}
	return !r.done()
}

// Run plays ticks until the race is done or ctx is cancelled. After every
// tick a snapshot is sent on ticks when it is not nil. Agents holding shared
// resources release them when Run returns.
func (r *Race) Run(ctx context.Context, ticks chan<- Snapshot) (Snapshot, error) {
	defer r.release()

	for !r.Done() {
		if err := ctx.Err(); err != nil {
			return r.Snapshot(), err
		}
		r.Step()
		if ticks == nil {
			continue
		}
		select {
		case ticks <- r.Snapshot():
		case <-ctx.Done():
			return r.Snapshot(), ctx.Err()
		}
	}
	return r.Snapshot(), nil
}

// Snapshot returns a copy of the current race state.
func (r *Race) Snapshot() Snapshot {
	r.RLock()
	defer r.RUnlock()

	agents := make([]AgentState, len(r.states))
	copy(agents, r.states)
	return Snapshot{
		Tick:   r.tick,
		Agents: agents,
		Done:   r.done(),
	}
}

func (r *Race) release() {
	for _, a := range r.agents {
		if releaser, ok := a.(agent.Releaser); ok {
			releaser.Release()
		}
	}
}
