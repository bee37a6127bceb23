package game

import (
	"errors"
	"sync"

	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/google/uuid"
)

// Environment-related errors.
var (
	ErrNilMaze              = errors.New("maze is required")
	ErrInvalidAgentPosition = errors.New("agent is out of the maze")
	ErrDuplicatePosition    = errors.New("cell is already occupied")
	ErrAlreadyPlaced        = errors.New("agent is already placed")
	ErrUnknownAgent         = errors.New("agent is not in the environment")
	ErrMoveNotAllowed       = errors.New("move not allowed")
)

// Environment is the ground truth agents race in: the real maze plus where
// every agent stands.
type Environment struct {
	maze         *maze.Maze
	occupancy    *occupancy
	sync.RWMutex // Read-Write lock for synchronizing access.
}

// NewEnvironment creates an empty environment around m.
func NewEnvironment(m *maze.Maze) (*Environment, error) {
	if m == nil {
		return nil, ErrNilMaze
	}
	return &Environment{maze: m, occupancy: newOccupancy()}, nil
}

func (e *Environment) Maze() *maze.Maze { return e.maze }

func (e *Environment) Width() int { return e.maze.Width() }

func (e *Environment) Height() int { return e.maze.Height() }

func (e *Environment) Exit() maze.Point { return e.maze.Exit() }

// Look reports what lies one step from `from` in direction d. A free cell
// holding another agent is OCCUPIED.
func (e *Environment) Look(from maze.Point, d maze.Direction) maze.Vision {
	e.RLock()
	defer e.RUnlock()
	return e.look(from, d)
}

func (e *Environment) look(from maze.Point, d maze.Direction) maze.Vision {
	v := e.maze.Look(from, d)
	if v != maze.Empty || d == maze.None {
		return v
	}
	if _, ok := e.occupancy.at(from.Add(d)); ok {
		return maze.Occupied
	}
	return v
}

// MovementAllowed reports whether a step from `from` in direction d is free.
func (e *Environment) MovementAllowed(from maze.Point, d maze.Direction) bool {
	if d == maze.None {
		return false
	}
	v := e.Look(from, d)
	return v == maze.Empty || v == maze.OffLimits
}

// Place puts agent id on cell p.
func (e *Environment) Place(id uuid.UUID, p maze.Point) error {
	e.Lock()
	defer e.Unlock()

	if !e.maze.Contains(p) {
		return ErrInvalidAgentPosition
	}
	if _, ok := e.occupancy.position(id); ok {
		return ErrAlreadyPlaced
	}
	if _, ok := e.occupancy.at(p); ok {
		return ErrDuplicatePosition
	}
	e.occupancy.insert(id, p)
	return nil
}

// Move steps agent id in direction d and returns its new position. An agent
// stepping out of the grid leaves the occupancy index.
func (e *Environment) Move(id uuid.UUID, d maze.Direction) (maze.Point, error) {
	e.Lock()
	defer e.Unlock()

	from, ok := e.occupancy.position(id)
	if !ok {
		return maze.Point{}, ErrUnknownAgent
	}
	if v := e.look(from, d); d == maze.None || (v != maze.Empty && v != maze.OffLimits) {
		return from, ErrMoveNotAllowed
	}

	to := from.Add(d)
	e.occupancy.remove(id)
	if e.maze.Contains(to) {
		e.occupancy.insert(id, to)
	}
	return to, nil
}

// Remove takes agent id off the board.
func (e *Environment) Remove(id uuid.UUID) bool {
	e.Lock()
	defer e.Unlock()
	return e.occupancy.remove(id)
}

// OccupantAt returns the agent standing on p.
func (e *Environment) OccupantAt(p maze.Point) (uuid.UUID, bool) {
	e.RLock()
	defer e.RUnlock()
	return e.occupancy.at(p)
}

// Occupants returns the number of agents on the board.
func (e *Environment) Occupants() int {
	e.RLock()
	defer e.RUnlock()
	return e.occupancy.len()
}
