// Package agent drives navigation strategies one step per simulation tick.
package agent

import (
	"errors"

	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/google/uuid"
)

var (
	ErrNilEnvironment      = errors.New("environment is required")
	ErrNilRegistry         = errors.New("channel registry is required for channel agents")
	ErrSharedStateMismatch = errors.New("shared planner does not match the environment")
)

// Agent is a navigation strategy bound to an environment.
type Agent interface {
	ID() uuid.UUID
	Name() string
	AlgorithmName() string
	Position() maze.Point
	// SetPosition relocates the agent without it moving. Memory is kept.
	SetPosition(p maze.Point)
	// NextMovement decides the move for this tick, None to stay.
	NextMovement() maze.Direction
	// DoMovement tells the agent which move was applied. None means it stayed.
	DoMovement(d maze.Direction)
	// ResetMemory forgets everything learned, as after a restart.
	ResetMemory()
}

// Releaser is implemented by agents holding shared resources that must be
// given back once the agent leaves the simulation.
type Releaser interface {
	Release()
}

// Environment is the world agents sense and move in.
type Environment interface {
	maze.Oracle
	Width() int
	Height() int
	Exit() maze.Point
}

// base carries what every agent has in common.
type base struct {
	id       uuid.UUID
	name     string
	position maze.Point
	env      Environment
}

func (b *base) ID() uuid.UUID { return b.id }

func (b *base) Name() string { return b.name }

func (b *base) Position() maze.Point { return b.position }

func (b *base) SetPosition(p maze.Point) { b.position = p }

func (b *base) move(d maze.Direction) {
	b.position = b.position.Add(d)
}

// exitDirection returns the move onto the exit when it is one step away.
func (b *base) exitDirection() maze.Direction {
	for _, d := range maze.Directions {
		if b.env.Look(b.position, d) == maze.OffLimits {
			return d
		}
	}
	return maze.None
}

// allowedDirections lists the moves currently possible from the agent's position.
func (b *base) allowedDirections() []maze.Direction {
	allowed := make([]maze.Direction, 0, len(maze.Directions))
	for _, d := range maze.Directions {
		if b.env.MovementAllowed(b.position, d) {
			allowed = append(allowed, d)
		}
	}
	return allowed
}
