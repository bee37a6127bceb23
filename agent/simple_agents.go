package agent

import (
	"math/rand"

	"github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/maze"
)

// RandomAgent picks uniformly among the moves currently allowed.
type RandomAgent struct {
	base
	seed int64
	rnd  *rand.Rand
}

func (a *RandomAgent) AlgorithmName() string { return domain.AlgorithmRandom }

func (a *RandomAgent) NextMovement() maze.Direction {
	if d := a.exitDirection(); d != maze.None {
		return d
	}
	allowed := a.allowedDirections()
	if len(allowed) == 0 {
		return maze.None
	}
	return allowed[a.rnd.Intn(len(allowed))]
}

func (a *RandomAgent) DoMovement(d maze.Direction) {
	if d != maze.None {
		a.move(d)
	}
}

// ResetMemory restarts the random sequence from the configured seed.
func (a *RandomAgent) ResetMemory() {
	a.rnd = rand.New(rand.NewSource(a.seed))
}

// WallFollowerAgent keeps its right hand on the wall.
type WallFollowerAgent struct {
	base
	heading maze.Direction
}

func (a *WallFollowerAgent) AlgorithmName() string { return domain.AlgorithmWallFollower }

// NextMovement tries right of the heading first, then straight on, then
// left, and turns back only as a last resort.
func (a *WallFollowerAgent) NextMovement() maze.Direction {
	if d := a.exitDirection(); d != maze.None {
		return d
	}
	right := a.heading.Rotate()
	for _, d := range []maze.Direction{right, a.heading, right.Opposite(), a.heading.Opposite()} {
		if a.env.MovementAllowed(a.position, d) {
			return d
		}
	}
	return maze.None
}

func (a *WallFollowerAgent) DoMovement(d maze.Direction) {
	if d == maze.None {
		return
	}
	a.move(d)
	a.heading = d
}

func (a *WallFollowerAgent) ResetMemory() {
	a.heading = maze.Right
}
