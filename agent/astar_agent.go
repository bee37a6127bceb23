package agent

import (
	"github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/beka-birhanu/vinom-nav/planner/astar"
)

// AStarAgent plans a complete route with A* and replays it until it stops
// matching where the agent actually is.
type AStarAgent struct {
	base
	planner *astar.Planner
	route   []maze.Point // route[step] is where the agent should be
	step    int
	replans int
}

func (a *AStarAgent) AlgorithmName() string { return domain.AlgorithmAStar }

// Replans returns how many times a route was computed.
func (a *AStarAgent) Replans() int { return a.replans }

func (a *AStarAgent) NextMovement() maze.Direction {
	if d := a.exitDirection(); d != maze.None {
		return d
	}
	if !a.onRoute() {
		a.plan()
	}
	if !a.onRoute() {
		return maze.None
	}
	return maze.DirectionBetween(a.route[a.step], a.route[a.step+1])
}

func (a *AStarAgent) DoMovement(d maze.Direction) {
	if d == maze.None {
		a.route = nil
		return
	}
	a.move(d)
	if a.route != nil && a.step+1 < len(a.route) && a.route[a.step+1] == a.position {
		a.step++
		return
	}
	a.route = nil
}

func (a *AStarAgent) SetPosition(p maze.Point) {
	a.base.SetPosition(p)
	a.route = nil
}

func (a *AStarAgent) ResetMemory() {
	a.route = nil
	a.step = 0
}

// onRoute reports whether the cached route still has a step to take from
// the current position.
func (a *AStarAgent) onRoute() bool {
	return a.route != nil && a.step+1 < len(a.route) && a.route[a.step] == a.position
}

func (a *AStarAgent) plan() {
	a.replans++
	a.step = 0
	path, err := a.planner.Plan(a.position, a.env.Exit(), a.env)
	if err != nil {
		a.route = nil
		return
	}
	a.route = path.Points()
}
