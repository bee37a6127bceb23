package agent

import (
	"github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/beka-birhanu/vinom-nav/planner/dstar"
)

// DStarAgent learns the maze as it goes and repairs its plan with D*.
// Agents on the same channel share one planner.
type DStarAgent struct {
	base
	planner  *dstar.Planner
	channel  string
	registry *dstar.Registry
}

func (a *DStarAgent) AlgorithmName() string { return domain.AlgorithmDStar }

// Channel returns the name of the shared planner, empty for a private one.
func (a *DStarAgent) Channel() string { return a.channel }

func (a *DStarAgent) NextMovement() maze.Direction {
	return a.planner.NextDirection(a.position, a.env)
}

func (a *DStarAgent) DoMovement(d maze.Direction) {
	if d != maze.None {
		a.move(d)
	}
}

// ResetMemory clears the planner. On a channel this affects every agent
// attached to it.
func (a *DStarAgent) ResetMemory() {
	a.planner.Reset()
}

// Stats reports the planning work of the agent's planner.
func (a *DStarAgent) Stats() dstar.Stats {
	return a.planner.Stats()
}

// SharedState returns the planner the agent navigates with.
func (a *DStarAgent) SharedState() *dstar.Planner {
	return a.planner
}

// SetSharedState makes the agent navigate with pl, which must be sized for
// the agent's environment.
func (a *DStarAgent) SetSharedState(pl *dstar.Planner) error {
	if pl == nil || pl.Width() != a.env.Width() || pl.Height() != a.env.Height() || pl.Exit() != a.env.Exit() {
		return ErrSharedStateMismatch
	}
	a.planner = pl
	return nil
}

// Release detaches the agent from its channel.
func (a *DStarAgent) Release() {
	if a.channel != "" && a.registry != nil {
		a.registry.Detach(a.channel)
		a.channel = ""
	}
}
