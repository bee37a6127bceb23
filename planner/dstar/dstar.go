/*
Package dstar implements incremental replanning with the D* algorithm.

A Planner keeps a believed maze that starts without walls and a State per
cell mirroring it. Costs propagate outward from the goal through an open list
ordered by key value. When sensing at the agent's position disagrees with the
believed maze the wall is learned on both sides of the edge, the affected
states are marked dirty with ModifyCost and the open list is drained again.

A Planner is not safe for concurrent use. Agents sharing one through a
Registry channel must be driven from a single goroutine.
*/
package dstar

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-nav/distance"
	"github.com/beka-birhanu/vinom-nav/maze"
)

const (
	largeCost    = 1e12 // cost of a state nothing has reached yet
	obstacleCost = 1e7  // cost of crossing a believed wall
	noSolution   = -1.0
)

var (
	ErrNilCalculator = errors.New("distance calculator is required")
)

// Stats counts the planning work done so far.
type Stats struct {
	FullReplans    int `json:"fullReplans"`
	PartialReplans int `json:"partialReplans"`
	Expansions     int `json:"expansions"`
	LearnedWalls   int `json:"learnedWalls"`
}

// Planner is the D* state machine over one believed maze.
type Planner struct {
	metric   distance.Calculator
	believed *maze.Maze
	goal     maze.Point
	states   []*State
	open     openList
	stats    Stats
}

// New creates a planner for a width x height grid whose exit is at exit.
// The goal state is the in-grid cell the exit is reached through.
func New(width, height int, exit maze.Point, metric distance.Calculator) (*Planner, error) {
	if metric == nil {
		return nil, ErrNilCalculator
	}
	believed, err := maze.NewEmpty(width, height, exit)
	if err != nil {
		return nil, err
	}

	pl := &Planner{
		metric:   metric,
		believed: believed,
		goal:     believed.ExitCell(),
		states:   make([]*State, 0, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pl.states = append(pl.states, newState(maze.Point{X: x, Y: y}, len(pl.states)))
		}
	}
	return pl, nil
}

func (pl *Planner) Width() int { return pl.believed.Width() }

func (pl *Planner) Height() int { return pl.believed.Height() }

func (pl *Planner) Exit() maze.Point { return pl.believed.Exit() }

// Goal returns the cell costs propagate from.
func (pl *Planner) Goal() maze.Point { return pl.goal }

func (pl *Planner) Metric() distance.Calculator { return pl.metric }

// Believed returns the wall topology learned so far. Callers must not modify it.
func (pl *Planner) Believed() *maze.Maze {
	return pl.believed
}

// State returns the planner state of cell p. It panics when p is outside the grid.
func (pl *Planner) State(p maze.Point) *State {
	return pl.state(p)
}

func (pl *Planner) Stats() Stats {
	return pl.stats
}

// OpenLen returns the number of states waiting on the open list.
func (pl *Planner) OpenLen() int {
	return pl.open.Len()
}

// Reset forgets every learned wall and every cost.
func (pl *Planner) Reset() {
	pl.ResetStates()
	pl.believed.Clear()
	pl.stats = Stats{}
}

// ResetStates drops all costs and the open list but keeps the believed maze,
// so the next FullReplan plans over what has been learned.
func (pl *Planner) ResetStates() {
	for _, s := range pl.states {
		s.reset()
	}
	pl.open = pl.open[:0]
}

func (pl *Planner) state(p maze.Point) *State {
	if !pl.believed.Contains(p) {
		panic(fmt.Sprintf("dstar: point %s outside %dx%d grid", p, pl.Width(), pl.Height()))
	}
	return pl.states[p.Y*pl.Width()+p.X]
}

// neighbors returns the in-grid states 4-adjacent to s.
func (pl *Planner) neighbors(s *State) []*State {
	neighbors := make([]*State, 0, len(maze.Directions))
	for _, d := range maze.Directions {
		if p := s.point.Add(d); pl.believed.Contains(p) {
			neighbors = append(neighbors, pl.state(p))
		}
	}
	return neighbors
}

// cost is the metric distance between adjacent states, or obstacleCost when
// the believed maze has a wall between them.
func (pl *Planner) cost(a, b *State) float64 {
	if pl.believed.HasWall(a.point, maze.DirectionBetween(a.point, b.point)) {
		return obstacleCost
	}
	return pl.metric.Distance(a.point, b.point)
}

// insert puts s on the open list with path cost hNew, or re-prioritizes it
// when it is already there.
func (pl *Planner) insert(s *State, hNew float64) {
	switch s.tag {
	case TagNew:
		s.p = hNew
	case TagOpen:
		s.p = min(s.p, s.h)
	case TagClosed:
		s.p = s.h
	}
	s.h = hNew
	s.k = min(s.h, s.p)
	s.tag = TagOpen

	if s.heapIndex >= 0 {
		heap.Fix(&pl.open, s.heapIndex)
		return
	}
	heap.Push(&pl.open, s)
}

func (pl *Planner) delete(s *State) {
	if s.heapIndex >= 0 {
		heap.Remove(&pl.open, s.heapIndex)
	}
	s.tag = TagClosed
}

func (pl *Planner) kMin() float64 {
	if pl.open.Len() == 0 {
		return noSolution
	}
	return pl.open[0].k
}

// ProcessState expands the open state with the lowest key value and returns
// the new minimum key, or -1 when the open list is empty.
func (pl *Planner) ProcessState() float64 {
	if pl.open.Len() == 0 {
		return noSolution
	}
	x := pl.open[0]
	kOld := x.k
	pl.delete(x)
	pl.stats.Expansions++

	neighbors := pl.neighbors(x)

	// x was raised: settled neighbours may still offer a cheaper route.
	if kOld < x.h {
		for _, y := range neighbors {
			if y.tag == TagClosed && y.h <= kOld && x.h > y.h+pl.cost(y, x) {
				x.backpointer = y.index
				x.h = y.h + pl.cost(y, x)
			}
		}
	}

	if kOld == x.h {
		for _, y := range neighbors {
			c := pl.cost(x, y)
			if y.tag == TagNew ||
				(y.backpointer == x.index && y.h != x.h+c) ||
				(y.backpointer != x.index && y.h > x.h+c) {
				y.backpointer = x.index
				pl.insert(y, x.h+c)
			}
		}
		return pl.kMin()
	}

	for _, y := range neighbors {
		c := pl.cost(x, y)
		switch {
		case y.tag == TagNew || (y.backpointer == x.index && y.h != x.h+c):
			y.backpointer = x.index
			pl.insert(y, x.h+c)
		case y.backpointer != x.index && y.h > x.h+c:
			pl.insert(x, x.h)
		case y.backpointer != x.index && x.h > y.h+pl.cost(y, x) && y.tag == TagClosed && y.h > kOld:
			pl.insert(y, y.h)
		}
	}
	return pl.kMin()
}

// ModifyCost marks the state at p dirty after the cost of one of its edges
// changed. States that are not closed are left untouched.
func (pl *Planner) ModifyCost(p maze.Point) float64 {
	s := pl.state(p)
	if s.tag == TagClosed {
		pl.insert(s, s.h)
	}
	return pl.kMin()
}

// FullReplan seeds the goal, unless an earlier plan already did, and
// processes states until the one at target is closed or nothing is left to
// process. It returns the path cost of target.
func (pl *Planner) FullReplan(target maze.Point) float64 {
	pl.stats.FullReplans++

	goal := pl.state(pl.goal)
	if goal.tag == TagNew {
		pl.insert(goal, 0)
	}

	t := pl.state(target)
	for t.tag != TagClosed {
		if pl.ProcessState() == noSolution {
			break
		}
	}
	return t.h
}

// PartialReplan drains the open list after ModifyCost calls and returns the
// repaired path cost of the state at p. Stopping as soon as the minimum key
// exceeds that cost loops forever when no path exists, so the list is always
// drained completely.
func (pl *Planner) PartialReplan(p maze.Point) float64 {
	pl.stats.PartialReplans++

	for {
		if pl.ProcessState() == noSolution {
			break
		}
	}
	return pl.state(p).h
}

// NextDirection runs one tick of the driver for an agent standing at current:
// step out when the exit is adjacent, plan if needed, learn the walls sensed
// through oracle and follow the backpointer. It returns None when the goal is
// unreachable given what is believed.
func (pl *Planner) NextDirection(current maze.Point, oracle maze.Oracle) maze.Direction {
	x := pl.state(current)

	for _, d := range maze.Directions {
		if oracle.Look(current, d) == maze.OffLimits {
			return d
		}
	}

	if x.tag != TagClosed {
		pl.FullReplan(current)
	}

	if pl.sense(current, oracle) {
		pl.PartialReplan(current)
	}

	d := pl.follow(x)
	if d != maze.None && pl.believed.HasWall(current, d) {
		pl.ModifyCost(current)
		pl.ModifyCost(current.Add(d))
		pl.PartialReplan(current)

		d = pl.follow(x)
		if d != maze.None && pl.believed.HasWall(current, d) {
			return maze.None
		}
	}
	return d
}

// sense compares the walls around current with the believed maze and learns
// every difference. Edges leading out of the grid are never compared.
func (pl *Planner) sense(current maze.Point, oracle maze.Oracle) bool {
	changed := false
	for _, d := range maze.Directions {
		if !pl.believed.Contains(current.Add(d)) {
			continue
		}
		sensed := oracle.Look(current, d) == maze.Wall
		if sensed != pl.believed.HasWall(current, d) {
			pl.learnWall(current, d)
			changed = true
		}
	}
	return changed
}

// learnWall toggles the edge between p and its neighbour in direction d on
// both sides and marks both states dirty.
func (pl *Planner) learnWall(p maze.Point, d maze.Direction) {
	to := p.Add(d)
	pl.believed.ToggleWall(p, d)
	pl.believed.ToggleWall(to, d.Opposite())
	pl.stats.LearnedWalls++

	pl.ModifyCost(to)
	pl.ModifyCost(p)
}

// follow converts the backpointer of s into a move.
func (pl *Planner) follow(s *State) maze.Direction {
	if !s.HasBackpointer() || s.h >= obstacleCost {
		return maze.None
	}
	return maze.DirectionBetween(s.point, pl.states[s.backpointer].point)
}
