// Package astar implements the baseline planner: a best-first search over the
// currently visible maze topology, recomputed from scratch whenever its cached
// route stops being usable.
package astar

import (
	"container/heap"
	"errors"

	"github.com/beka-birhanu/vinom-nav/distance"
	"github.com/beka-birhanu/vinom-nav/maze"
)

const stepCost = 1.0

var (
	ErrNilCalculator = errors.New("distance calculator is required")
	ErrNilOracle     = errors.New("visibility oracle is required")
	ErrNoPath        = errors.New("no path to the exit")
)

// Node represents a path in the A* frontier.
type Node struct {
	Path  *Path
	F     float64 // cost + heuristic
	Index int     // Index in the heap
}

// PriorityQueue implements heap.Interface for the A* frontier.
type PriorityQueue []*Node

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].F < pq[j].F
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*Node)
	node.Index = n
	*pq = append(*pq, node)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*pq = old[0 : n-1]
	return node
}

// Planner computes full routes with A*.
type Planner struct {
	metric distance.Calculator
}

// New creates a planner estimating remaining cost with metric.
func New(metric distance.Calculator) (*Planner, error) {
	if metric == nil {
		return nil, ErrNilCalculator
	}
	return &Planner{metric: metric}, nil
}

// Metric returns the heuristic in use.
func (p *Planner) Metric() distance.Calculator {
	return p.metric
}

// search holds the bookkeeping of one Plan call.
type search struct {
	metric distance.Calculator
	exit   maze.Point
	open   *PriorityQueue
	opened map[maze.Point]*Node
	closed map[maze.Point]*Node
}

// Plan returns the cheapest path from `from` to `exit` through the moves the
// oracle currently allows. Steps leaving the grid are only taken onto the exit.
func (p *Planner) Plan(from, exit maze.Point, oracle maze.Oracle) (*Path, error) {
	if oracle == nil {
		return nil, ErrNilOracle
	}

	s := &search{
		metric: p.metric,
		exit:   exit,
		open:   &PriorityQueue{},
		opened: make(map[maze.Point]*Node),
		closed: make(map[maze.Point]*Node),
	}
	heap.Init(s.open)
	s.insert(NewPath(from))

	for s.open.Len() > 0 {
		current := heap.Pop(s.open).(*Node)
		end := current.Path.End()
		delete(s.opened, end)

		if end == exit {
			return current.Path, nil
		}
		s.closed[end] = current

		back := current.Path.LastDirection().Opposite()
		for _, d := range maze.Directions {
			if d == back || !oracle.MovementAllowed(end, d) {
				continue
			}
			next := end.Add(d)
			if oracle.Look(end, d) == maze.OffLimits && next != exit {
				continue
			}
			s.insert(current.Path.Extend(next, stepCost))
		}
	}

	return nil, ErrNoPath
}

// NextDirection plans from scratch and returns only the first move, None
// when the exit is unreachable or already reached.
func (p *Planner) NextDirection(from, exit maze.Point, oracle maze.Oracle) maze.Direction {
	path, err := p.Plan(from, exit, oracle)
	if err != nil || path.Len() < 2 {
		return maze.None
	}
	return maze.DirectionBetween(path.At(0), path.At(1))
}

// insert keeps, per end point, only the path with the lowest cost+heuristic
// across both the open and the closed set.
func (s *search) insert(path *Path) {
	end := path.End()
	f := path.Cost() + s.metric.Distance(end, s.exit)

	if existing, ok := s.opened[end]; ok {
		if existing.F <= f {
			return
		}
		heap.Remove(s.open, existing.Index)
		delete(s.opened, end)
	}
	if existing, ok := s.closed[end]; ok {
		if existing.F <= f {
			return
		}
		delete(s.closed, end)
	}

	node := &Node{Path: path, F: f}
	heap.Push(s.open, node)
	s.opened[end] = node
}
