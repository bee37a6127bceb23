package astar

import (
	"fmt"

	"github.com/beka-birhanu/vinom-nav/maze"
)

// Path is an immutable sequence of grid points with its accumulated cost.
// Extending a path shares the prefix with the original.
type Path struct {
	parent *Path
	point  maze.Point
	cost   float64
	length int
}

// NewPath returns a single-point path at p with zero cost.
func NewPath(p maze.Point) *Path {
	return &Path{point: p, length: 1}
}

// Extend returns a new path one step longer, ending at p.
func (p *Path) Extend(to maze.Point, stepCost float64) *Path {
	return &Path{
		parent: p,
		point:  to,
		cost:   p.cost + stepCost,
		length: p.length + 1,
	}
}

// End returns the last point of the path.
func (p *Path) End() maze.Point {
	return p.point
}

// Len returns the number of points on the path.
func (p *Path) Len() int {
	return p.length
}

// Cost returns the accumulated step cost.
func (p *Path) Cost() float64 {
	return p.cost
}

// At returns the point at index i, 0 being the start.
func (p *Path) At(i int) maze.Point {
	if i < 0 || i >= p.length {
		panic(fmt.Sprintf("astar: index %d out of path of length %d", i, p.length))
	}
	node := p
	for node.length-1 > i {
		node = node.parent
	}
	return node.point
}

// Points returns every point of the path from start to end.
func (p *Path) Points() []maze.Point {
	points := make([]maze.Point, p.length)
	for node := p; node != nil; node = node.parent {
		points[node.length-1] = node.point
	}
	return points
}

// Directions returns the moves leading along the path.
func (p *Path) Directions() []maze.Direction {
	points := p.Points()
	dirs := make([]maze.Direction, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		dirs = append(dirs, maze.DirectionBetween(points[i-1], points[i]))
	}
	return dirs
}

// LastDirection returns the move that produced the end point, None for a
// single-point path.
func (p *Path) LastDirection() maze.Direction {
	if p.parent == nil {
		return maze.None
	}
	return maze.DirectionBetween(p.parent.point, p.point)
}
