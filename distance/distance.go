// Package distance provides the heuristics planners use to estimate the
// remaining cost between two grid points.
package distance

import (
	"errors"
	"fmt"
	"math"

	"github.com/beka-birhanu/vinom-nav/maze"
)

var (
	ErrUnknownMetric = errors.New("unknown distance metric")
)

// Calculator maps two grid points to a non-negative cost estimate.
// A* is only optimal when the estimate never exceeds the true remaining cost.
type Calculator interface {
	Distance(a, b maze.Point) float64
	Name() string
}

// Manhattan is the sum of the absolute axis differences.
type Manhattan struct{}

func (Manhattan) Distance(a, b maze.Point) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Y-b.Y))
}

func (Manhattan) Name() string { return "manhattan" }

// Euclidean is the straight-line distance.
type Euclidean struct{}

func (Euclidean) Distance(a, b maze.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func (Euclidean) Name() string { return "euclidean" }

// ByName resolves a metric from its configuration name. The empty name
// selects Manhattan.
func ByName(name string) (Calculator, error) {
	switch name {
	case "", Manhattan{}.Name():
		return Manhattan{}, nil
	case Euclidean{}.Name():
		return Euclidean{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}
