package dstar

import (
	"fmt"

	"github.com/beka-birhanu/vinom-nav/maze"
)

// Tag is the lifecycle marker of a State.
type Tag int

const (
	TagNew Tag = iota
	TagOpen
	TagClosed
)

func (t Tag) String() string {
	switch t {
	case TagNew:
		return "NEW"
	case TagOpen:
		return "OPEN"
	case TagClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// State is the planner's view of one grid cell.
type State struct {
	point       maze.Point
	index       int // position in Planner.states
	backpointer int // index of the next hop towards the goal, -1 for none
	tag         Tag
	h           float64 // path cost
	p           float64 // previous cost
	k           float64 // key value, min(h, p)
	heapIndex   int     // position in the open list, -1 when absent
}

func newState(p maze.Point, index int) *State {
	s := &State{point: p, index: index}
	s.reset()
	return s
}

func (s *State) reset() {
	s.backpointer = -1
	s.tag = TagNew
	s.h = largeCost
	s.p = largeCost
	s.k = largeCost
	s.heapIndex = -1
}

// Point returns the cell the state stands for.
func (s *State) Point() maze.Point { return s.point }

func (s *State) Tag() Tag { return s.tag }

// PathCost is the current cost-to-goal estimate.
func (s *State) PathCost() float64 { return s.h }

// PreviousCost is the cost the state carried when it was last put on the open list.
func (s *State) PreviousCost() float64 { return s.p }

// KeyValue is the open list priority.
func (s *State) KeyValue() float64 { return s.k }

// HasBackpointer reports whether a next hop is known.
func (s *State) HasBackpointer() bool { return s.backpointer >= 0 }
