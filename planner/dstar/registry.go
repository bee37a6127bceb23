package dstar

import (
	"errors"
	"fmt"
	"sync"

	"github.com/beka-birhanu/vinom-nav/distance"
	"github.com/beka-birhanu/vinom-nav/maze"
)

var (
	ErrEmptyChannel    = errors.New("channel name is required")
	ErrChannelMismatch = errors.New("channel already exists for a different maze or metric")
)

type channel struct {
	planner *Planner
	refs    int
}

// Registry hands out planners shared by name. The first agent attaching to a
// channel creates its planner; later ones get the same instance.
type Registry struct {
	channels map[string]*channel
	sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]*channel)}
}

// Attach returns the planner of the named channel, creating it on first use.
func (r *Registry) Attach(name string, width, height int, exit maze.Point, metric distance.Calculator) (*Planner, error) {
	if name == "" {
		return nil, ErrEmptyChannel
	}
	if metric == nil {
		return nil, ErrNilCalculator
	}

	r.Lock()
	defer r.Unlock()

	if ch, ok := r.channels[name]; ok {
		pl := ch.planner
		if pl.Width() != width || pl.Height() != height || pl.Exit() != exit || pl.Metric().Name() != metric.Name() {
			return nil, fmt.Errorf("%w: %q", ErrChannelMismatch, name)
		}
		ch.refs++
		return pl, nil
	}

	pl, err := New(width, height, exit, metric)
	if err != nil {
		return nil, err
	}
	r.channels[name] = &channel{planner: pl, refs: 1}
	return pl, nil
}

// Detach drops one reference to the named channel and forgets the channel
// once nobody holds it.
func (r *Registry) Detach(name string) {
	r.Lock()
	defer r.Unlock()

	ch, ok := r.channels[name]
	if !ok {
		return
	}
	ch.refs--
	if ch.refs <= 0 {
		delete(r.channels, name)
	}
}

// Channels returns the number of live channels.
func (r *Registry) Channels() int {
	r.Lock()
	defer r.Unlock()
	return len(r.channels)
}
