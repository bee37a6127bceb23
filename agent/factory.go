package agent

import (
	"math/rand"

	"github.com/beka-birhanu/vinom-nav/distance"
	"github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/beka-birhanu/vinom-nav/planner/astar"
	"github.com/beka-birhanu/vinom-nav/planner/dstar"
)

// New builds the agent described by cfg standing at start. Planner state is
// created fresh; dstar agents with a channel attach to the registry's shared
// planner instead.
func New(cfg *domain.AgentConfig, start maze.Point, env Environment, registry *dstar.Registry) (Agent, error) {
	if env == nil {
		return nil, ErrNilEnvironment
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	metric, err := distance.ByName(cfg.Metric)
	if err != nil {
		return nil, err
	}

	b := base{id: cfg.ID, name: cfg.Name, position: start, env: env}

	switch cfg.Algorithm {
	case domain.AlgorithmAStar:
		planner, err := astar.New(metric)
		if err != nil {
			return nil, err
		}
		return &AStarAgent{base: b, planner: planner}, nil

	case domain.AlgorithmDStar:
		a := &DStarAgent{base: b, channel: cfg.Channel, registry: registry}
		if cfg.Channel == "" {
			a.planner, err = dstar.New(env.Width(), env.Height(), env.Exit(), metric)
			if err != nil {
				return nil, err
			}
			return a, nil
		}
		if registry == nil {
			return nil, ErrNilRegistry
		}
		shared, err := registry.Attach(cfg.Channel, env.Width(), env.Height(), env.Exit(), metric)
		if err != nil {
			return nil, err
		}
		if err := a.SetSharedState(shared); err != nil {
			registry.Detach(cfg.Channel)
			return nil, err
		}
		return a, nil

	case domain.AlgorithmRandom:
		return &RandomAgent{base: b, seed: cfg.Seed, rnd: rand.New(rand.NewSource(cfg.Seed))}, nil

	case domain.AlgorithmWallFollower:
		return &WallFollowerAgent{base: b, heading: maze.Right}, nil

	default:
		return nil, domain.ErrUnknownAlgorithm
	}
}
