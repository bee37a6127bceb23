package domain

import (
	"errors"

	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/google/uuid"
)

// Race request errors.
var (
	ErrNoEntries         = errors.New("race needs at least one agent")
	ErrEntryWithoutAgent = errors.New("entry needs a config id or an inline config")
	ErrNegativeTicks     = errors.New("tick budget must not be negative")
)

// RaceEntry puts one agent on a start cell. Either ConfigID names a stored
// configuration or Config carries one inline.
type RaceEntry struct {
	ConfigID uuid.UUID    `json:"configId"`
	Config   *AgentConfig `json:"config,omitempty"`
	Start    maze.Point   `json:"start"`
}

// RaceRequest describes a race to run. Layout, when set, wins over the
// generator parameters.
type RaceRequest struct {
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	Seed     *int64      `json:"seed,omitempty"`
	Layout   string      `json:"layout,omitempty"`
	MaxTicks int         `json:"maxTicks"`
	Agents   []RaceEntry `json:"agents"`
}

// Validate checks the parts of the request that do not need the maze.
func (r *RaceRequest) Validate() error {
	if len(r.Agents) == 0 {
		return ErrNoEntries
	}
	if r.MaxTicks < 0 {
		return ErrNegativeTicks
	}
	for _, e := range r.Agents {
		if e.Config == nil && e.ConfigID == uuid.Nil {
			return ErrEntryWithoutAgent
		}
	}
	return nil
}

// LeaderboardEntry is one agent's best finish on a board.
type LeaderboardEntry struct {
	AgentID uuid.UUID `json:"agentId"`
	Ticks   int       `json:"ticks"`
	Rank    int       `json:"rank"`
}
