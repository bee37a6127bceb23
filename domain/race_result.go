package domain

import (
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/google/uuid"
)

// AgentResult is how one agent did in a race.
type AgentResult struct {
	AgentID    uuid.UUID  `json:"agentId"`
	Name       string     `json:"name"`
	Algorithm  string     `json:"algorithm"`
	Start      maze.Point `json:"start"`
	Position   maze.Point `json:"position"`
	Finished   bool       `json:"finished"`
	FinishTick int        `json:"finishTick,omitempty"`
	Moves      int        `json:"moves"`
	Stalls     int        `json:"stalls"`
}

// RaceResult is the outcome of a finished race.
type RaceResult struct {
	ID         uuid.UUID     `json:"id"`
	Board      string        `json:"board"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Exit       maze.Point    `json:"exit"`
	Layout     string        `json:"layout"`
	Ticks      int           `json:"ticks"`
	Agents     []AgentResult `json:"agents"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
}

// BoardName is the leaderboard a race on a width x height maze counts for.
func BoardName(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}

// Finishers returns the agents that reached the exit, in agent order.
func (r *RaceResult) Finishers() []AgentResult {
	finishers := make([]AgentResult, 0, len(r.Agents))
	for _, a := range r.Agents {
		if a.Finished {
			finishers = append(finishers, a)
		}
	}
	return finishers
}
