// Package raceapi serves races, their results and the leaderboards over HTTP.
package raceapi

import (
	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/game"
)

// Watch message types.
const (
	MessageTick   = "tick"
	MessageResult = "result"
	MessageError  = "error"
)

// WatchMessage is one frame sent to a race watcher.
type WatchMessage struct {
	Type     string          `json:"type"`
	Snapshot *game.Snapshot  `json:"snapshot,omitempty"`
	Result   *dmn.RaceResult `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// LeaderboardResponse lists the best finishes on one board.
type LeaderboardResponse struct {
	Board   string                 `json:"board"`
	Entries []dmn.LeaderboardEntry `json:"entries"`
}
