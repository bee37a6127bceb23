package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/google/uuid"
)

// Leaderboard keeps the best finishing tick of every agent per board.
type Leaderboard interface {
	// Record stores ticks for the agent when it beats its previous best and
	// reports whether it did.
	Record(ctx context.Context, board string, agentID uuid.UUID, ticks int) (bool, error)

	// Top returns the best limit entries of a board, fastest first.
	Top(ctx context.Context, board string, limit int64) ([]dmn.LeaderboardEntry, error)
}
