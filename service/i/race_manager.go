package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/google/uuid"
)

// RaceManager runs races and keeps their results.
type RaceManager interface {
	// Race runs the requested race to completion. Per-tick snapshots are
	// sent on ticks when it is not nil.
	Race(ctx context.Context, req dmn.RaceRequest, ticks chan<- game.Snapshot) (*dmn.RaceResult, error)

	// Result returns a finished race.
	Result(id uuid.UUID) (*dmn.RaceResult, error)
}
