package raceapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/service"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	leaderboardTimeout      = time.Second
)

var ErrNilRaceManager = errors.New("race manager is required")

// RaceController runs races on request and streams them to watchers.
type RaceController struct {
	manager     i.RaceManager
	leaderboard i.Leaderboard
	logger      i.Logger
	upgrader    *websocket.Upgrader
}

// NewRaceController initializes a RaceController. The leaderboard is optional.
func NewRaceController(rm i.RaceManager, lb i.Leaderboard, logger i.Logger) (*RaceController, error) {
	if rm == nil {
		return nil, ErrNilRaceManager
	}
	if logger == nil {
		return nil, service.ErrNilLogger
	}
	return &RaceController{
		manager:     rm,
		leaderboard: lb,
		logger:      logger,
		upgrader:    &websocket.Upgrader{},
	}, nil
}

// RegisterPublic registers public routes.
func (rc *RaceController) RegisterPublic(route *gin.RouterGroup) {
	races := route.Group("/races")
	{
		races.POST("", rc.race)
		races.GET("/watch", rc.watch)
		races.GET("/:ID", rc.result)
	}
	route.GET("/leaderboard/:board", rc.top)
}

// RegisterProtected registers protected routes.
func (rc *RaceController) RegisterProtected(route *gin.RouterGroup) {}

// race runs the requested race and answers with its result.
func (rc *RaceController) race(ctx *gin.Context) {
	var request dmn.RaceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := rc.manager.Race(ctx.Request.Context(), request, nil)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// result retrieves a finished race.
func (rc *RaceController) result(ctx *gin.Context) {
	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid race id"})
		return
	}

	result, err := rc.manager.Result(ID)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// top lists the fastest finishes of a board.
func (rc *RaceController) top(ctx *gin.Context) {
	if rc.leaderboard == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard disabled"})
		return
	}

	limit := int64(defaultLeaderboardLimit)
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > maxLeaderboardLimit {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be between 1 and %d", maxLeaderboardLimit)})
			return
		}
		limit = n
	}

	board := ctx.Params.ByName("board")
	timeoutCtx, cancel := context.WithTimeout(ctx.Request.Context(), leaderboardTimeout)
	defer cancel()
	entries, err := rc.leaderboard.Top(timeoutCtx, board, limit)
	if err != nil {
		rc.logger.Error(fmt.Sprintf("reading leaderboard %s: %v", board, err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading leaderboard"})
		return
	}
	ctx.JSON(http.StatusOK, LeaderboardResponse{Board: board, Entries: entries})
}

// watch upgrades to a websocket, reads one race request, then streams a tick
// frame per snapshot followed by a result or error frame.
func (rc *RaceController) watch(ctx *gin.Context) {
	conn, err := rc.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		rc.logger.Warning(fmt.Sprintf("watch upgrade: %v", err))
		return
	}
	defer conn.Close()

	var request dmn.RaceRequest
	if err := conn.ReadJSON(&request); err != nil {
		_ = conn.WriteJSON(WatchMessage{Type: MessageError, Error: "malformed race request"})
		return
	}

	raceCtx, cancel := context.WithCancel(ctx.Request.Context())
	defer cancel()

	type outcome struct {
		result *dmn.RaceResult
		err    error
	}
	ticks := make(chan game.Snapshot)
	done := make(chan outcome, 1)
	go func() {
		result, err := rc.manager.Race(raceCtx, request, ticks)
		done <- outcome{result: result, err: err}
	}()

	for {
		select {
		case s := <-ticks:
			if err := conn.WriteJSON(WatchMessage{Type: MessageTick, Snapshot: &s}); err != nil {
				rc.logger.Warning(fmt.Sprintf("watcher left: %v", err))
				cancel()
				<-done
				return
			}
		case o := <-done:
			if o.err != nil {
				_ = conn.WriteJSON(WatchMessage{Type: MessageError, Error: o.err.Error()})
				return
			}
			_ = conn.WriteJSON(WatchMessage{Type: MessageResult, Result: o.result})
			return
		}
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrNoRepo):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRaceNotFound), errors.Is(err, dmn.ErrAgentConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
