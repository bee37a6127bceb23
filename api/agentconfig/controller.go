package agentconfigapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/vinom-nav/api/identity"
	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

var ErrNilRepo = errors.New("agent config repository is required")

// AgentConfigController exposes stored agent configurations. Reads are
// public; changes need an operator token.
type AgentConfigController struct {
	repo   i.AgentConfigRepo
	logger i.Logger
}

// NewAgentConfigController initializes an AgentConfigController.
func NewAgentConfigController(repo i.AgentConfigRepo, logger i.Logger) (*AgentConfigController, error) {
	if repo == nil {
		return nil, ErrNilRepo
	}
	return &AgentConfigController{repo: repo, logger: logger}, nil
}

// RegisterPublic registers public routes.
func (ac *AgentConfigController) RegisterPublic(route *gin.RouterGroup) {
	agents := route.Group("/agents")
	{
		agents.GET("", ac.list)
		agents.GET("/:ID", ac.byID)
	}
}

// RegisterProtected registers protected routes.
func (ac *AgentConfigController) RegisterProtected(route *gin.RouterGroup) {
	agents := route.Group("/agents")
	{
		agents.POST("", ac.create)
		agents.DELETE("/:ID", ac.delete)
	}
}

func (ac *AgentConfigController) list(ctx *gin.Context) {
	limit := int64(defaultListLimit)
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > maxListLimit {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be between 1 and %d", maxListLimit)})
			return
		}
		limit = n
	}

	configs, err := ac.repo.List(limit)
	if err != nil {
		ac.logError(fmt.Sprintf("listing agent configs: %v", err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while listing agents"})
		return
	}
	ctx.JSON(http.StatusOK, configs)
}

func (ac *AgentConfigController) byID(ctx *gin.Context) {
	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent id"})
		return
	}

	cfg, err := ac.repo.ByID(ID)
	if err != nil {
		ac.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

func (ac *AgentConfigController) create(ctx *gin.Context) {
	var request CreateAgentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := dmn.NewAgentConfig(dmn.AgentConfigParams{
		Name:      request.Name,
		Algorithm: request.Algorithm,
		Metric:    request.Metric,
		Channel:   request.Channel,
		Seed:      request.Seed,
	})
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.repo.Save(cfg); err != nil {
		ac.respondError(ctx, err)
		return
	}
	if ac.logger != nil {
		ac.logger.Info(fmt.Sprintf("agent %s (%s) created by %v", cfg.Name, cfg.Algorithm, subject(ctx)))
	}
	ctx.JSON(http.StatusCreated, cfg)
}

func (ac *AgentConfigController) delete(ctx *gin.Context) {
	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent id"})
		return
	}

	if err := ac.repo.Delete(ID); err != nil {
		ac.respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (ac *AgentConfigController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, dmn.ErrAgentConfigNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, dmn.ErrAgentNameConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		ac.logError(err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
	}
}

func (ac *AgentConfigController) logError(msg string) {
	if ac.logger != nil {
		ac.logger.Error(msg)
	}
}

// subject names the token holder of a protected request.
func subject(ctx *gin.Context) interface{} {
	claims, ok := ctx.Get(identity.ContextUserClaims)
	if !ok {
		return "unknown"
	}
	m, ok := claims.(map[string]interface{})
	if !ok {
		return "unknown"
	}
	if sub, ok := m["sub"]; ok {
		return sub
	}
	return m["role"]
}
