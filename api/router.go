package api

import (
	"github.com/beka-birhanu/vinom-nav/api/i"
	"github.com/gin-gonic/gin"
)

// Router serves the controllers under one base URL.
type Router struct {
	addr                    string
	baseURL                 string
	controllers             []i.Controller
	authorizationMiddleware gin.HandlerFunc
}

// Config holds configuration settings for creating a new Router instance.
type Config struct {
	Addr                    string // Address to listen on
	BaseURL                 string // Base URL for API routes
	Controllers             []i.Controller
	AuthorizationMiddleware gin.HandlerFunc // Guards every protected route
}

// NewRouter creates a new Router instance with the given configuration.
func NewRouter(config Config) *Router {
	return &Router{
		addr:                    config.Addr,
		baseURL:                 config.BaseURL,
		controllers:             config.Controllers,
		authorizationMiddleware: config.AuthorizationMiddleware,
	}
}

// Handler builds the engine with every controller's routes under
// <baseURL>/v1. Protected routes run behind the authorization middleware.
func (r *Router) Handler() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	api := router.Group(r.baseURL)
	{
		publicRoutes := api.Group("/v1")
		for _, c := range r.controllers {
			c.RegisterPublic(publicRoutes)
		}

		protectedRoutes := api.Group("/v1")
		if r.authorizationMiddleware != nil {
			protectedRoutes.Use(r.authorizationMiddleware)
		}
		for _, c := range r.controllers {
			c.RegisterProtected(protectedRoutes)
		}
	}
	return router
}

// Run starts the HTTP server. It blocks until the server stops.
func (r *Router) Run() error {
	gin.ForceConsoleColor()
	return r.Handler().Run(r.addr)
}
