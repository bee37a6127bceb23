package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/beka-birhanu/vinom-nav/api"
	agentconfigapi "github.com/beka-birhanu/vinom-nav/api/agentconfig"
	api_i "github.com/beka-birhanu/vinom-nav/api/i"
	"github.com/beka-birhanu/vinom-nav/api/identity"
	raceapi "github.com/beka-birhanu/vinom-nav/api/race"
	"github.com/beka-birhanu/vinom-nav/config"
	logger "github.com/beka-birhanu/vinom-nav/infrastruture/log"
	"github.com/beka-birhanu/vinom-nav/infrastruture/repo"
	"github.com/beka-birhanu/vinom-nav/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-nav/infrastruture/token"
	"github.com/beka-birhanu/vinom-nav/service"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient           *mongo.Client
	redisClient           *redis.Client
	agentConfigRepo       *repo.AgentConfigRepo
	leaderboard           i.Leaderboard
	jwtTokenizer          i.Tokenizer
	raceManager           i.RaceManager
	raceController        api_i.Controller
	agentConfigController api_i.Controller
	router                *api.Router
	appLogger             i.Logger
)

func newLogger(prefix, color string) i.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initAgentConfigRepo(ctx context.Context) {
	agentConfigRepo = repo.NewAgentConfigRepo(mongoClient, config.Envs.DBName, "agents")
	if err := agentConfigRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Creating agent indexes: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Agent config repository initialized")
}

func initLeaderboard() {
	leaderboard = sortedstorage.NewRedisLeaderboard(redisClient, config.Envs.LeaderboardTTLSeconds)
	appLogger.Info("Leaderboard initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initOperatorToken() {
	if config.Envs.OperatorTokenTTLMinutes <= 0 {
		return
	}
	ttl := time.Duration(config.Envs.OperatorTokenTTLMinutes) * time.Minute
	t, err := identity.OperatorToken(jwtTokenizer, ttl)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Minting operator token: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Operator token (valid %s): %s", ttl, t))
}

func initRaceManager() {
	var err error
	raceManager, err = service.NewRaceManager(&service.Config{
		MazeFactory:   service.GenerateMaze,
		Repo:          agentConfigRepo,
		Leaderboard:   leaderboard,
		Logger:        newLogger("RACE-MANAGER", config.ColorCyan),
		MaxTicks:      config.Envs.MaxTicks,
		DefaultWidth:  config.Envs.MazeWidth,
		DefaultHeight: config.Envs.MazeHeight,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating race manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Race manager initialized")
}

func initControllers() {
	var err error
	raceController, err = raceapi.NewRaceController(raceManager, leaderboard, newLogger("RACE-API", config.ColorMagenta))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating race controller: %v", err))
		os.Exit(1)
	}

	agentConfigController, err = agentconfigapi.NewAgentConfigController(agentConfigRepo, newLogger("AGENT-API", config.ColorYellow))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating agent controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Controllers initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{raceController, agentConfigController},
		AuthorizationMiddleware: identity.Authoriz(t, identity.RoleOperator),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var err error
	appLogger, err = logger.New("APP", config.ColorGreen, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating app logger: %v\n", err)
		os.Exit(1)
	}

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initRedis(ctx)
	defer redisClient.Close()

	initAgentConfigRepo(ctx)
	initLeaderboard()
	initJWTTokenizer()
	initOperatorToken()
	initRaceManager()
	initControllers()
	initRouter(jwtTokenizer)

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	}
}
