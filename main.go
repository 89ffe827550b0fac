package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/forest-guardian/forest-guardian-api/api"
	api_i "github.com/forest-guardian/forest-guardian-api/api/i"
	"github.com/forest-guardian/forest-guardian-api/api/identity"
	missionapi "github.com/forest-guardian/forest-guardian-api/api/mission"
	"github.com/forest-guardian/forest-guardian-api/config"
	"github.com/forest-guardian/forest-guardian-api/infrastruture/repo"
	"github.com/forest-guardian/forest-guardian-api/infrastruture/sortedstorage"
	"github.com/forest-guardian/forest-guardian-api/infrastruture/token"
	"github.com/forest-guardian/forest-guardian-api/service"
	"github.com/forest-guardian/forest-guardian-api/service/i"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const leaderboardTTLSeconds = 7 * 24 * 60 * 60

// Global variables for dependencies
var (
	mongoClient       *mongo.Client
	redisClient       *goredis.Client
	userRepo          i.UserRepo
	missionRepo       i.MissionRepo
	leaderboard       i.Leaderboard
	missionService    i.MissionRunner
	missionController api_i.Controller
	jwtTokenizer      i.Tokenizer
	authService       i.Authenticator
	authController    api_i.Controller
	router            *api.Router
	appLogger         *log.Logger
)

func newLogger(tag, color string) *log.Logger {
	prefix := fmt.Sprintf("%s[%s]%s ", color, tag, config.ColorReset)
	return log.New(os.Stdout, prefix, log.LstdFlags)
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Printf("Failed to connect to MongoDB: %v", err)
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Printf("MongoDB ping failed: %v", err)
		os.Exit(1)
	}
	appLogger.Println("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = goredis.NewClient(&goredis.Options{
		Addr: fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort),
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Printf("Redis ping failed: %v", err)
		os.Exit(1)
	}
	appLogger.Println("Connected to Redis")
}

func initRepos() {
	userRepo = repo.NewUserRepo(mongoClient, config.Envs.DBName, "users")

	var err error
	missionRepo, err = repo.NewMissionRepo(mongoClient, config.Envs.DBName, "mission_logs")
	if err != nil {
		appLogger.Printf("Creating mission repository: %v", err)
		os.Exit(1)
	}
	appLogger.Println("Repositories initialized")
}

func initLeaderboard() {
	var err error
	leaderboard, err = sortedstorage.NewRedisLeaderboard(redisClient, "missions:leaderboard", leaderboardTTLSeconds)
	if err != nil {
		appLogger.Printf("Creating leaderboard: %v", err)
		os.Exit(1)
	}
	appLogger.Println("Leaderboard initialized")
}

func initMissionService() {
	missionLogger := newLogger("MISSION", config.ColorCyan)

	var err error
	missionService, err = service.NewMissionService(&service.Config{
		Missions:    missionRepo,
		Leaderboard: leaderboard,
		Logger:      missionLogger,
	})
	if err != nil {
		appLogger.Printf("Creating mission service: %v", err)
		os.Exit(1)
	}

	missionController, err = missionapi.NewMissionController(missionService, missionRepo, leaderboard)
	if err != nil {
		appLogger.Printf("Creating mission controller: %v", err)
		os.Exit(1)
	}
	appLogger.Println("Mission service initialized")
}

func initAuth() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	authService = service.NewAuth(userRepo, jwtTokenizer)
	authController = identity.NewIdentityServer(authService)
	appLogger.Println("Auth service initialized")
}

func initRouter() {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%d", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, missionController},
		AuthorizationMiddleware: identity.Authoriz(jwtTokenizer),
	})
	appLogger.Println("Router initialized")
}

func main() {
	appLogger = newLogger("APP", config.ColorGreen)
	gin.SetMode(config.Envs.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initRedis(ctx)
	initRepos()
	initLeaderboard()
	initMissionService()
	initAuth()
	initRouter()

	appLogger.Printf("Serving mission API on %s:%d", config.Envs.HostIP, config.Envs.RESTPort)
	if err := router.Run(); err != nil {
		appLogger.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
