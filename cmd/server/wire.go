package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Dmitriy-Gavrilov/Medicine/config"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/auth"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/call"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/car"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/common"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/dispatch"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/jwt"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/movement"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/notification"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/patient"
	pgmigrate "github.com/Dmitriy-Gavrilov/Medicine/internal/repo/postgres"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/redis"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/report"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/team"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/user"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/ws"
)

type AppContext struct {
	DB     *sqlx.DB
	Config *config.Config
	Redis  *goredis.Client
	Router *gin.Engine

	// Infrastructure
	JWTService       *jwt.Service
	CallCache        *redis.CallCache
	TeamListCache    *redis.TeamListCache
	IdempotencyStore *redis.IdempotencyStore
	RateLimiter      *redis.RateLimiter
	RouteClient      *common.RouteClient
	Hub              *ws.Hub
	Simulator        *movement.Simulator

	UserService         user.Service
	PatientService      patient.Service
	CarService          car.Service
	TeamService         team.Service
	NotificationService notification.Service
	CallService         call.Service
	DispatchService     dispatch.Service
	ReportService       report.Service
	AuthService         auth.Service

	AuthHandler         *auth.Handler
	UserHandler         *user.Handler
	PatientHandler      *patient.Handler
	CarHandler          *car.Handler
	TeamHandler         *team.Handler
	NotificationHandler *notification.Handler
	CallHandler         *call.Handler
	DispatchHandler     *dispatch.Handler
	ReportHandler       *report.Handler
	WSHandler           *ws.Handler
}

func wireApp(cfg *config.Config) (*AppContext, error) {
	// ── Postgres ──
	db, err := sqlx.Connect("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if err := pgmigrate.RunMigrationsUp(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	// ── Redis ──
	var rdb *goredis.Client
	if cfg.Redis.URL != "" {
		opts, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("redis parse url: %w", err)
		}
		rdb = goredis.NewClient(opts)
	} else {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	// ── Infrastructure ──
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	callCache := redis.NewCallCache(rdb, cfg.Cache.CallTTLSec)
	teamListCache := redis.NewTeamListCache(rdb, cfg.Cache.TeamListTTLSec)
	idempotencyStore := redis.NewIdempotencyStore(rdb, cfg.Cache.IdempotencyTTLSec)
	rateLimiter := redis.NewRateLimiter(rdb, cfg.RateLimiter.MaxRequests, cfg.RateLimiter.WindowSeconds)
	routeClient := common.NewRouteClient(cfg.Routing.BaseURL)
	hub := ws.NewHub()

	// ── Repositories ──
	userRepo := user.NewRepository()
	patientRepo := patient.NewRepository()
	carRepo := car.NewRepository()
	teamRepo := team.NewRepository()
	notificationRepo := notification.NewRepository()
	callRepo := call.NewRepository()
	reportRepo := report.NewRepository()

	// ── Services ──
	teamService := team.NewService(teamRepo, db, teamListCache)
	userService := user.NewService(userRepo, db, teamService)
	patientService := patient.NewService(patientRepo, db)
	carService := car.NewService(carRepo, db)
	notificationService := notification.NewService(notificationRepo, db)
	callService := call.NewService(callRepo, db, callCache)
	reportService := report.NewService(reportRepo, db)
	authService := auth.NewService(userService, jwtService)

	simulator := movement.NewSimulator(teamService, hub, cfg.Movement.StepInterval)
	dispatchService := dispatch.NewService(
		callRepo, db,
		teamService, carService, userService, notificationService,
		hub, routeClient, simulator,
		callCache, teamListCache,
	)

	// ── Handlers ──
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	patientHandler := patient.NewHandler(patientService)
	carHandler := car.NewHandler(carService)
	teamHandler := team.NewHandler(teamService)
	notificationHandler := notification.NewHandler(notificationService)
	callHandler := call.NewHandler(callService)
	dispatchHandler := dispatch.NewHandler(dispatchService)
	reportHandler := report.NewHandler(reportService)
	wsHandler := ws.NewHandler(hub, teamService)

	return &AppContext{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Router: gin.Default(),

		JWTService:       jwtService,
		CallCache:        callCache,
		TeamListCache:    teamListCache,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		RouteClient:      routeClient,
		Hub:              hub,
		Simulator:        simulator,

		UserService:         userService,
		PatientService:      patientService,
		CarService:          carService,
		TeamService:         teamService,
		NotificationService: notificationService,
		CallService:         callService,
		DispatchService:     dispatchService,
		ReportService:       reportService,
		AuthService:         authService,

		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		PatientHandler:      patientHandler,
		CarHandler:          carHandler,
		TeamHandler:         teamHandler,
		NotificationHandler: notificationHandler,
		CallHandler:         callHandler,
		DispatchHandler:     dispatchHandler,
		ReportHandler:       reportHandler,
		WSHandler:           wsHandler,
	}, nil
}

func (a *AppContext) Close() {
	a.DB.Close()
	a.Redis.Close()
}

func (a *AppContext) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	checks := map[string]string{}
	healthy := true

	if err := a.DB.PingContext(ctx); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := a.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": checks,
	})
}
