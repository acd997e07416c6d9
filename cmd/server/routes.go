package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/middleware"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/user"
)

func (a *AppContext) setupRoutes() {
	r := a.Router

	// ── Global Middleware (outermost → innermost) ──
	r.Use(middleware.Logger())                 // 1. Request logging
	r.Use(middleware.Recovery())               // 2. Panic recovery
	r.Use(middleware.RateLimit(a.RateLimiter)) // 3. Per-IP rate limiting
	r.Use(middleware.Auth(a.JWTService))       // 4. JWT auth (skips /api/auth/login)

	// ── Health & metrics (no auth, no rate limit) ──
	r.GET("/health", a.healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.POST("/auth/login", a.AuthHandler.Login)

	// ── Realtime feeds ──
	wsGroup := api.Group("/ws")
	{
		dispatcherWS := wsGroup.Group("")
		dispatcherWS.Use(middleware.RoleGuard(string(user.RoleDispatcher)))
		dispatcherWS.GET("/dispatcher", a.WSHandler.Dispatcher)

		workerWS := wsGroup.Group("")
		workerWS.Use(middleware.RoleGuard(string(user.RoleWorker)))
		workerWS.GET("/worker", a.WSHandler.Worker)
	}

	// ── Dispatcher routes ──
	dispatcherGroup := api.Group("")
	dispatcherGroup.Use(middleware.RoleGuard(string(user.RoleDispatcher)))
	{
		dispatcherGroup.GET("/patients", a.PatientHandler.List)
		dispatcherGroup.GET("/patients/:id", a.PatientHandler.GetByID)

		dispatcherGroup.GET("/teams", a.TeamHandler.List)
		dispatcherGroup.GET("/teams/full_info", a.TeamHandler.FullInfoList)
		dispatcherGroup.GET("/teams/free", a.TeamHandler.ListFree)

		dispatcherGroup.GET("/calls", a.CallHandler.List)
		dispatcherGroup.GET("/calls/new", a.CallHandler.ListNew)
		dispatcherGroup.GET("/calls/actual", a.CallHandler.ListActual)
		dispatcherGroup.GET("/calls/:id", a.CallHandler.GetByID)

		mutations := dispatcherGroup.Group("")
		mutations.Use(middleware.Bulkhead(a.Config.Bulkhead.MutationPool))
		mutations.Use(middleware.Idempotency(a.IdempotencyStore))
		{
			mutations.POST("/patients", a.PatientHandler.Create)
			mutations.DELETE("/patients/:id", a.PatientHandler.Delete)

			mutations.POST("/teams", a.TeamHandler.Create)
			mutations.DELETE("/teams/:id", a.TeamHandler.Delete)
			mutations.PATCH("/teams/move", a.TeamHandler.Move)

			mutations.POST("/calls", a.DispatchHandler.Create)
			mutations.PATCH("/calls/:id/accept", a.DispatchHandler.Accept)
			mutations.PATCH("/calls/:id/reject", a.DispatchHandler.Reject)
		}
	}

	// ── Worker routes ──
	workerGroup := api.Group("")
	workerGroup.Use(middleware.RoleGuard(string(user.RoleWorker)))
	{
		workerGroup.GET("/calls/by_teamId/:id", a.CallHandler.GetByTeam)
		workerGroup.GET("/calls/:id/route", a.DispatchHandler.GetRoute)

		mutations := workerGroup.Group("")
		mutations.Use(middleware.Bulkhead(a.Config.Bulkhead.MutationPool))
		mutations.Use(middleware.Idempotency(a.IdempotencyStore))
		{
			mutations.PATCH("/calls/:id/complete", a.DispatchHandler.Complete)
			mutations.PATCH("/calls/:id/trouble", a.DispatchHandler.ReportTrouble)
			mutations.POST("/calls/start_move", a.DispatchHandler.StartMove)
		}
	}

	// ── Shared reads (any authenticated role) ──
	sharedGroup := api.Group("")
	sharedGroup.Use(middleware.RoleGuard(
		string(user.RoleDispatcher), string(user.RoleWorker), string(user.RoleAdmin)))
	{
		sharedGroup.GET("/calls/full_info/:id", a.CallHandler.GetFullInfo)
		sharedGroup.GET("/teams/by_userId/:userId", a.TeamHandler.GetByWorkerID)
		sharedGroup.GET("/notifications/:userId", a.NotificationHandler.ListByUser)
		sharedGroup.DELETE("/notifications/:id", a.NotificationHandler.Delete)
	}

	// ── Admin routes ──
	adminGroup := api.Group("")
	adminGroup.Use(middleware.RoleGuard(string(user.RoleAdmin)))
	{
		adminGroup.GET("/users", a.UserHandler.List)
		adminGroup.GET("/users/free_workers", a.UserHandler.FreeWorkers)
		adminGroup.GET("/users/role/:role", a.UserHandler.ListByRole)
		adminGroup.GET("/users/:id", a.UserHandler.GetByID)

		adminGroup.GET("/cars", a.CarHandler.List)
		adminGroup.GET("/cars/free", a.CarHandler.ListFree)

		mutations := adminGroup.Group("")
		mutations.Use(middleware.Bulkhead(a.Config.Bulkhead.MutationPool))
		mutations.Use(middleware.Idempotency(a.IdempotencyStore))
		{
			mutations.POST("/users", a.UserHandler.Create)
			mutations.PATCH("/users/:id", a.UserHandler.Update)
			mutations.DELETE("/users/:id", a.UserHandler.Delete)

			mutations.POST("/cars", a.CarHandler.Create)
			mutations.PATCH("/cars/:id", a.CarHandler.Update)
			mutations.DELETE("/cars/:id", a.CarHandler.Delete)
		}

		reports := adminGroup.Group("/reports")
		reports.Use(middleware.Bulkhead(a.Config.Bulkhead.ReportPool))
		{
			reports.GET("/teams_load", a.ReportHandler.TeamsLoad)
			reports.GET("/calls_statistics", a.ReportHandler.CallsStatistics)
			reports.GET("/calls", a.ReportHandler.CallsReport)
		}
	}
}
