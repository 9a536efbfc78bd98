package handler

import (
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/middleware"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/usecase"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth        *usecase.AuthService
	Progress    *usecase.ProgressService
	Leaderboard *usecase.LeaderboardService
	Catalog     *catalog.Catalog
	Checks      map[string]Check
	Log         *utils.Logger
}

// RegisterRoutes mounts the /api tree on router.
func RegisterRoutes(router *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	catalogHandler := NewCatalogHandler(svc.Catalog)
	progressHandler := NewProgressHandler(svc.Progress)
	profileHandler := NewProfileHandler(svc.Auth, svc.Leaderboard)
	leaderboardHandler := NewLeaderboardHandler(svc.Leaderboard)
	healthHandler := NewHealthHandler(svc.Checks, svc.Log)

	api := router.Group("/api")
	api.GET("/health", healthHandler.GetHealth)

	// Public routes
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/guest", authHandler.Guest)
		authRoutes.POST("/refresh", authHandler.Refresh)
		authRoutes.GET("/session", authHandler.Session)
	}

	catalogRoutes := api.Group("/catalog", middleware.CacheControlMiddleware(5*time.Minute))
	{
		catalogRoutes.GET("", catalogHandler.GetCatalog)
		catalogRoutes.GET("/days/:dayId", catalogHandler.GetDay)
	}

	api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(svc.Auth))
	{
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)

		protected.GET("/progress", progressHandler.GetProgress)
		protected.GET("/progress/days/:dayId", progressHandler.GetDay)
		protected.POST("/progress/days/:dayId/tasks/:taskId/complete", progressHandler.CompleteTask)
	}
}
