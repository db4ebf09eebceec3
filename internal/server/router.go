package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sporthub-backend/internal/handlers"
	"github.com/yungbote/sporthub-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware      *middleware.AuthMiddleware
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	VenueHandler        *handlers.VenueHandler
	ActivityHandler     *handlers.ActivityHandler
	RegistrationHandler *handlers.RegistrationHandler
	CommentHandler      *handlers.CommentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	// Public
	api.POST("/register", cfg.AuthHandler.Register)
	api.POST("/login", cfg.AuthHandler.Login)
	api.GET("/activities", cfg.ActivityHandler.List)
	api.GET("/activities/:id", cfg.ActivityHandler.Get)
	api.GET("/activities/:id/comments", cfg.CommentHandler.ListByActivity)
	api.GET("/venues", cfg.VenueHandler.List)
	api.GET("/venues/:id", cfg.VenueHandler.Get)

	// Authenticated
	authed := api.Group("/")
	authed.Use(cfg.AuthMiddleware.RequireAuth())
	authed.POST("/refresh", cfg.AuthHandler.Refresh)
	authed.POST("/logout", cfg.AuthHandler.Logout)
	authed.GET("/me", cfg.UserHandler.GetMe)
	authed.PUT("/update-avatar", cfg.UserHandler.UpdateAvatar)

	authed.POST("/registrations", cfg.RegistrationHandler.Register)
	authed.DELETE("/activities/:id/registration", cfg.RegistrationHandler.Cancel)
	authed.GET("/registrations/stats", cfg.RegistrationHandler.Stats)

	authed.POST("/comments", cfg.CommentHandler.Create)
	authed.PUT("/comments/:id", cfg.CommentHandler.Update)
	authed.DELETE("/comments/:id", cfg.CommentHandler.Delete)
	authed.POST("/comments/:id/report", cfg.CommentHandler.Report)

	// Admin
	admin := authed.Group("/")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	admin.POST("/venues", cfg.VenueHandler.Create)
	admin.POST("/venues/batch", cfg.VenueHandler.BatchCreate)
	admin.PUT("/venues/:id", cfg.VenueHandler.Update)
	admin.PUT("/venues/:id/active", cfg.VenueHandler.SetActive)
	admin.POST("/activities", cfg.ActivityHandler.Create)
	admin.PUT("/activities/:id", cfg.ActivityHandler.Update)
	admin.PUT("/activities/:id/status", cfg.ActivityHandler.UpdateStatus)
	admin.POST("/activities/sweep", cfg.ActivityHandler.Sweep)
	admin.POST("/activities/:id/check-in", cfg.RegistrationHandler.BatchCheckIn)
	admin.POST("/activities/:id/mark-absent", cfg.RegistrationHandler.MarkAbsent)
	admin.PUT("/registrations/:id/status", cfg.RegistrationHandler.UpdateStatus)
	admin.GET("/comment-reports", cfg.CommentHandler.ListReports)

	return router
}
