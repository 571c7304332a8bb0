package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/septiandi71/IdeaFund-sub000/internal/config"
	"github.com/septiandi71/IdeaFund-sub000/internal/handler"
	"github.com/septiandi71/IdeaFund-sub000/internal/ledger"
	"github.com/septiandi71/IdeaFund-sub000/internal/logic"
	"github.com/septiandi71/IdeaFund-sub000/internal/middleware"
	"github.com/septiandi71/IdeaFund-sub000/internal/retry"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, chain ledger.Ledger, rdb *redis.Client, poller retry.Poller, cfg *config.Config) *gin.Engine {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "ideafund-service",
		})
	})

	r.Static("/uploads", cfg.Upload.Dir)

	auth := middleware.AuthRequired(cfg.Auth.JWTSecret)

	v1 := r.Group("/api/v1")
	{
		projectHandler := handler.NewProjectHandler(db, cfg.Upload.Dir)
		settlementHandler := handler.NewSettlementHandler(db, chain, poller, cfg.Ledger.CampaignAddress)
		registrationHandler := handler.NewRegistrationHandler(logic.NewRedisAttemptStore(rdb))

		projects := v1.Group("/projects")
		{
			projects.GET("", projectHandler.GetProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.GET("/:id/donations", projectHandler.GetProjectDonations)
			projects.GET("/:id/stats", projectHandler.GetProjectStats)

			projects.POST("", auth, projectHandler.CreateProject)
			projects.PATCH("/:id/status", auth, middleware.RequireAdmin(), projectHandler.UpdateStatus)
			projects.POST("/:id/publish", auth, settlementHandler.Publish)
			projects.POST("/:id/confirm", auth, settlementHandler.Confirm)
			projects.POST("/:id/allowance", auth, settlementHandler.Allowance)
		}

		v1.POST("/donations", auth, settlementHandler.RecordDonation)
		v1.POST("/claims", auth, settlementHandler.RecordClaim)

		registrations := v1.Group("/registrations")
		{
			registrations.POST("", registrationHandler.Begin)
			registrations.POST("/:id/verify", registrationHandler.Verify)
			registrations.POST("/:id/finalize", registrationHandler.Finalize)
		}
	}

	return r
}

// CORS middleware
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
