package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/config"
	"github.com/learnloophq/learnloop-backend/internal/http/api/admin/handlers"
	"github.com/learnloophq/learnloop-backend/internal/leaderboard"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"github.com/learnloophq/learnloop-backend/internal/points"
	"github.com/learnloophq/learnloop-backend/internal/security"
	"gorm.io/gorm"
)

// Deps carries the services the admin routes depend on.
type Deps struct {
	DB           *gorm.DB
	JWT          config.JWTConfig
	Points       *points.Service
	Leaderboards *leaderboard.Computer
}

// RegisterAdminRoutes registers admin authentication and management routes.
func RegisterAdminRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.DB == nil {
		return
	}

	adminGroup := r.Group("/v0/admin")

	authHandler := handlers.NewAuthHandler(deps.DB, deps.JWT)
	adminGroup.POST("/login", authHandler.Login)

	authed := adminGroup.Group("")
	authed.Use(adminAuthMiddleware(deps.DB, deps.JWT))

	leaderboardHandler := handlers.NewLeaderboardHandler(deps.Leaderboards)
	authed.POST("/leaderboards/compute", leaderboardHandler.Compute)

	rewardHandler := handlers.NewRewardHandler(deps.DB)
	authed.GET("/rewards", rewardHandler.List)
	authed.POST("/rewards", rewardHandler.Create)
	authed.PUT("/rewards/:id", rewardHandler.Update)
	authed.DELETE("/rewards/:id", rewardHandler.Delete)

	pointsHandler := handlers.NewPointsHandler(deps.Points)
	authed.POST("/points/award", pointsHandler.Award)

	redemptionHandler := handlers.NewRedemptionHandler(deps.DB)
	authed.GET("/redemptions", redemptionHandler.List)

	userHandler := handlers.NewUserHandler(deps.DB)
	authed.GET("/users", userHandler.List)
	authed.PUT("/users/:id/disabled", userHandler.SetDisabled)

	careerHandler := handlers.NewCareerSeedHandler(deps.DB)
	careers := r.Group("/api/careers")
	careers.Use(adminAuthMiddleware(deps.DB, deps.JWT))
	careers.POST("/seed", careerHandler.Seed)
	careers.GET("/seed", careerHandler.Status)
}

// adminAuthMiddleware validates admin JWTs and loads the admin into context.
func adminAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseAdminToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var admin models.Admin
		if errFind := db.WithContext(c.Request.Context()).First(&admin, claims.AdminID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
			return
		}
		if !admin.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin account is disabled"})
			return
		}

		c.Set("adminID", admin.ID)
		c.Next()
	}
}
