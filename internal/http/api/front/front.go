package front

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/config"
	"github.com/learnloophq/learnloop-backend/internal/http/api/front/handlers"
	"github.com/learnloophq/learnloop-backend/internal/leaderboard"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"github.com/learnloophq/learnloop-backend/internal/points"
	"github.com/learnloophq/learnloop-backend/internal/rewards"
	"github.com/learnloophq/learnloop-backend/internal/security"
	"gorm.io/gorm"
)

// Deps carries the services the front routes depend on.
type Deps struct {
	DB           *gorm.DB
	JWT          config.JWTConfig
	Points       *points.Service
	Rewards      *rewards.Processor
	Leaderboards *leaderboard.Cache
}

// RegisterFrontRoutes registers public and authenticated front-end routes.
func RegisterFrontRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.DB == nil {
		return
	}

	front := r.Group("/v0/front")

	authHandler := handlers.NewAuthHandler(deps.DB, deps.JWT)
	front.POST("/register", authHandler.Register)
	front.POST("/login", authHandler.Login)
	front.POST("/reset-password", authHandler.ResetPassword)

	authed := front.Group("")
	authed.Use(userAuthMiddleware(deps.DB, deps.JWT))

	profileHandler := handlers.NewProfileHandler(deps.DB)
	authed.GET("/profile", profileHandler.Get)
	authed.PUT("/profile", profileHandler.Update)
	authed.PUT("/profile/password", profileHandler.ChangePassword)

	mfaHandler := handlers.NewMFAHandler(deps.DB)
	authed.GET("/mfa/status", mfaHandler.Status)
	authed.POST("/mfa/totp/prepare", mfaHandler.PrepareTOTP)
	authed.POST("/mfa/totp/confirm", mfaHandler.ConfirmTOTP)
	authed.POST("/mfa/totp/disable", mfaHandler.DisableTOTP)

	pointsHandler := handlers.NewPointsHandler(deps.DB, deps.Points)
	authed.GET("/points/balance", pointsHandler.Balance)
	authed.GET("/points/transactions", pointsHandler.Transactions)
	authed.POST("/points/award", pointsHandler.Award)

	leaderboardHandler := handlers.NewLeaderboardHandler(deps.DB, deps.Leaderboards)
	authed.GET("/leaderboards/:type", leaderboardHandler.Get)

	rewardsHandler := handlers.NewRewardsHandler(deps.DB, deps.Rewards)
	authed.GET("/rewards", rewardsHandler.List)
	authed.POST("/rewards/redeem", rewardsHandler.Redeem)
	authed.GET("/redemptions", rewardsHandler.Redemptions)
}

// userAuthMiddleware validates user JWTs and loads the user into context.
func userAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
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

		claims, errJWT := security.ParseToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var user models.User
		if errFind := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if user.Disabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user disabled"})
			return
		}

		c.Set("userID", user.ID)
		c.Next()
	}
}
