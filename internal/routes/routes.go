package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/marketzone/marketzone-backend/internal/config"
	"github.com/marketzone/marketzone-backend/internal/handler"
	"github.com/marketzone/marketzone-backend/internal/middleware"
	"github.com/marketzone/marketzone-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	chatHandler *handler.ChatHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
	cfg *config.Config,
) {
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware(cfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1", middleware.JWTAuth(jwtManager))

	api.GET("/chats/:ad_id", chatHandler.GetChat)
	api.GET("/inbox", chatHandler.GetInbox)
	api.POST("/chats/images", chatHandler.UploadChatImage)

	// Live delivery channel
	router.GET("/ws/chat", middleware.JWTAuth(jwtManager), wsHandler.Connect)
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.CORS.AllowedOrigins == "" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		origins := strings.Split(cfg.CORS.AllowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		corsConfig.AllowOrigins = origins
	}

	return cors.New(corsConfig)
}
