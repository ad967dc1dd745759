// backend-go/internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stocklens/backend-go/internal/api/handlers"
	"github.com/stocklens/backend-go/internal/api/middleware"
	"github.com/stocklens/backend-go/internal/auth"
	"github.com/stocklens/backend-go/internal/service"
)

type Services struct {
	Datasets  *service.DatasetService
	Assistant *service.AssistantService
	Auth      *service.AuthService
	Tokens    *auth.TokenIssuer
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Auth != nil {
			authHandler := handlers.NewAuthHandler(services.Auth)
			authGroup := apiGroup.Group("/auth")
			{
				authGroup.POST("/register", authHandler.Register)
				authGroup.POST("/login", authHandler.Login)
			}
		}

		if services.Datasets != nil {
			datasetHandler := handlers.NewDatasetHandler(services.Datasets)
			datasetGroup := apiGroup.Group("/datasets")
			if services.Tokens != nil {
				datasetGroup.Use(middleware.Auth(services.Tokens))
			}
			{
				datasetGroup.POST("", datasetHandler.Upload)
				datasetGroup.GET("", datasetHandler.List)
				datasetGroup.GET("/:id", datasetHandler.Get)
				datasetGroup.PUT("/:id", datasetHandler.Rename)
				datasetGroup.DELETE("/:id", datasetHandler.Delete)
				datasetGroup.GET("/:id/overview", datasetHandler.Overview)
				datasetGroup.GET("/:id/series", datasetHandler.Series)
				datasetGroup.GET("/:id/source", datasetHandler.Source)
			}

			if services.Assistant != nil {
				assistantHandler := handlers.NewAssistantHandler(services.Assistant)
				datasetGroup.POST("/:id/chat", assistantHandler.Chat)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
