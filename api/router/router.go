package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"news-comment/api/handlers"
	"news-comment/api/middleware"
	"news-comment/config"
)

// New 는 gin 엔진을 만들고 CORS 처리로 감싼 핸들러를 돌려준다.
func New(runner handlers.Runner, cfg config.ServerConfig) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace())

	// Health check
	r.GET("/health", handlers.HealthHandler())

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/comments", handlers.CreateCommentsHandler(runner))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Span-Id"},
	}).Handler(r)
}
