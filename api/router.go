package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/newsscrape/api/handler"
	"github.com/use-agent/newsscrape/api/middleware"
	"github.com/use-agent/newsscrape/config"
)

// NewRouter creates a configured Gin engine.
//
// Middleware chain: Recovery → RequestLogger.
func NewRouter(ns handler.NewsScraper, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.GET("/health", handler.Health(startTime))
	r.GET("/news_scrape", handler.NewsScrape(ns))

	return r
}
