package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/chocobo-tracker/internal/api/handlers"
	"github.com/codyseavey/chocobo-tracker/internal/config"
	"github.com/codyseavey/chocobo-tracker/internal/services"
)

func SetupRouter(cfg *config.Config, cardService *services.CardService, statsService *services.StatsService) *gin.Engine {
	router := gin.Default()

	frontendPath := cfg.Server.FrontendDist
	serveFrontend := frontendPath != "" && dirExists(frontendPath)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOriginList()
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))
	router.Use(RequestID())
	router.Use(Metrics())

	// Initialize handlers
	cardHandler := handlers.NewCardHandler(cardService)
	statsHandler := handlers.NewStatsHandler(cardService, statsService)
	adminHandler := handlers.NewAdminHandler(cardService)

	api := router.Group("/api")
	{
		cards := api.Group("/cards")
		{
			cards.GET("", cardHandler.GetCards)
			cards.GET("/view", cardHandler.GetCollectionView)
			cards.GET("/:id", cardHandler.GetCard)
		}

		api.GET("/stats", statsHandler.GetStats)

		// Single-card mutations
		admin := api.Group("")
		admin.Use(RateLimit(cfg.Admin.RatePerSecond, cfg.Admin.Burst), AdminAuth(cfg.Admin.Token))
		{
			admin.POST("/submit", adminHandler.ReportFind)
			admin.POST("/update-price", adminHandler.UpdatePrice)
			admin.POST("/add-price-history", adminHandler.AddPriceHistory)
			admin.POST("/update-grading", adminHandler.UpdateGrading)
			admin.POST("/update-image", adminHandler.UpdateImage)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve frontend static files
	if serveFrontend {
		indexPath := filepath.Join(frontendPath, "index.html")

		router.Static("/assets", filepath.Join(frontendPath, "assets"))
		router.Static("/images", filepath.Join(frontendPath, "images"))

		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(indexPath)
		})
	}

	return router
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
