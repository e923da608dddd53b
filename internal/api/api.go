// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stocklens/doi-dashboard/internal/api/handlers"
	"github.com/stocklens/doi-dashboard/internal/api/middleware"
	"github.com/stocklens/doi-dashboard/internal/service"
)

func NewRouter(dashboardService *service.DashboardService, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Logger(),
		middleware.Recovery(),
	)

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
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

	inventoryHandler := handlers.NewInventoryHandler(dashboardService)
	inventoryGroup := apiGroup.Group("/inventory")
	{
		inventoryGroup.GET("/items", inventoryHandler.GetItems)
		inventoryGroup.GET("/filters", inventoryHandler.GetFilterOptions)
		inventoryGroup.POST("/upload", inventoryHandler.Upload)
	}

	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	dashboardGroup := apiGroup.Group("/dashboard")
	{
		dashboardGroup.GET("", dashboardHandler.GetDashboard)
		dashboardGroup.GET("/summary", dashboardHandler.GetSummary)
		dashboardGroup.GET("/status_counts", dashboardHandler.GetStatusCounts)
		dashboardGroup.GET("/insights", dashboardHandler.GetInsights)

		chartsGroup := dashboardGroup.Group("/charts")
		{
			chartsGroup.GET("/doi_histogram", dashboardHandler.GetDOIHistogram)
			chartsGroup.GET("/top_overstock", dashboardHandler.GetTopOverstock)
			chartsGroup.GET("/avg_doi_by_buyer", dashboardHandler.GetAvgDOIByBuyer)
			chartsGroup.GET("/value_by_category", dashboardHandler.GetValueByCategory)
			chartsGroup.GET("/top_revenue", dashboardHandler.GetTopRevenue)
			chartsGroup.GET("/expiry_timeline", dashboardHandler.GetExpiryTimeline)
			chartsGroup.GET("/doi_scatter", dashboardHandler.GetDOIScatter)
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
