package routes

import (
	"net/http"

	"profit-forecast/internal/api/handlers"
	"profit-forecast/internal/api/middleware"
	"profit-forecast/internal/data"
	"profit-forecast/internal/forecast"
	"profit-forecast/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps are the shared services the routes are built from. Nil fields disable
// the feature they back.
type Deps struct {
	Store       data.ResultStore
	Metrics     *metrics.Collectors
	Gatherer    prometheus.Gatherer
	Limiter     *rate.Limiter
	ProductDir  string
	CORSOrigins []string
}

// SetupRoutes installs middleware and every route on router.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger())
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	// CORS ends preflights itself; it runs after Logger and Metrics so those
	// requests are still logged and counted.
	router.Use(middleware.CORS(deps.CORSOrigins...))

	engine := forecast.New().WithMetrics(deps.Metrics)
	forecastHandler := handlers.NewForecastHandler(engine, deps.Store)
	breakEvenHandler := handlers.NewBreakEvenHandler(engine)
	productHandler := handlers.NewProductHandler(deps.ProductDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1", middleware.RateLimit(deps.Limiter))
	{
		api.POST("/forecast", forecastHandler.RunForecast)
		api.GET("/forecast/:id", forecastHandler.GetForecast)
		api.POST("/forecast/compare", forecastHandler.CompareForecasts)

		api.POST("/breakeven", breakEvenHandler.Solve)

		api.GET("/products", productHandler.ListProducts)
		api.GET("/levers", handlers.ListLevers)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}
