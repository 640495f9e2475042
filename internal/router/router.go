package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "labsight/docs"
	"labsight/internal/handler"
	"labsight/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	reportH *handler.ReportHandler,
	runH *handler.RunHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Report processing
	reports := v1.Group("/reports")
	reports.POST("/process", reportH.Process)

	// Archived runs
	runs := v1.Group("/runs")
	runs.GET("", runH.List)
	runs.GET("/:id", runH.Get)
	runs.GET("/:id/export", runH.Export)
	runs.GET("/:id/original", runH.Original)
	runs.DELETE("/:id", runH.Delete)

	return r
}
