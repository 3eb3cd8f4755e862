package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tlmonitor/dashboard/internal/config"
	"github.com/tlmonitor/dashboard/internal/middleware"
	"github.com/tlmonitor/dashboard/internal/services"
	"github.com/tlmonitor/dashboard/internal/web"
)

// Dependencies is everything the router needs.
type Dependencies struct {
	Config  *config.Config
	Preview *services.PreviewService
	Jobs    *services.JobService
	Logger  *zap.Logger
}

// NewRouter registers every dashboard route.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	dashboardHandler := NewDashboardHandler(deps.Config)
	selectionHandler := NewSelectionHandler(deps.Preview, deps.Logger)
	jobHandler := NewJobHandler(deps.Jobs)

	router := gin.New()
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SetupCORS(deps.Config.CORSAllowOrigins))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", dashboardHandler.Login)
	router.POST("/menu", dashboardHandler.Menu)
	router.POST("/backtomenu", dashboardHandler.BackToMenu)
	router.POST("/classify", dashboardHandler.Classify)
	router.POST("/wordfreq", dashboardHandler.WordFreq)
	router.POST("/selection", selectionHandler.Preview)
	router.POST("/sent", jobHandler.Submit)

	router.GET("/health", dashboardHandler.HealthCheck)

	return router, nil
}
