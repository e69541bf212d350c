package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cuaderno/internal/assistant"
	"cuaderno/internal/middleware"
	"cuaderno/internal/service"
	"cuaderno/internal/websocket"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Parcels   service.ParcelService
	Crops     service.CropService
	Finance   service.FinanceService
	Invoices  service.InvoiceService
	Tasks     service.TaskService
	Fiscal    service.FiscalService
	Cascade   service.CascadeService
	Health    service.HealthService
	Loader    service.LoaderService
	Backup    service.BackupService
	Dashboard service.DashboardService
	Auth      service.AuthService
	Assistant assistant.Client
	Hub       *websocket.Hub
}

// RouterOptions tunes the HTTP surface.
type RouterOptions struct {
	AllowedOrigins []string
	SecureCookies  bool
	Swagger        bool
}

// NewRouter mounts every route. Data routes answer 503 until the initial
// load has succeeded; auth, health, import and connection checks stay up.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = opts.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", middleware.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "OK", "database": svc.Health.Connected()}
		if err := svc.Loader.Ready(); err != nil {
			body["loadError"] = err.Error()
		}
		c.JSON(http.StatusOK, body)
	})

	if svc.Hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			websocket.ServeWs(svc.Hub, c, svc.Auth, opts.AllowedOrigins)
		})
	}

	public := router.Group("/api")
	NewAuthHandler(svc.Auth, opts.SecureCookies).RegisterRoutes(public)

	api := router.Group("/api", middleware.RequireSession(svc.Auth))
	ready := middleware.RequireReady(svc.Loader)
	NewSettingsHandler(svc.Fiscal, svc.Backup, svc.Health, svc.Loader).RegisterRoutes(api, ready)
	NewAssistantHandler(svc.Assistant).RegisterRoutes(api)

	data := api.Group("", ready)
	NewParcelHandler(svc.Parcels, svc.Cascade).RegisterRoutes(data)
	NewCropHandler(svc.Crops, svc.Cascade).RegisterRoutes(data)
	NewFinanceHandler(svc.Finance).RegisterRoutes(data)
	NewInvoiceHandler(svc.Invoices, svc.Fiscal).RegisterRoutes(data)
	NewTaskHandler(svc.Tasks).RegisterRoutes(data)
	NewDashboardHandler(svc.Dashboard).RegisterRoutes(data)

	return router
}
