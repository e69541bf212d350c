package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "cuaderno/api/swagger" // swagger docs
	"cuaderno/internal/assistant"
	"cuaderno/internal/config"
	"cuaderno/internal/database"
	"cuaderno/internal/handler"
	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/service"
	"cuaderno/internal/state"
	"cuaderno/internal/store"
	"cuaderno/internal/websocket"
)

// @title           Cuaderno de Campo API
// @version         1.0
// @description     Farm record keeping: parcels, crops, finances, invoices and tasks.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	tableStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open the table store")
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	st := state.New()
	repos := service.Repositories{
		Parcels:  repository.New(model.KindParcel, tableStore, st.Parcels),
		Crops:    repository.New(model.KindCrop, tableStore, st.Crops),
		Records:  repository.New(model.KindFinancialRecord, tableStore, st.Records),
		Invoices: repository.New(model.KindInvoice, tableStore, st.Invoices),
		Tasks:    repository.New(model.KindTask, tableStore, st.Tasks),
	}
	fiscalService := service.NewFiscalService(tableStore, cfg.FiscalProfileID, st.Fiscal, wsHub)
	healthService := service.NewHealthService(tableStore)
	loaderService := service.NewLoaderService(repos, fiscalService, healthService, wsHub)

	services := handler.Services{
		Parcels:   service.NewParcelService(repos.Parcels, st.Parcels, wsHub),
		Crops:     service.NewCropService(repos.Crops, st, wsHub),
		Finance:   service.NewFinanceService(repos.Records, st.Records, wsHub),
		Invoices:  service.NewInvoiceService(repos.Invoices, st.Invoices, wsHub),
		Tasks:     service.NewTaskService(repos.Tasks, st.Tasks, wsHub),
		Fiscal:    fiscalService,
		Cascade:   service.NewCascadeService(tableStore, st, repos.Parcels, repos.Crops, cfg.CascadeAtomic, wsHub),
		Health:    healthService,
		Loader:    loaderService,
		Backup:    service.NewBackupService(tableStore, st, loaderService, cfg.FiscalProfileID),
		Dashboard: service.NewDashboardService(st, healthService),
		Auth:      service.NewAuthService(cfg.PasswordHash, cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour),
		Assistant: newAssistant(cfg),
		Hub:       wsHub,
	}

	// A failed initial load keeps the server up: data routes answer 503
	// until /api/ajustes/verificar-conexion or an import succeeds.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := loaderService.Load(loadCtx); err != nil {
		log.Error().Err(err).Msg("initial data load failed")
	} else {
		log.Info().Msg("data loaded")
	}
	cancelLoad()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(services, handler.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins(),
		SecureCookies:  !cfg.IsDevelopment(),
		Swagger:        true,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // assistant answers can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func openStore(cfg *config.Config) (store.TableStore, error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Warn().Msg("using the in-memory store: data is lost on restart")
		return store.NewMemoryStore(), nil
	}
	db, err := database.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database connection opened")
	return store.NewGormStore(db), nil
}

func newAssistant(cfg *config.Config) assistant.Client {
	if cfg.GeminiAPIKey == "" {
		log.Info().Msg("GEMINI_API_KEY not set: assistant disabled")
		return assistant.Disabled{}
	}
	client, err := assistant.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Error().Err(err).Msg("failed to create the assistant client; assistant disabled")
		return assistant.Disabled{}
	}
	return client
}
