package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeprice/internal/config"
	"homeprice/internal/handler"
	"homeprice/internal/logger"
	"homeprice/internal/metrics"
	"homeprice/internal/service"
	"homeprice/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var cfgPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "homeprice",
		Short:        "Bangalore house price prediction form",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction form over HTTP",
		RunE:  runServe,
	})
	root.AddCommand(newLocationsCmd(), newPredictCmd(), newStatusCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.Logging.Format, cfg.Logging.Level)
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("main")

	// Print version info
	log.Infof("Bangalore House Price Predictor")
	log.Infof("Version: %s", Version)
	log.Infof("Build Time: %s", BuildTime)
	log.Infof("Git Commit: %s", GitCommit)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	client := service.NewPriceClient(&cfg.API)
	log.Infof("✅ Prediction service client initialized")
	log.Infof("   - Base URL: %s", client.BaseURL())
	if cfg.API.Timeout == 0 {
		log.Warnf("⚠️  No request timeout set: a hung prediction service leaves forms loading")
	} else {
		log.Infof("   - Timeout: %s", cfg.API.Timeout)
	}

	var recorder service.Recorder = service.NopRecorder{}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		promRecorder, err := metrics.NewPromRecorder(nil)
		if err != nil {
			return err
		}
		recorder = promRecorder
		metricsHandler = promhttp.Handler()
	}

	sessions := service.NewSessionStore(func() *service.PredictionForm {
		return service.NewPredictionForm(client, recorder)
	}, cfg.Session.TTL)
	go sessions.Run(ctx)

	formatter := utils.NewPriceFormatter(cfg.Display.Locale)
	log.Infof("✅ Services initialized (display locale %s)", formatter.Locale())

	// Initialize handlers
	formHandler := handler.NewFormHandler(sessions, client, formatter, cfg.Session.CookieName, cfg.Session.TTL, Version)
	healthHandler := handler.NewHealthHandler(client, sessions, handler.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	})

	router, err := handler.NewRouter(handler.RouterOptions{
		Form:           formHandler,
		Health:         healthHandler,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        metricsHandler,
	})
	if err != nil {
		return err
	}

	// Serve static files
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router)

	srv := &http.Server{Addr: cfg.Addr(), Handler: router}
	go func() {
		<-ctx.Done()
		log.Infof("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown server: %v", err)
		}
	}()

	log.Infof("🚀 Starting server on %s", cfg.Addr())
	log.Infof("🌐 Web UI: http://localhost:%d", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Infof("✅ Server stopped")
	return nil
}
