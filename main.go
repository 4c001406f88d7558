package main

import (
	"context"
	"errors"
	"gigbot/conf"
	"gigbot/internal"
	"gigbot/logger"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

func main() {

	cfg, err := conf.Load()
	if err != nil {
		log.Fatalf("could not load config %s\n", err.Error())
	}
	if cfg.LogMode != "" {
		logger.SetMode(cfg.LogMode)
	}
	defer logger.Sync()

	source, err := buildSource(context.Background(), cfg)
	if err != nil {
		log.Fatalf("could not build event source %s\n", err.Error())
	}

	service := internal.NewService(cfg, internal.NewCatalog(source))

	//CATALOG SCHEDULER
	scheduler, err := service.ScheduledCatalogRefresh()
	if err != nil {
		log.Fatalf("could not schedule catalog refresh %s\n", err.Error())
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              cfg.Address + ":" + cfg.Port,
		Handler:           buildHandler(cfg, service),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", server.Addr)
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error: %s", err.Error())
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error: %s", err.Error())
	}
	logger.Info("server stopped")
}

// buildSource picks Google Sheets first, then the HTTP provider. With
// neither configured the catalog is empty and searches apologise.
func buildSource(ctx context.Context, cfg conf.Config) (internal.EventSource, error) {
	switch {
	case cfg.SheetsEnabled():
		sheetsService, err := internal.NewSheetsService(ctx, cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		return internal.NewSheetsSource(sheetsService, cfg.SpreadsheetId, cfg.ReadRange), nil
	case cfg.EventsUrl != "":
		return internal.HTTPSource{Url: cfg.EventsUrl, ApiKey: cfg.EventsApiKey}, nil
	default:
		logger.Warn("no event source configured, searches will find nothing")
		return internal.StaticSource(nil), nil
	}
}

func buildHandler(cfg conf.Config, service internal.Service) http.Handler {

	router := mux.NewRouter()
	router.Use(internal.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	})

	internal.RegisterHealthHandlers(router, service)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	//webhook APIs are under "/api/v1" path prefix
	routerGroup := router.PathPrefix("/api/v1").Subrouter()
	internal.RegisterHandlers(routerGroup, service, cfg)

	return otelhttp.NewHandler(c.Handler(router), "gigbot")
}
