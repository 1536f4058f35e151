package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daylog/daylog-backend/internal/api"
	"github.com/daylog/daylog-backend/internal/assets"
	"github.com/daylog/daylog-backend/internal/auth"
	"github.com/daylog/daylog-backend/internal/config"
	"github.com/daylog/daylog-backend/internal/factory"
	"github.com/daylog/daylog-backend/internal/health"
	"github.com/daylog/daylog-backend/internal/logger"
	"github.com/daylog/daylog-backend/internal/services"
)

func main() {
	dbDriver := flag.String("db-driver", "", "Override DAYLOG_DB_DRIVER (sqlite, postgres)")
	flag.Parse()

	log := logger.New("daylog-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("invalid db-driver override")
		}
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("daylog service starting")

	st, err := factory.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store unavailable")
	}

	am, err := assets.New(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload directory unavailable")
	}

	az := auth.NewStaticAuthorizer(cfg.AuthTokens)
	diarySvc := services.NewDiaryService(st, am, log)

	pinger, _ := st.(health.HealthPinger)
	router := api.NewRouter(st, am, az, pinger, diarySvc, log)

	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
