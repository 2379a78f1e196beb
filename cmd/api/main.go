package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "distance-api/docs"
	"distance-api/internal/cache"
	"distance-api/internal/config"
	"distance-api/internal/gateway"
	"distance-api/internal/handler"
	"distance-api/internal/repository"
	"distance-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//	@title			Distance API
//	@version		1.0
//	@description	Resolves free-text places to geocoded locations and computes the travel distance between them.
//	@BasePath		/
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	setupLogger(config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Result cache is optional; without Redis every request is computed
	var resultCache service.ResultCache
	if config.RedisAddr != "" {
		client, err := cache.Connect(ctx, config.RedisAddr, config.RedisPassword, config.RedisDB)
		if err != nil {
			log.Warn().Err(err).Msg("result cache unavailable, continuing without it")
		} else {
			defer client.Close()
			resultCache = cache.NewRedisCache(client)
		}
	}

	// Initialize layers
	repo := repository.NewRepository(conn).WithMatchThreshold(config.MatchThreshold)
	maps := gateway.NewGoogleMaps(config.GoogleMapsAPIKey, config.GoogleMapsBaseURL, config.GatewayTimeout)

	distanceService := service.NewDistanceService(repo, maps, maps, resultCache,
		service.WithCacheTTL(config.CacheTTL),
		service.WithCacheOpTimeout(config.CacheOpTimeout),
		service.WithLookupTimeout(2*config.GatewayTimeout),
	)

	distanceHandler := handler.NewDistanceHandler(distanceService)
	healthHandler := handler.NewHealthHandler(repo)

	gin.SetMode(config.GinMode)
	r := handler.NewRouter(distanceHandler, healthHandler)

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2*config.GatewayTimeout + 10*time.Second,
	}

	go func() {
		log.Info().Str("addr", config.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
