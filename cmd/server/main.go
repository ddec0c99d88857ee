package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pizzaservice/docs"
	"pizzaservice/internal/auth"
	"pizzaservice/internal/cache"
	"pizzaservice/internal/config"
	"pizzaservice/internal/db"
	"pizzaservice/internal/handler"
	"pizzaservice/internal/logger"
	"pizzaservice/internal/metrics"
	"pizzaservice/internal/repository"
	"pizzaservice/internal/router"
	"pizzaservice/internal/service"
)

// @title Pizza Service Auth API
// @version 1.0
// @description Registration, login, logout and user updates backed by revocable JWT sessions.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if cfg.JWTSecret == "change-me" {
		log.Warn("JWT_SECRET is not set, using the development default")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		fatal(log, "database init", err)
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		fatal(log, "migrate", err)
	}

	redisClient := cache.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer redisClient.Close()
	cacheClient := cache.New(redisClient)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)

	var sessions auth.SessionRegistry
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		sessions = auth.NewRedisSessionRegistry(redisClient, jwtService.TTL())
	case config.SessionStoreMySQL:
		sessions = repository.NewSessionRepository(gormDB)
	default:
		fatal(log, "session store", errors.New("unknown SESSION_STORE "+cfg.SessionStore))
	}
	log.Info("session registry ready", slog.String("store", cfg.SessionStore))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	credentials := service.NewCredentialStore(repository.NewUserRepository(gormDB), cfg.BcryptCost)
	userService := service.NewUserService(credentials, cacheClient, cfg.UserCacheTTL)
	authService := service.NewAuthService(credentials, sessions, jwtService, userService, recorder, log)
	chaosService := service.NewChaosService(log)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Config:      cfg,
		Logger:      log,
		Resolver:    auth.NewResolver(jwtService, sessions),
		Recorder:    recorder,
		Gatherer:    registry,
		AuthHandler: handler.NewAuthHandler(authService, chaosService, log),
		UserHandler: handler.NewUserHandler(userService, log),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available", slog.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server start", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", slog.String("error", err.Error()))
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
