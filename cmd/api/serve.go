package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursemart/internal/auth"
	"coursemart/internal/handler"
	"coursemart/internal/middleware"
	"coursemart/internal/recommend"
	"coursemart/internal/repository"
	"coursemart/internal/router"
	"coursemart/internal/service"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	cfg, logger := a.cfg, a.logger
	logger.Info().Str("environment", cfg.Server.Environment).Msg("starting coursemart API server")

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	pool, err := a.openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	courseRepo := repository.NewCourseRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	adminRepo := repository.NewAdminRepository(pool, logger)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLDuration())
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	// Recommendations work without the remote service or Redis; both are optional.
	var recommender recommend.Recommender
	if cfg.Recommender.URL != "" {
		recommender = recommend.NewHTTPClient(cfg.Recommender.URL, time.Duration(cfg.Recommender.Timeout)*time.Millisecond, logger)
		logger.Info().Str("url", cfg.Recommender.URL).Msg("remote recommender enabled")
	}

	var cache recommend.Cache
	if cfg.Redis.URL != "" {
		client, err := recommend.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, recommendation cache disabled")
		} else {
			defer client.Close()
			cache = recommend.NewRedisCache(client, logger)
		}
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, tokens, logger)
	courseService := service.NewCourseService(courseRepo, logger)
	cartService := service.NewCartService(cartRepo, courseRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, cartRepo, logger)
	adminService := service.NewAdminService(adminRepo, userRepo, cartRepo, logger)
	recommendationService := service.NewRecommendationService(
		recommender, cache, courseRepo, orderRepo, adminRepo,
		service.RecommendationOptions{
			Timeout:  time.Duration(cfg.Recommender.Timeout) * time.Millisecond,
			CacheTTL: time.Duration(cfg.Recommender.CacheTTL) * time.Second,
		},
		logger,
	)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Health: handler.NewHealthHandler(pool, logger),
		Auth: handler.NewAuthHandler(authService, handler.CookieOptions{
			Name:   cfg.Auth.CookieName,
			MaxAge: tokens.TTL(),
			Secure: cfg.IsProduction(),
		}, logger),
		Course:         handler.NewCourseHandler(courseService, logger),
		Cart:           handler.NewCartHandler(cartService, logger),
		Order:          handler.NewOrderHandler(checkoutService, logger),
		Admin:          handler.NewAdminHandler(adminService, logger),
		Recommendation: handler.NewRecommendationHandler(recommendationService, logger),
	}

	mux := router.New(handlers, router.Options{
		Verifier:       tokens,
		CookieName:     cfg.Auth.CookieName,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		Production:     cfg.IsProduction(),
		Tracing:        cfg.Server.Tracing,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
