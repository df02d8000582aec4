package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"pharmacy-backend/internal/client"
	"pharmacy-backend/internal/config"
	"pharmacy-backend/internal/handler"
	"pharmacy-backend/internal/logging"
	"pharmacy-backend/internal/repository"
	"pharmacy-backend/internal/server"
	"pharmacy-backend/internal/service"
	"pharmacy-backend/internal/worker"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg)

	db, err := client.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init failed")
	}

	tokenCache := client.NewTokenCache(
		&http.Client{Timeout: 30 * time.Second},
		cfg.Paypal.BaseApiURL+"/v1/oauth2/token",
		cfg.Paypal.ClientID,
		cfg.Paypal.ClientSecret,
	)
	paypalClient := client.NewPaypalClient(&cfg.Paypal, cfg.BaseURL, tokenCache, logger)
	braintreeClient := client.NewBraintreeClient(&cfg.Braintree)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := productRepo.Seed(ctx); err != nil {
		logger.Warn().Err(err).Msg("product seed failed")
	}

	userService := service.NewUserService(userRepo, &cfg.Auth)
	catalogService := service.NewCatalogService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	paymentService := service.NewPaymentService(
		db, paypalClient, braintreeClient,
		paymentRepo, cartRepo, productRepo,
		logger,
	)

	syncWorker := worker.NewSyncWorker(
		paymentService,
		time.Duration(cfg.Sync.IntervalMinutes)*time.Minute,
		cfg.Sync.MaxAttempts,
		logger,
	)
	syncWorker.Start(ctx)

	srv := server.NewServer(
		&cfg.Auth,
		handler.NewUserHandler(userService),
		handler.NewCatalogHandler(catalogService),
		handler.NewCartHandler(cartService),
		handler.NewPaymentHandler(paymentService, syncWorker),
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	logger.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info().Msg("signal received, starting graceful shutdown")

	cancel()
	syncWorker.Wait()

	if err := srv.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
}
