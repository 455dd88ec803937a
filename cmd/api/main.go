package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/providers/chain"
	"server/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	chainClient, err := chain.NewClient(chain.Options{
		RPCURL:          cfg.ChainRPCURL,
		ContractAddress: cfg.ChainContractAddress,
		Logger:          &logger,
		RequestTimeout:  cfg.ChainCallTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build chain client")
	}

	campaigns := repo.NewCampaignRepository(dbpool)
	donations := repo.NewDonationRepository(dbpool)
	users := repo.NewUserRepository(dbpool)
	wallets := repo.NewWalletRepository(dbpool)

	reconciler := service.NewReconciler(campaigns, donations, chainClient, logger, cfg.ChainCallTimeout)
	userService := service.NewUserService(users, wallets, logger)
	campaignService := service.NewCampaignService(campaigns, donations, users, chainClient, reconciler, logger)
	donationService := service.NewDonationService(campaigns, donations, users, reconciler, logger)

	app := handlers.NewApp(userService, campaignService, donationService, logger, cfg.JWTSecret)
	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
