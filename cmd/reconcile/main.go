// Command reconcile runs one reconciliation pass over campaigns and exits.
// It is an operational tool for catching up after a chain or database outage;
// normal freshness comes from read- and write-triggered reconciliation in the
// API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/chain"
	"server/internal/service"
)

func main() {
	var (
		idFlag  string
		allFlag bool
	)

	flag.StringVar(&idFlag, "id", "", "campaign ID to reconcile (UUID)")
	flag.BoolVar(&allFlag, "all", false, "reconcile every campaign")
	flag.Parse()

	campaignID := strings.TrimSpace(idFlag)
	if campaignID == "" && !allFlag {
		exitWithError(errors.New("either -id or -all must be provided"))
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		exitWithError(err)
	}
	defer dbpool.Close()

	chainClient, err := chain.NewClient(chain.Options{
		RPCURL:          cfg.ChainRPCURL,
		ContractAddress: cfg.ChainContractAddress,
		Logger:          &logger,
		RequestTimeout:  cfg.ChainCallTimeout,
	})
	if err != nil {
		exitWithError(err)
	}

	campaigns := repo.NewCampaignRepository(dbpool)
	donations := repo.NewDonationRepository(dbpool)
	reconciler := service.NewReconciler(campaigns, donations, chainClient, logger, cfg.ChainCallTimeout)

	var targets []domain.Campaign
	if campaignID != "" {
		c, err := campaigns.GetByID(ctx, campaignID)
		if err != nil {
			exitWithError(err)
		}
		targets = []domain.Campaign{*c}
	} else {
		targets, err = campaigns.ListAll(ctx)
		if err != nil {
			exitWithError(err)
		}
	}

	failed := 0
	for i := range targets {
		updated, err := reconciler.Reconcile(ctx, targets[i].ID)
		if err != nil {
			failed++
			logger.Error().Err(err).Str("campaign_id", targets[i].ID).Msg("reconcile failed")
			continue
		}
		fmt.Printf("%s total_raised=%s status=%s\n", updated.ID, updated.TotalRaised, updated.Status)
	}
	if failed > 0 {
		exitWithError(fmt.Errorf("%d of %d campaigns failed to reconcile", failed, len(targets)))
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
