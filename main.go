package main

import (
	"context"
	"fmt"
	"os"

	account "auction-house/internal/accountService"
	auction "auction-house/internal/auctionService"
	"auction-house/internal/config"
	"auction-house/internal/db"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Warn("invalid LOG_LEVEL, keeping info", map[string]any{"error": err.Error()})
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.UsesDefaultSecret() {
		utils.Warn("SESSION_SECRET not set, using the development fallback", nil)
	}

	store, err := openStore(cfg)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"error": err.Error()})
	}

	auctionSvc := auction.NewAuctionService(store)
	accountSvc := account.NewAccountService(store)

	if cfg.SeedDemoData {
		if err := seedDemoData(context.Background(), accountSvc, auctionSvc); err != nil {
			utils.Warn("failed to seed demo data", map[string]any{"error": err.Error()})
		}
	}

	router := server.SetupRouter(auctionSvc, accountSvc, cfg.SessionSecret, store)

	utils.Info(fmt.Sprintf("Starting auction server on %s...", cfg.Port), map[string]any{"database": cfg.UsesDatabase()})
	if err := router.Run(cfg.Port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// openStore returns the Postgres-backed store when DB_DSN is set, the in-memory one otherwise
func openStore(cfg config.Config) (repository.Store, error) {
	if !cfg.UsesDatabase() {
		return repository.NewMemoryRepo(), nil
	}

	gdb, err := db.Open(cfg.DatabaseDSN, db.Options{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxOpenConns / 2,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, err
	}
	return repository.NewGormRepo(gdb), nil
}

// seedDemoData registers a demo seller and a few listings
func seedDemoData(ctx context.Context, accounts *account.AccountService, auctions *auction.AuctionService) error {
	seller, err := accounts.Register(ctx, "demo", "demo@example.com", "demo", "demo")
	if err != nil {
		return err
	}

	listings := []auction.NewListing{
		{Title: "Vintage camera", Description: "Working 35mm film camera", StartingBid: decimal.RequireFromString("25.00"), Categories: []string{"Electronics"}},
		{Title: "Oak bookshelf", Description: "Five shelves, solid oak", StartingBid: decimal.RequireFromString("80.00"), Categories: []string{"Home"}},
		{Title: "Board game bundle", Description: "Three classic board games", StartingBid: decimal.RequireFromString("15.50"), Categories: []string{"Toys", "Games"}},
	}
	for _, l := range listings {
		created, err := auctions.CreateListing(ctx, seller.ID, l)
		if err != nil {
			return err
		}
		utils.Info("seeded listing", map[string]any{"listing_id": created.ID, "title": created.Title})
	}
	return nil
}
