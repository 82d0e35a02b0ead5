package main

import (
	"context"
	"flag"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/config"
	"crypto_cashier/internal/db"
	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/logger"
	"crypto_cashier/internal/repository"
	"crypto_cashier/internal/service"
)

var defaultGames = []string{"Orionstars", "Fish Table", "Lucky Tiger", "Golden Dragon"}

func main() {
	withGames := flag.Bool("games", true, "seed the default game catalog")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	defer logger.Sync()

	if cfg.AdminPassword == "" {
		logger.Fatal("ADMIN_PASSWORD not set")
	}

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	ctx := context.Background()

	net, err := config.NetParams(cfg.BTCNetwork)
	if err != nil {
		logger.Fatal("bad network", "error", err)
	}

	audit := service.NewAuditService(repository.NewAuditRepository(pool))
	users := service.NewUserService(repository.NewUserRepository(pool), audit)
	configs := service.NewConfigService(repository.NewConfigRepository(pool), net, audit)
	games := service.NewGameService(
		repository.NewGameRepository(pool),
		repository.NewDepositRepository(pool),
		repository.NewWithdrawalRepository(pool),
		audit,
	)

	created, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatal("seed admin failed", "error", err)
	}
	logger.Info("admin user", "email", cfg.AdminEmail, "created", created)

	// existing keys are left alone
	err = configs.SeedDefaults(ctx, map[string]string{
		domain.ConfigBTCAddress:       cfg.DefaultBTCAddress,
		domain.ConfigLightningAddress: cfg.DefaultLightningAddress,
		domain.ConfigNetworkFee:       cfg.DefaultNetworkFee,
	})
	if err != nil {
		logger.Fatal("seed config failed", "error", err)
	}

	if !*withGames {
		return
	}
	for _, name := range defaultGames {
		g, err := games.Create(ctx, service.RequestMeta{}, service.GameInput{Name: &name})
		switch {
		case apperr.Is(err, apperr.KindConflict):
			logger.Debug("game already exists", "name", name)
		case err != nil:
			logger.Fatal("seed game failed", "name", name, "error", err)
		default:
			logger.Info("game created", "id", g.ID, "slug", g.Slug)
		}
	}
}
