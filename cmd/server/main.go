// @title                       Marketplace API
// @version                     1.0
// @description                 Multi-vendor marketplace: accounts, vendor onboarding and the product catalogue.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/bazaar/marketplace-api/docs"
	"github.com/bazaar/marketplace-api/internal/app"
	"github.com/bazaar/marketplace-api/internal/pkg/config"
	"github.com/bazaar/marketplace-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace-api",
	})
	log.Info().Str("env", cfg.Env).Str("store", cfg.Store.Backend).Msg("starting")

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build application")
	}

	if err := a.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
