package main

import (
	"fmt"
	"os"

	"github.com/nurpe/agromarket/internal/auth"
	"github.com/nurpe/agromarket/internal/config"
	"github.com/nurpe/agromarket/internal/db"
	"github.com/nurpe/agromarket/internal/excel"
	httphandler "github.com/nurpe/agromarket/internal/http"
	"github.com/nurpe/agromarket/internal/http/middleware"
	"github.com/nurpe/agromarket/internal/logger"
	"github.com/nurpe/agromarket/internal/pdf"
	"github.com/nurpe/agromarket/internal/service"
	"github.com/nurpe/agromarket/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	var st store.Store
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		database, err := db.New(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		st = store.NewGormStore(database)
	default:
		st = store.NewMemoryStore()
	}

	tokens := auth.NewManager(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	market := service.NewMarketService(st, tokens, pdf.NewGenerator(), excel.NewGenerator())

	handler := httphandler.NewHandler(market, log)
	authMiddleware := middleware.Auth(tokens)
	router := httphandler.NewRouter(handler, authMiddleware, log, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Str("store", cfg.Store.Driver).Msg("starting agromarket service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
