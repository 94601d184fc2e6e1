package main

import (
	"flag"
	"fmt"
	"os"

	"premium-calc/internal/api"
	"premium-calc/internal/config"
	"premium-calc/internal/logging"
	"premium-calc/internal/rates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if wd, err := os.Getwd(); err == nil {
		logging.Debug("starting", zap.String("working_directory", wd), zap.String("rates_dir", cfg.RatesDir))
	}

	store, err := rates.NewStore(cfg.RatesDir)
	if err != nil {
		logging.Error("failed to load rate tables", zap.String("rates_dir", cfg.RatesDir), zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(cfg, store)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logging.Info("starting API server",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Env),
		zap.Int("records", store.Current().Len()))
	if err := router.Run(addr); err != nil {
		logging.Error("server stopped", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
}
