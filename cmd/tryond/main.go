// Package main is the entry point for the FitMirror try-on service.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/fitmirror/internal/cloth"
	"github.com/Faultbox/fitmirror/internal/config"
	"github.com/Faultbox/fitmirror/internal/garment"
	"github.com/Faultbox/fitmirror/internal/logger"
	"github.com/Faultbox/fitmirror/internal/pipeline"
	"github.com/Faultbox/fitmirror/internal/server"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("=== FitMirror Try-On Service ===")
	log.Sugar().Debugf("Config: %+v", cfg)

	if err := cfg.EnsureDirs(); err != nil {
		log.Error("failed to prepare working directories", zap.Error(err))
		os.Exit(1)
	}

	catalog, err := garment.LoadCatalog(cfg.GarmentsDir(), cfg.Models.CacheSize, log)
	if err != nil {
		log.Error("failed to load garment catalog", zap.Error(err))
		os.Exit(1)
	}

	params := cloth.Params{
		TimeStep:  cfg.Cloth.TimeStep,
		Steps:     cfg.Cloth.Steps,
		Damping:   cfg.Cloth.Damping,
		Stiffness: cfg.Cloth.Stiffness,
	}
	p := pipeline.New(catalog, params, log)

	srv := server.New(cfg, catalog, p, log)
	if err := srv.Run(); err != nil {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}
