package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"Forward3D/internal/config"
	"Forward3D/internal/engine"
	"Forward3D/internal/logger"
	"Forward3D/internal/renderer"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	configPath := flag.String("config", "", "scene configuration (TOML); the built-in demo scene is used when empty")
	dumpConfig := flag.Bool("dump-config", false, "print the effective configuration and exit")
	verbose := flag.Bool("verbose", false, "log at debug level")
	wireframe := flag.Bool("wireframe", false, "draw polygons as lines")
	flag.Parse()

	logger.Init()
	if *verbose {
		logger.SetLevel(zapcore.DebugLevel)
	}
	defer logger.Sync()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Log.Error("Invalid configuration", zap.Error(err))
			os.Exit(1)
		}
	}

	if *dumpConfig {
		data, err := cfg.Marshal()
		if err != nil {
			logger.Log.Error("Could not encode configuration", zap.Error(err))
			os.Exit(1)
		}
		fmt.Print(string(data))
		return
	}

	renderer.Debug = *wireframe

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Log.Info("Forward3D starting", zap.String("config", *configPath))
	if err := engine.New(cfg, *configPath).Run(ctx); err != nil {
		logger.Log.Error("Engine stopped", zap.Error(err))
		os.Exit(1)
	}
}
