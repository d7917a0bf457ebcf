package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/khoslan/toolbox"
	"github.com/khoslan/toolbox/internal/tools"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	workspace := flag.String("workspace", "", "workspace root for file operations (overrides config)")
	flag.Parse()

	cfg, err := toolbox.LoadConfig(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *workspace != "" {
		cfg.Workspace = *workspace
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	registry := toolbox.NewRegistry()
	registry.Register(tools.NewCalculator())
	registry.Register(tools.NewFileOperations(cfg.Workspace))
	registry.Register(tools.NewSystemInfo())

	srv := toolbox.NewServer(logger, registry, cfg.Recorder(), toolbox.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	})
	srv.FrameLogging = cfg.Debug

	logger.Info("starting server",
		"name", cfg.Name,
		"version", cfg.Version,
		"workspace", cfg.Workspace,
		"analytics", cfg.Analytics)

	if err := srv.Serve(context.Background()); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
