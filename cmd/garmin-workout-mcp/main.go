// Command garmin-workout-mcp serves the workout converter over MCP on
// stdio. Logs go to stderr; stdout carries the protocol.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ddrmaster1000/garmin-workout/internal/bedrock"
	"github.com/ddrmaster1000/garmin-workout/internal/config"
	"github.com/ddrmaster1000/garmin-workout/internal/convert"
	mcpserver "github.com/ddrmaster1000/garmin-workout/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("garmin-workout-mcp", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	ctx := context.Background()
	client, err := bedrock.New(ctx, cfg.Bedrock.Region, cfg.Bedrock.ModelID, bedrock.Options{
		MaxTokens:   int32(cfg.Bedrock.MaxTokens),
		Temperature: float32(cfg.Bedrock.Temperature),
	})
	if err != nil {
		log.Error("failed to create model client", "error", err)
		os.Exit(1)
	}

	conv := convert.New(client,
		convert.WithPaces(convert.Paces{
			SwimSecsPerYard:    cfg.Paces.SwimSecsPerYard,
			RunSecsPerMile:     cfg.Paces.RunSecsPerMile,
			CyclingSecsPerMile: cfg.Paces.CyclingSecsPerMile,
		}),
		convert.WithLogger(log),
	)

	s := mcpserver.New(conv, Version, log)

	log.Info("garmin-workout-mcp serving on stdio", "version", Version)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
