// Command garmin-workout converts a free-text workout export into a Garmin
// Connect workout document, one conversion per run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ddrmaster1000/garmin-workout/internal/bedrock"
	"github.com/ddrmaster1000/garmin-workout/internal/config"
	"github.com/ddrmaster1000/garmin-workout/internal/convert"
	"github.com/ddrmaster1000/garmin-workout/internal/garmin"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	inputPath := flag.String("input", "", "path to the workout text file ('-' for stdin)")
	sportName := flag.String("type", "", "sport of the workout: swimming, running, or cycling")
	outputPath := flag.String("output", "", "write the workout JSON here instead of stdout")
	configPath := flag.String("config", "", "path to config file (optional)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *inputPath == "" || *sportName == "" {
		fmt.Fprintln(os.Stderr, "usage: garmin-workout -input <file> -type <sport> [-output <file>] [-config <file>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	sport, err := garmin.ParseSport(*sportName)
	if err != nil {
		log.Error("invalid sport", "error", err)
		os.Exit(1)
	}

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	rawText, err := readInput(*inputPath)
	if err != nil {
		log.Error("failed to read input", "error", err)
		os.Exit(1)
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

	workout, err := conv.Convert(ctx, rawText, sport)
	if err != nil {
		log.Error("conversion failed", "sport", sport, "error", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(workout.Payload(), "", "  ")
	if err != nil {
		log.Error("failed to encode workout", "error", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
			log.Error("failed to write output", "path", *outputPath, "error", err)
			os.Exit(1)
		}
		log.Info("workout written", "path", *outputPath, "name", workout.Name)
	} else {
		os.Stdout.Write(data)
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
