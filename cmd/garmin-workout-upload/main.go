// Command garmin-workout-upload sends converted workout JSON files to Garmin
// Connect, skipping files it has already uploaded.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ddrmaster1000/garmin-workout/internal/config"
	"github.com/ddrmaster1000/garmin-workout/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	dirPath := flag.String("path", "", "directory containing converted workout JSON files")
	dryRun := flag.Bool("dry-run", false, "list what would be uploaded without sending")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("garmin-workout-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dirPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: garmin-workout-upload -path <workout dir> [-dry-run] [-config <file>]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

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

	if cfg.Garmin.Token == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: garmin.token is required (or use -dry-run)\n")
		os.Exit(1)
	}

	info, err := os.Stat(*dirPath)
	if err != nil || !info.IsDir() {
		log.Error("workout directory not found", "path", *dirPath)
		os.Exit(1)
	}

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".garmin-workout")

	state, err := upload.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Create client (nil-safe in dry-run mode)
	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(cfg.Garmin.BaseURL, cfg.Garmin.Token)
	}

	if *dryRun {
		log.Info("DRY RUN mode, nothing will be sent")
	}

	uploader := upload.New(client, state, *dirPath, *dryRun, log)
	stats, err := uploader.Run(context.Background())
	if err != nil {
		log.Error("upload failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
}
