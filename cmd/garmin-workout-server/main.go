// Command garmin-workout-server runs the HTTP conversion API, optionally on
// a tailnet via tsnet.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ddrmaster1000/garmin-workout/internal/bedrock"
	"github.com/ddrmaster1000/garmin-workout/internal/config"
	"github.com/ddrmaster1000/garmin-workout/internal/convert"
	"github.com/ddrmaster1000/garmin-workout/internal/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("garmin-workout-server starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
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

	srv := server.New(conv, cfg.Server.APIKey, time.Duration(cfg.Server.ConvertTimeoutSecs)*time.Second, log)

	// Start listener, tsnet or plain TCP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
