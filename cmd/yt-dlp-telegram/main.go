package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lrstanley/go-ytdlp"

	"github.com/forsyth47/yt-dlp-telegram/internal/config"
	"github.com/forsyth47/yt-dlp-telegram/internal/fetch"
	"github.com/forsyth47/yt-dlp-telegram/internal/logging"
	"github.com/forsyth47/yt-dlp-telegram/internal/orchestrator"
	"github.com/forsyth47/yt-dlp-telegram/internal/platform"
	"github.com/forsyth47/yt-dlp-telegram/internal/prefs"
	"github.com/forsyth47/yt-dlp-telegram/internal/registry"
	"github.com/forsyth47/yt-dlp-telegram/internal/shortlink"
	"github.com/forsyth47/yt-dlp-telegram/internal/telegram"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultConfigFilename, "path to the configuration file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log := logging.New(settings.LogFile)
	defer log.Close()

	if err := platform.CreateDirectoryIfNotExists(settings.OutputDir); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(settings.UserDataFile)); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	store, err := prefs.NewStore(settings.UserDataFile)
	if err != nil {
		return fmt.Errorf("open user data: %w", err)
	}

	var links *shortlink.Store
	if settings.Redis.Enabled {
		links = shortlink.New(settings.RedisAddr(), settings.Redis.DB, config.DefaultShortlinkExpiry)
		defer links.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Downloads a yt-dlp binary when none is on PATH.
	ytdlp.MustInstall(ctx, nil)

	orch := orchestrator.New(
		registry.New(),
		fetch.NewYTDLP(),
		store,
		log,
		orchestrator.Config{
			OutputDir:      settings.OutputDir,
			MaxFilesize:    settings.MaxFilesize,
			UpdateInterval: settings.UpdateInterval(),
			PlaceholderGIF: settings.PlaceholderGIF,
		},
	)

	tb, err := telegram.New(settings.BotToken, orch, store, links, log)
	if err != nil {
		return err
	}
	if settings.LogChatID != 0 {
		log.SetNotifier(tb.Notifier(settings.LogChatID))
	}

	log.Info("bot starting", "output_dir", settings.OutputDir)
	tb.Start(ctx)
	log.Info("bot stopped")
	return nil
}
