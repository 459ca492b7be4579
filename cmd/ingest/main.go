package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cinelog/telegram-movie-ingest/internal/channel"
	"github.com/cinelog/telegram-movie-ingest/internal/config"
	"github.com/cinelog/telegram-movie-ingest/internal/db"
	"github.com/cinelog/telegram-movie-ingest/internal/db/repository"
	"github.com/cinelog/telegram-movie-ingest/internal/service"
	"github.com/cinelog/telegram-movie-ingest/internal/storage"
	"github.com/cinelog/telegram-movie-ingest/pkg/logger"
)

func main() {
	loginOnly := pflag.Bool("login", false, "perform the channel login handshake and exit")
	since := pflag.String("since", "30d", "how far back to sync, e.g. 7d, 12h, 30m")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	channelClient := channel.NewClient(channel.Config{
		BaseURL:     cfg.Telegram.BridgeURL,
		APIID:       cfg.Telegram.APIID,
		APIHash:     cfg.Telegram.APIHash,
		SessionFile: cfg.Telegram.SessionFile,
	})

	// One-time interactive authentication setup: handshake, then exit
	// without touching the database or the channel history.
	if *loginOnly {
		if err := channelClient.Login(ctx); err != nil {
			logger.Log.Fatal("Login failed", zap.Error(err))
		}
		logger.Log.Info("Logged in successfully")
		return
	}

	pool, err := db.NewPool(ctx, db.DefaultConfig(cfg.Database.URL))
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	logger.Log.Info("Database connection established")

	movieRepo := repository.NewMovieRepository(pool)

	storageClient := storage.NewClient(storage.Config{
		BaseURL:    cfg.Supabase.URL,
		Bucket:     cfg.Supabase.StorageBucket,
		ServiceKey: cfg.Supabase.ServiceKey,
	})

	var ownerID *uuid.UUID
	if cfg.Supabase.OwnerID != "" {
		id, err := uuid.Parse(cfg.Supabase.OwnerID)
		if err != nil {
			logger.Log.Fatal("Invalid owner id", zap.Error(err))
		}
		ownerID = &id
	}

	syncer := service.NewSyncer(channelClient, storageClient, movieRepo, cfg.Telegram.Channel, ownerID)

	if _, err := syncer.Run(ctx, *since); err != nil {
		logger.Log.Fatal("Sync run failed", zap.Error(err))
	}
}
