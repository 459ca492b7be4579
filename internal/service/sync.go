// Package service provides the channel-to-database sync pipeline.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cinelog/telegram-movie-ingest/internal/channel"
	"github.com/cinelog/telegram-movie-ingest/internal/db/models"
	"github.com/cinelog/telegram-movie-ingest/internal/db/repository"
	"github.com/cinelog/telegram-movie-ingest/internal/parser"
	"github.com/cinelog/telegram-movie-ingest/pkg/logger"
)

// ChannelReader is the slice of the channel client the syncer consumes.
type ChannelReader interface {
	// History enumerates channel messages oldest first.
	History(ctx context.Context, channelName string) ([]channel.Message, error)

	// DownloadPhoto retrieves the raw bytes of one photo attachment.
	DownloadPhoto(ctx context.Context, photo channel.Photo) ([]byte, error)
}

// CoverUploader stores cover image bytes and returns a public URL.
type CoverUploader interface {
	UploadCover(ctx context.Context, data []byte, filename string) (string, error)
}

// Syncer drives one sync run: cutoff computation, chronological replay
// of the channel, and the parse/build/upload/upsert pipeline. All calls
// are strictly sequential; the only shared handles are the injected
// clients, used one message at a time.
type Syncer struct {
	channel     ChannelReader
	uploader    CoverUploader
	movies      repository.MovieRepository
	channelName string
	ownerID     *uuid.UUID
	now         func() time.Time
}

// NewSyncer creates a new Syncer. ownerID may be nil when rows need no
// owner attribution.
func NewSyncer(ch ChannelReader, uploader CoverUploader, movies repository.MovieRepository, channelName string, ownerID *uuid.UUID) *Syncer {
	return &Syncer{
		channel:     ch,
		uploader:    uploader,
		movies:      movies,
		channelName: channelName,
		ownerID:     ownerID,
		now:         time.Now,
	}
}

// RunStats tallies the outcome of one sync run.
type RunStats struct {
	Processed int
	Skipped   int
	Failed    int
}

// Run syncs channel messages newer than the lookback window into the
// movies table. The cutoff is computed once at the start of the run. A
// message whose upsert fails is logged and counted but does not stop the
// run; a failure to fetch the history itself aborts.
func (s *Syncer) Run(ctx context.Context, lookback string) (RunStats, error) {
	var stats RunStats

	window := parser.ParseLookback(lookback)
	cutoff := s.now().UTC().Add(-window)

	messages, err := s.channel.History(ctx, s.channelName)
	if err != nil {
		return stats, fmt.Errorf("fetch channel history: %w", err)
	}

	for _, msg := range messages {
		msgDate := msg.Date.UTC()
		if msgDate.Before(cutoff) {
			stats.Skipped++
			continue
		}
		if strings.TrimSpace(msg.Text) == "" {
			stats.Skipped++
			continue
		}

		fields := parser.ParseMovieText(msg.Text)
		movie := models.MovieFromFields(fields, msg.ID, msgDate)

		if len(msg.Photos) > 0 {
			s.attachCover(ctx, movie, msg)
		}

		if s.ownerID != nil {
			movie.SetOwner(*s.ownerID)
		}

		if err := s.movies.UpsertMovie(ctx, movie); err != nil {
			logger.Log.Error("Failed to upsert movie",
				zap.Int64("message_id", msg.ID),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}

		stats.Processed++
		logger.Log.Info("Synced message",
			zap.Int64("message_id", msg.ID),
			zap.String("title", movie.ResolvedTitle()),
		)
	}

	logger.Log.Info("Sync run complete",
		zap.Time("cutoff", cutoff),
		zap.Int("processed", stats.Processed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}

// attachCover downloads and uploads the first photo attachment only;
// additional photos on the same message are ignored. A download or
// upload failure degrades the record to coverless rather than failing
// the message.
func (s *Syncer) attachCover(ctx context.Context, movie *models.Movie, msg channel.Message) {
	data, err := s.channel.DownloadPhoto(ctx, msg.Photos[0])
	if err != nil {
		logger.Log.Warn("Failed to download cover photo",
			zap.Int64("message_id", msg.ID),
			zap.Error(err),
		)
		return
	}

	coverURL, err := s.uploader.UploadCover(ctx, data, fmt.Sprintf("tg_%d.jpg", msg.ID))
	if err != nil {
		logger.Log.Warn("Failed to upload cover photo",
			zap.Int64("message_id", msg.ID),
			zap.Error(err),
		)
		return
	}

	movie.SetCoverURL(coverURL)
}
