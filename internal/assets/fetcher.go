package assets

import (
	"context"
	"log/slog"
	"path/filepath"

	"captioner/internal/fileutil"
	"captioner/internal/logging"
	"captioner/internal/preflight"
	"captioner/internal/services"
	"captioner/internal/services/ytdlp"
)

// Downloader is the media collaborator: a metadata probe that transfers no
// media, and an audio-only download to an output template.
type Downloader interface {
	Probe(ctx context.Context, locator string) (ytdlp.Metadata, error)
	Download(ctx context.Context, locator, outputTemplate string) error
}

// Fetcher materializes audio assets into a Cache.
type Fetcher struct {
	downloader Downloader
	logger     *slog.Logger
}

// NewFetcher constructs a fetcher around the given downloader.
func NewFetcher(downloader Downloader, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		downloader: downloader,
		logger:     logging.NewComponentLogger(logger, "fetcher"),
	}
}

// Fetch ensures the audio asset for locator exists under baseDir and returns
// its record. A directory that already holds audio.mp3 and title.txt is
// returned without contacting the downloader.
func (f *Fetcher) Fetch(ctx context.Context, locator, baseDir string) (Record, error) {
	ctx = services.WithStage(ctx, services.StageFetch)
	logger := logging.WithContext(ctx, f.logger)

	if err := preflight.EnsureWritableDir(baseDir); err != nil {
		return Record{}, err
	}
	key, err := VideoKey(locator)
	if err != nil {
		return Record{}, err
	}
	logger = logger.With(logging.String(logging.FieldVideoKey, key))

	cache := NewCache(baseDir)
	if rec, ok, err := cache.Lookup(key); err != nil {
		return Record{}, err
	} else if ok {
		logger.Info("audio cache hit", logging.String("audio_path", rec.AudioPath))
		return rec, nil
	}

	title, haveTitle, err := cache.readTitle(key)
	if err != nil {
		return Record{}, err
	}
	if !haveTitle {
		meta, err := f.downloader.Probe(ctx, locator)
		if err != nil {
			return Record{}, services.Wrap(services.ErrDownloadFailed, services.StageFetch, "probe", locator, err)
		}
		title = meta.Title
		if err := cache.writeTitle(key, title); err != nil {
			return Record{}, err
		}
		logger.Debug("title persisted", logging.String("title", title))
	} else {
		logging.WarnWithContext(logger, "resuming partial download", "partial_cache",
			logging.String(logging.FieldImpact, "metadata probe skipped; audio will be downloaded again"),
			logging.String(logging.FieldErrorHint, "a previous fetch stopped before audio.mp3 was written"),
		)
	}

	template := filepath.Join(cache.Dir(key), audioTemplate)
	logger.Info("downloading audio", logging.String("template", template))
	if err := f.downloader.Download(ctx, locator, template); err != nil {
		return Record{}, services.Wrap(services.ErrDownloadFailed, services.StageFetch, "download", locator, err)
	}

	ok, err := fileutil.FileExists(cache.AudioPath(key))
	if err != nil || !ok {
		return Record{}, services.Wrap(services.ErrDownloadIncomplete, services.StageFetch, "verify", cache.AudioPath(key)+" missing after download", err)
	}
	logger.Info("audio downloaded", logging.String("audio_path", cache.AudioPath(key)))
	return cache.record(key, title), nil
}
