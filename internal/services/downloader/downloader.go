package downloader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/denisAlshanov/mediagrab/internal/config"
	"github.com/denisAlshanov/mediagrab/internal/models"
	"github.com/denisAlshanov/mediagrab/internal/services/classifier"
	"github.com/denisAlshanov/mediagrab/internal/services/fetcher"
	"github.com/denisAlshanov/mediagrab/internal/services/runner"
	"github.com/denisAlshanov/mediagrab/internal/services/storage"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

const (
	// Files older than the run start minus this skew are never picked up.
	snapshotClockSkew = 5 * time.Second
	archiveTimeout    = 2 * time.Minute
)

var musicExtensions = []string{".mp3", ".m4a", ".flac", ".opus"}

type MediaExtractor interface {
	Download(ctx context.Context, target models.PlatformURL, format models.MediaFormat, quality models.Quality, outputPath string) (*runner.Result, error)
}

type TrackDownloader interface {
	Download(ctx context.Context, target models.PlatformURL, dir string) (*runner.Result, error)
}

type Downloader struct {
	extractor     MediaExtractor
	music         TrackDownloader
	storage       storage.StorageInterface
	config        *config.DownloadConfig
	archivePrefix string
	sleep         func(ctx context.Context, d time.Duration) error
}

// NewDownloader wires the tools together. store may be nil to disable
// archiving.
func NewDownloader(extractor MediaExtractor, music TrackDownloader, store storage.StorageInterface, cfg *config.DownloadConfig, archivePrefix string) *Downloader {
	return &Downloader{
		extractor:     extractor,
		music:         music,
		storage:       store,
		config:        cfg,
		archivePrefix: archivePrefix,
		sleep:         sleepContext,
	}
}

// Prepare validates a request body against the server-side classification.
func (d *Downloader) Prepare(body models.DownloadRequestBody) (models.DownloadRequest, error) {
	target, err := classifier.Classify(body.URL)
	if err != nil {
		return models.DownloadRequest{}, utils.NewInvalidURLError("Invalid URL format", body.URL)
	}

	if body.Platform != "" && body.Platform != target.Platform {
		return models.DownloadRequest{}, utils.NewValidationError("Platform does not match URL", map[string]interface{}{
			"platform": body.Platform,
			"detected": target.Platform,
		})
	}

	if err := fetcher.Reject(target, body.URL); err != nil {
		return models.DownloadRequest{}, err
	}

	if target.Platform == models.PlatformSpotify {
		if target.Kind != models.SpotifyKindTrack {
			return models.DownloadRequest{}, utils.NewUnsupportedContentError(fetcher.SingleTrackOnlyMessage)
		}
		if body.Format != models.FormatAudio {
			return models.DownloadRequest{}, utils.NewUnsupportedContentError("Video format not supported for Spotify tracks. Please use audio format.")
		}
	}

	quality := body.Quality
	if quality == "" || target.Platform != models.PlatformYouTube {
		quality = models.QualityBest
	}

	return models.DownloadRequest{Target: target, Format: body.Format, Quality: quality}, nil
}

// Retrieve runs the download and returns the file contents. The temporary
// file is gone by the time this returns.
func (d *Downloader) Retrieve(ctx context.Context, req models.DownloadRequest) (*models.RetrievedFile, error) {
	utils.LogInfo(ctx, "Starting download", utils.Fields{
		"platform": req.Target.Platform,
		"media_id": req.Target.ID,
		"format":   req.Format,
		"quality":  req.Quality,
	})

	var (
		file *models.RetrievedFile
		err  error
	)
	if req.Target.Platform == models.PlatformSpotify {
		file, err = d.retrieveTrack(ctx, req)
	} else {
		file, err = d.retrieveMedia(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	utils.LogInfo(ctx, "Download completed", utils.Fields{
		"platform":  req.Target.Platform,
		"media_id":  req.Target.ID,
		"file_name": file.FileName,
		"size":      len(file.Data),
	})

	if d.storage != nil {
		go d.archive(context.WithoutCancel(ctx), req.Target, file)
	}

	return file, nil
}

func (d *Downloader) retrieveMedia(ctx context.Context, req models.DownloadRequest) (*models.RetrievedFile, error) {
	dir := d.config.TempDir
	outputPath := filepath.Join(dir, req.Target.ID+"."+req.Format.Extension())

	result, err := d.extractor.Download(ctx, req.Target, req.Format, req.Quality, outputPath)
	if err != nil {
		return nil, err
	}

	path, err := ResolveOutput(dir, req.Target.ID, req.Format, result.Diagnostic())
	if err != nil {
		return nil, err
	}

	data, err := d.readAndRemove(ctx, path)
	if err != nil {
		return nil, err
	}

	return &models.RetrievedFile{
		FileName:    fmt.Sprintf("%s_%s%s", req.Target.Platform, req.Target.ID, filepath.Ext(path)),
		ContentType: req.Format.ContentType(),
		Data:        data,
	}, nil
}

// retrieveTrack cannot predict the output name, so it diffs the directory
// around the run. Concurrent track downloads into the same directory can
// pick up each other's files.
func (d *Downloader) retrieveTrack(ctx context.Context, req models.DownloadRequest) (*models.RetrievedFile, error) {
	dir := d.config.TempDir
	started := time.Now()

	before, err := TakeSnapshot(dir)
	if err != nil {
		utils.LogWarn(ctx, "Failed to list download directory before run", utils.Fields{
			"dir":   dir,
			"error": err.Error(),
		})
	}

	result, err := d.music.Download(ctx, req.Target, dir)
	if err != nil {
		return nil, err
	}

	if err := d.sleep(ctx, d.config.FlushDelay); err != nil {
		return nil, err
	}

	path, ok := ResolveNewFile(dir, before, NewFileCriteria{
		Extensions: musicExtensions,
		MaxSize:    d.config.MaxMusicFileSize,
		NotBefore:  started.Add(-snapshotClockSkew),
	})
	if !ok {
		return nil, &OutputNotFoundError{
			Tool:       "spotdl",
			Dir:        dir,
			Diagnostic: runner.Truncate(result.Diagnostic(), runner.MaxDiagnosticLength),
		}
	}

	data, err := d.readAndRemove(ctx, path)
	if err != nil {
		return nil, err
	}

	return &models.RetrievedFile{
		FileName:    trackFileName(filepath.Base(path), data),
		ContentType: models.FormatAudio.ContentType(),
		Data:        data,
	}, nil
}

// readAndRemove loads the file and deletes it whether or not the read worked.
func (d *Downloader) readAndRemove(ctx context.Context, path string) ([]byte, error) {
	data, readErr := os.ReadFile(path)
	if err := os.Remove(path); err != nil {
		utils.LogWarn(ctx, "Failed to remove temporary file", utils.Fields{
			"path":  path,
			"error": err.Error(),
		})
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read downloaded file: %w", readErr)
	}
	return data, nil
}

func (d *Downloader) archive(ctx context.Context, target models.PlatformURL, file *models.RetrievedFile) {
	ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	key := ArchiveKey(d.archivePrefix, target, file.FileName)

	exists, err := d.storage.Exists(ctx, key)
	if err != nil {
		utils.LogWarn(ctx, "Failed to check archive, uploading anyway", utils.Fields{
			"key":   key,
			"error": err.Error(),
		})
	}
	if exists {
		utils.LogDebug(ctx, "File already archived", utils.Fields{"key": key})
		return
	}

	metadata := map[string]string{
		"archive_id": uuid.New().String(),
		"platform":   string(target.Platform),
		"media_id":   target.ID,
		"file_name":  file.FileName,
		"source_url": target.RawURL,
	}

	if err := d.storage.UploadWithMetadata(ctx, key, bytes.NewReader(file.Data), file.ContentType, metadata); err != nil {
		utils.LogError(ctx, "Failed to archive retrieved file", err, utils.Fields{
			"key": key,
		})
		return
	}

	utils.LogInfo(ctx, "Archived retrieved file", utils.Fields{
		"bucket": d.storage.BucketName(),
		"key":    key,
	})
}

// ArchiveKey is <prefix>/<platform>/<id>/<file name>.
func ArchiveKey(prefix string, target models.PlatformURL, fileName string) string {
	parts := []string{string(target.Platform), target.ID, fileName}
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		parts = append([]string{prefix}, parts...)
	}
	return strings.Join(parts, "/")
}

func sanitizeFileName(filename, ext string) string {
	// Remove or replace invalid characters for file names
	invalidChars := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\r", "\n"}
	sanitized := filename
	for _, char := range invalidChars {
		sanitized = strings.ReplaceAll(sanitized, char, "_")
	}

	// Ensure the filename carries the expected extension
	if ext != "" && !strings.HasSuffix(strings.ToLower(sanitized), strings.ToLower(ext)) {
		sanitized = strings.TrimSuffix(sanitized, filepath.Ext(sanitized))
		sanitized += ext
	}

	// Limit filename length
	if len(sanitized) > 200 {
		ext := filepath.Ext(sanitized)
		base := sanitized[:200-len(ext)]
		sanitized = base + ext
	}

	return sanitized
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
