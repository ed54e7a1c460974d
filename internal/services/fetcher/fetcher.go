// Package fetcher resolves a pasted link into display metadata.
package fetcher

import (
	"context"

	"github.com/denisAlshanov/mediagrab/internal/models"
	"github.com/denisAlshanov/mediagrab/internal/services/classifier"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

const (
	SingleTrackOnlyMessage = "Only single track downloads are supported. Please use a Spotify track URL instead of a playlist or album URL."
	PlaylistMessage        = "Playlists are not supported. Please use a single video URL."
)

type MetadataSource interface {
	FetchMetadata(ctx context.Context, target models.PlatformURL) (*models.MediaDescriptor, error)
}

type TrackSearcher interface {
	Search(ctx context.Context, target models.PlatformURL) (*models.MediaDescriptor, error)
}

type Fetcher struct {
	extractor MetadataSource
	music     TrackSearcher
}

func NewFetcher(extractor MetadataSource, music TrackSearcher) *Fetcher {
	return &Fetcher{
		extractor: extractor,
		music:     music,
	}
}

// FetchInfo classifies rawURL and asks the matching tool for metadata.
// Music-service albums and playlists yield a descriptor flagged as an error
// instead of a failure.
func (f *Fetcher) FetchInfo(ctx context.Context, rawURL string) (*models.MediaDescriptor, error) {
	target, err := classifier.Classify(rawURL)
	if err != nil {
		return nil, utils.NewInvalidURLError("Invalid URL format", rawURL)
	}

	utils.LogInfo(ctx, "Fetching media info", utils.Fields{
		"platform": target.Platform,
		"media_id": target.ID,
	})

	if err := Reject(target, rawURL); err != nil {
		return nil, err
	}

	if target.Platform == models.PlatformSpotify {
		if target.Kind != models.SpotifyKindTrack {
			return UnsupportedCollection(target), nil
		}
		return f.music.Search(ctx, target)
	}
	return f.extractor.FetchMetadata(ctx, target)
}

// Reject explains why a classified link cannot be fetched or downloaded.
// Music-service albums and playlists are left to the caller, which answers
// them differently for fetch and download.
func Reject(target models.PlatformURL, rawURL string) error {
	if target.Actionable() {
		return nil
	}

	switch target.Platform {
	case models.PlatformYouTube:
		if classifier.LooksLikePlaylist(rawURL) {
			return utils.NewUnsupportedContentError(PlaylistMessage)
		}
		return utils.NewInvalidURLError("Could not extract video ID from URL. Please ensure you are using a valid YouTube video URL.", rawURL)
	case models.PlatformInstagram:
		return utils.NewInvalidURLError("Invalid Instagram URL", rawURL)
	case models.PlatformSpotify:
		if target.ID == "" {
			return utils.NewInvalidURLError("Invalid Spotify URL. Please provide a valid track URL.", rawURL)
		}
		return nil
	default:
		return utils.NewUnsupportedPlatformError()
	}
}

// UnsupportedCollection is the inline answer for album and playlist links.
func UnsupportedCollection(target models.PlatformURL) *models.MediaDescriptor {
	return &models.MediaDescriptor{
		Platform:    models.PlatformSpotify,
		Title:       "Playlist/Album Not Supported",
		Formats:     models.FormatAvailability{Audio: true},
		SpotifyType: target.Kind,
		SpotifyID:   target.ID,
		Error:       true,
		Message:     SingleTrackOnlyMessage,
	}
}
