package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/denisAlshanov/mediagrab/internal/models"
	"github.com/denisAlshanov/mediagrab/internal/services/classifier"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

type fakeExtractor struct {
	targets []models.PlatformURL
}

func (f *fakeExtractor) FetchMetadata(_ context.Context, target models.PlatformURL) (*models.MediaDescriptor, error) {
	f.targets = append(f.targets, target)
	return &models.MediaDescriptor{Platform: target.Platform, Title: "from extractor"}, nil
}

type fakeMusic struct {
	targets []models.PlatformURL
}

func (f *fakeMusic) Search(_ context.Context, target models.PlatformURL) (*models.MediaDescriptor, error) {
	f.targets = append(f.targets, target)
	return &models.MediaDescriptor{Platform: models.PlatformSpotify, Title: "from music"}, nil
}

func TestFetchInfoDispatch(t *testing.T) {
	testCases := []struct {
		name      string
		link      string
		wantTitle string
	}{
		{"youtube", "https://youtu.be/dQw4w9WgXcQ", "from extractor"},
		{"instagram", "https://www.instagram.com/p/Cabc123/", "from extractor"},
		{"spotify track", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", "from music"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFetcher(&fakeExtractor{}, &fakeMusic{})
			d, err := f.FetchInfo(context.Background(), tc.link)
			if err != nil {
				t.Fatalf("FetchInfo() error = %v", err)
			}
			if d.Title != tc.wantTitle {
				t.Errorf("Title = %q, want %q", d.Title, tc.wantTitle)
			}
		})
	}
}

func TestFetchInfoSpotifyCollectionsNeverReachTool(t *testing.T) {
	for _, link := range []string{
		"https://open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3",
		"https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
	} {
		t.Run(link, func(t *testing.T) {
			music := &fakeMusic{}
			f := NewFetcher(&fakeExtractor{}, music)

			d, err := f.FetchInfo(context.Background(), link)
			if err != nil {
				t.Fatalf("FetchInfo() error = %v", err)
			}
			if !d.Error || d.Message != SingleTrackOnlyMessage {
				t.Errorf("descriptor = %+v, want inline unsupported flag", d)
			}
			if len(music.targets) != 0 {
				t.Error("music tool must not run for collections")
			}
		})
	}
}

func TestFetchInfoErrors(t *testing.T) {
	testCases := []struct {
		name string
		link string
		code utils.ErrorCode
	}{
		{"malformed", "not a url", utils.ErrorCodeInvalidURL},
		{"unknown platform", "https://vimeo.com/12345", utils.ErrorCodeUnsupportedPlatform},
		{"youtube playlist", "https://www.youtube.com/playlist?list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG", utils.ErrorCodeUnsupportedContent},
		{"youtube without id", "https://www.youtube.com/feed/trending", utils.ErrorCodeInvalidURL},
		{"instagram profile", "https://www.instagram.com/someone/", utils.ErrorCodeInvalidURL},
		{"spotify artist", "https://open.spotify.com/artist/0OdUWJ0sBjDrqHygGUXeCF", utils.ErrorCodeInvalidURL},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			extractor := &fakeExtractor{}
			f := NewFetcher(extractor, &fakeMusic{})

			_, err := f.FetchInfo(context.Background(), tc.link)

			var appErr *utils.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("FetchInfo() error = %v, want *AppError", err)
			}
			if appErr.Code != tc.code {
				t.Errorf("Code = %s, want %s", appErr.Code, tc.code)
			}
			if len(extractor.targets) != 0 {
				t.Error("extractor must not run for rejected links")
			}
		})
	}
}

func TestReject(t *testing.T) {
	testCases := []struct {
		name string
		link string
		code utils.ErrorCode
	}{
		{"video", "https://youtu.be/dQw4w9WgXcQ", ""},
		{"reel", "https://www.instagram.com/reel/Cabc/", ""},
		{"track", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", ""},
		{"album left to caller", "https://open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3", ""},
		{"playlist", "https://www.youtube.com/playlist?list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG", utils.ErrorCodeUnsupportedContent},
		{"lower-case playlist id", "https://youtu.be/plABCDEFGHI", utils.ErrorCodeInvalidURL},
		{"instagram profile", "https://www.instagram.com/someone/", utils.ErrorCodeInvalidURL},
		{"spotify artist", "https://open.spotify.com/artist/0gxyHStUsqpMadRV0Di1Qt", utils.ErrorCodeInvalidURL},
		{"other site", "https://vimeo.com/1", utils.ErrorCodeUnsupportedPlatform},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, err := classifier.Classify(tc.link)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			err = Reject(target, tc.link)
			if tc.code == "" {
				if err != nil {
					t.Errorf("Reject() = %v, want nil", err)
				}
				return
			}
			var appErr *utils.AppError
			if !errors.As(err, &appErr) || appErr.Code != tc.code {
				t.Errorf("Reject() = %v, want code %s", err, tc.code)
			}
		})
	}
}
