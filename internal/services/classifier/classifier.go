// Package classifier turns a pasted link into a platform tag and an opaque
// per-platform identifier. It never touches the network.
package classifier

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/denisAlshanov/mediagrab/internal/models"
)

var ErrInvalidURL = errors.New("invalid URL")

// youtubeIDPatterns are tried in order; the first match wins.
var youtubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/shorts/([^&\n?#/]+)`),
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#/]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*?\bv=([^&\n?#]+)`),
}

// Two-letter prefixes used by list identifiers (uploads, likes, mixes, ...),
// matched in any case.
var playlistIDPattern = regexp.MustCompile(`(?i)^(PL|UU|LL|FL|RD|OL|UL|PU)`)

const maxVideoIDLength = 11

var instagramPatterns = []*regexp.Regexp{
	regexp.MustCompile(`instagram\.com/(?:p|reels?|tv)/([^/?#]+)`),
	regexp.MustCompile(`instagram\.com/[^/?#]+/(?:p|reels?|tv)/([^/?#]+)`),
}

type spotifyRule struct {
	kind    models.SpotifyKind
	pattern *regexp.Regexp
}

var spotifyRules = []spotifyRule{
	{models.SpotifyKindTrack, regexp.MustCompile(`spotify\.com/(?:intl-[a-zA-Z-]+/)?track/([a-zA-Z0-9]+)`)},
	{models.SpotifyKindAlbum, regexp.MustCompile(`spotify\.com/(?:intl-[a-zA-Z-]+/)?album/([a-zA-Z0-9]+)`)},
	{models.SpotifyKindPlaylist, regexp.MustCompile(`spotify\.com/(?:intl-[a-zA-Z-]+/)?playlist/([a-zA-Z0-9]+)`)},
}

// Classify parses rawURL and extracts the platform and identifier. The only
// error is ErrInvalidURL; an unrecognised site or an unusable identifier is
// reported through the returned value.
func Classify(rawURL string) (models.PlatformURL, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := parseURL(rawURL)
	if err != nil {
		return models.PlatformURL{}, err
	}

	result := models.PlatformURL{
		Platform: DetectPlatform(u),
		RawURL:   rawURL,
	}

	switch result.Platform {
	case models.PlatformYouTube:
		result.ID = ExtractYouTubeID(rawURL)
	case models.PlatformInstagram:
		result.ID = ExtractInstagramShortcode(rawURL)
	case models.PlatformSpotify:
		result.Kind, result.ID = ExtractSpotifyID(rawURL)
	}

	return result, nil
}

func parseURL(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

// DetectPlatform maps a parsed URL to a platform by hostname.
func DetectPlatform(u *url.URL) models.Platform {
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be"):
		return models.PlatformYouTube
	case strings.Contains(host, "instagram.com"):
		return models.PlatformInstagram
	case strings.Contains(host, "spotify.com"):
		return models.PlatformSpotify
	default:
		return models.PlatformUnknown
	}
}

// IsPlaylistID reports whether id looks like a list identifier rather than a
// single video.
func IsPlaylistID(id string) bool {
	return playlistIDPattern.MatchString(id) || len(id) > maxVideoIDLength
}

// ExtractYouTubeID returns the video id, or "" when none is found or the id
// looks like a playlist.
func ExtractYouTubeID(rawURL string) string {
	for _, pattern := range youtubeIDPatterns {
		matches := pattern.FindStringSubmatch(rawURL)
		if len(matches) < 2 || matches[1] == "" {
			continue
		}
		if IsPlaylistID(matches[1]) {
			return ""
		}
		return matches[1]
	}
	return ""
}

// LooksLikePlaylist is used only to pick a friendlier error message.
func LooksLikePlaylist(rawURL string) bool {
	return strings.Contains(rawURL, "/playlist?") || strings.Contains(rawURL, "list=")
}

// NormalizeYouTubeURL rewrites every accepted shape to the canonical watch page.
func NormalizeYouTubeURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func ExtractInstagramShortcode(rawURL string) string {
	for _, pattern := range instagramPatterns {
		if matches := pattern.FindStringSubmatch(rawURL); len(matches) > 1 && matches[1] != "" {
			return matches[1]
		}
	}
	return ""
}

// ExtractSpotifyID returns the resource kind and id. Albums and playlists are
// returned as-is; callers decide to reject them.
func ExtractSpotifyID(rawURL string) (models.SpotifyKind, string) {
	for _, rule := range spotifyRules {
		if matches := rule.pattern.FindStringSubmatch(rawURL); len(matches) > 1 {
			return rule.kind, matches[1]
		}
	}
	return "", ""
}
