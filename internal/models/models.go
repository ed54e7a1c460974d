package models

// Platform identifies the site a pasted link belongs to. The string values
// are part of the HTTP contract with the browser UI.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformSpotify   Platform = "spotify"
	PlatformUnknown   Platform = "unknown"
)

// SpotifyKind is the resource type inside a music-service link.
type SpotifyKind string

const (
	SpotifyKindTrack    SpotifyKind = "track"
	SpotifyKindAlbum    SpotifyKind = "album"
	SpotifyKindPlaylist SpotifyKind = "playlist"
)

// PlatformURL is the result of classifying a pasted link. ID is empty when
// no usable single-item identifier could be extracted.
type PlatformURL struct {
	Platform Platform
	RawURL   string
	ID       string
	Kind     SpotifyKind
}

// Actionable reports whether downstream fetch or download may proceed.
func (p PlatformURL) Actionable() bool {
	switch p.Platform {
	case PlatformYouTube, PlatformInstagram:
		return p.ID != ""
	case PlatformSpotify:
		return p.ID != "" && p.Kind == SpotifyKindTrack
	default:
		return false
	}
}

type MediaFormat string

const (
	FormatAudio MediaFormat = "audio"
	FormatVideo MediaFormat = "video"
)

// Extension is the container the tools are asked to produce.
func (f MediaFormat) Extension() string {
	if f == FormatAudio {
		return "mp3"
	}
	return "mp4"
}

func (f MediaFormat) ContentType() string {
	if f == FormatAudio {
		return "audio/mpeg"
	}
	return "video/mp4"
}

type Quality string

const (
	QualityBest  Quality = "best"
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
	Quality360p  Quality = "360p"
)

// FormatAvailability mirrors which stream kinds the source exposes.
type FormatAvailability struct {
	Video bool `json:"video"`
	Audio bool `json:"audio"`
}

// MediaDescriptor is the /fetch-info response body. Nullable fields stay
// pointers so the UI receives explicit nulls.
type MediaDescriptor struct {
	Platform    Platform           `json:"platform"`
	Title       string             `json:"title"`
	Thumbnail   *string            `json:"thumbnail"`
	Duration    *float64           `json:"duration"`
	Description string             `json:"description,omitempty"`
	Formats     FormatAvailability `json:"formats"`
	SpotifyType SpotifyKind        `json:"spotifyType,omitempty"`
	SpotifyID   string             `json:"spotifyId,omitempty"`
	Error       bool               `json:"error,omitempty"`
	Message     string             `json:"message,omitempty"`
	Note        string             `json:"note,omitempty"`
}

// DownloadRequestBody is the JSON accepted by POST /download.
type DownloadRequestBody struct {
	URL      string      `json:"url" binding:"required"`
	Format   MediaFormat `json:"format" binding:"required,oneof=audio video"`
	Quality  Quality     `json:"quality" binding:"omitempty,oneof=best 1080p 720p 480p 360p"`
	Platform Platform    `json:"platform"`
}

// DownloadRequest is a validated, classified download order.
type DownloadRequest struct {
	Target  PlatformURL
	Format  MediaFormat
	Quality Quality
}

// RetrievedFile is a downloaded artifact already read into memory; the
// temporary file it came from has been removed.
type RetrievedFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ErrorResponse documents the JSON error body.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
