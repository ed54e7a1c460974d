package musictool

import (
	"testing"

	"github.com/denisAlshanov/mediagrab/internal/models"
)

var track = models.PlatformURL{
	Platform: models.PlatformSpotify,
	RawURL:   "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
	ID:       "4uLU6hMCjMI75M1A2tKUQC",
	Kind:     models.SpotifyKindTrack,
}

func TestParseRecords(t *testing.T) {
	output := `Processing query: https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC
{"name": "Never Gonna Give You Up", "artists": ["Rick Astley"]}
not json
{"name": "Second"}
`
	records := ParseRecords(output)
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0]["name"] != "Never Gonna Give You Up" {
		t.Errorf("first record = %v", records[0])
	}
}

func TestDescribeTitles(t *testing.T) {
	testCases := []struct {
		name   string
		record map[string]any
		want   string
	}{
		{
			name:   "artist objects",
			record: map[string]any{"name": "Song", "artists": []any{map[string]any{"name": "A"}, map[string]any{"name": "B"}}},
			want:   "A - Song",
		},
		{
			name:   "artist field",
			record: map[string]any{"title": "Song", "artist": "Solo"},
			want:   "Solo - Song",
		},
		{
			name:   "artist strings",
			record: map[string]any{"song": "Song", "artists": []any{"A", "B"}},
			want:   "A, B - Song",
		},
		{
			name:   "no artist",
			record: map[string]any{"track_name": "Song"},
			want:   "Song",
		},
		{
			name:   "nothing",
			record: map[string]any{},
			want:   "Unknown Track",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Describe(tc.record, track)
			if d.Title != tc.want {
				t.Errorf("Title = %q, want %q", d.Title, tc.want)
			}
			if d.Platform != models.PlatformSpotify || d.SpotifyID != track.ID || d.SpotifyType != models.SpotifyKindTrack {
				t.Errorf("descriptor identity = %+v", d)
			}
			if d.Formats.Video || !d.Formats.Audio {
				t.Errorf("Formats = %+v, want audio only", d.Formats)
			}
		})
	}
}

func TestDescribeThumbnailAndDuration(t *testing.T) {
	d := Describe(map[string]any{"name": "Song", "cover_url": "https://i.scdn.co/image/x", "duration": 213.0}, track)
	if d.Thumbnail == nil || *d.Thumbnail != "https://i.scdn.co/image/x" {
		t.Errorf("Thumbnail = %v, want cover_url", d.Thumbnail)
	}
	if d.Duration == nil || *d.Duration != 213 {
		t.Errorf("Duration = %v, want 213", d.Duration)
	}
}
