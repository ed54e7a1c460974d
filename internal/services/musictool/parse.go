package musictool

import (
	"encoding/json"
	"strings"

	"github.com/denisAlshanov/mediagrab/internal/models"
	"github.com/denisAlshanov/mediagrab/internal/services/extractor"
)

const (
	unknownTrackTitle = "Unknown Track"

	PendingTitle = "Loading track info..."
	PendingNote  = "Fetching track information..."

	FallbackTitle = "Spotify Track"
	FallbackNote  = "Track name will be shown after download"
)

// ParseRecords decodes newline-delimited JSON objects, skipping lines that
// do not decode.
func ParseRecords(output string) []map[string]any {
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err == nil && record != nil {
			records = append(records, record)
		}
	}
	return records
}

// Describe builds a descriptor from a search record. The title is
// "Artist - Name" when an artist is known.
func Describe(record map[string]any, target models.PlatformURL) *models.MediaDescriptor {
	title := extractor.FirstString(record, "name", "title", "song", "track_name", "display_name")
	if title == "" {
		title = unknownTrackTitle
	}
	if artist := artistName(record); artist != "" {
		title = artist + " - " + title
	}

	d := trackDescriptor(target, title)
	d.Thumbnail = extractor.PickThumbnail(record, "cover_url")
	d.Duration = extractor.Duration(record)
	d.Description = extractor.FirstString(record, "description")
	return d
}

// Placeholder is returned when the search could not produce a usable record.
func Placeholder(target models.PlatformURL, title, note string) *models.MediaDescriptor {
	d := trackDescriptor(target, title)
	d.Note = note
	return d
}

func trackDescriptor(target models.PlatformURL, title string) *models.MediaDescriptor {
	return &models.MediaDescriptor{
		Platform:    models.PlatformSpotify,
		Title:       title,
		Formats:     models.FormatAvailability{Audio: true},
		SpotifyType: target.Kind,
		SpotifyID:   target.ID,
	}
}

func artistName(record map[string]any) string {
	artists, _ := record["artists"].([]any)
	if len(artists) > 0 {
		if first, ok := artists[0].(map[string]any); ok {
			if name, ok := first["name"].(string); ok && name != "" {
				return name
			}
		}
	}

	if artist := extractor.FirstString(record, "artist"); artist != "" {
		return artist
	}

	names := make([]string, 0, len(artists))
	for _, a := range artists {
		switch v := a.(type) {
		case string:
			names = append(names, v)
		case map[string]any:
			if name, ok := v["name"].(string); ok {
				names = append(names, name)
			}
		}
	}
	return strings.Join(names, ", ")
}
