package extractor

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/denisAlshanov/mediagrab/internal/models"
)

var ErrNoJSON = errors.New("no valid JSON found in extractor output")

// ParseLastJSON scans output from the last line backward and decodes the
// first line that is a JSON object. Progress and warning lines are skipped.
func ParseLastJSON(output string) (map[string]any, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err == nil && record != nil {
			return record, nil
		}
	}
	return nil, ErrNoJSON
}

type fieldRules struct {
	titleKeys          []string
	defaultTitle       string
	thumbnailFallbacks []string
	withDescription    bool
	zeroDuration       bool // missing duration is 0 instead of null
}

var platformFields = map[models.Platform]fieldRules{
	models.PlatformYouTube: {
		titleKeys:       []string{"title", "fulltitle"},
		defaultTitle:    "YouTube Video",
		withDescription: true,
		zeroDuration:    true,
	},
	models.PlatformInstagram: {
		titleKeys:          []string{"title", "description", "fulltitle"},
		defaultTitle:       "Instagram Media",
		thumbnailFallbacks: []string{"display_url", "display_thumb", "image", "thumb"},
	},
}

// Normalize maps a raw extractor record onto the common descriptor.
func Normalize(platform models.Platform, record map[string]any) *models.MediaDescriptor {
	rules := platformFields[platform]

	title := FirstString(record, rules.titleKeys...)
	if title == "" {
		title = rules.defaultTitle
	}

	descriptor := &models.MediaDescriptor{
		Platform:  platform,
		Title:     title,
		Thumbnail: PickThumbnail(record, rules.thumbnailFallbacks...),
		Duration:  Duration(record),
		Formats: models.FormatAvailability{
			Video: CodecPresent(record["vcodec"]),
			Audio: CodecPresent(record["acodec"]),
		},
	}
	if rules.withDescription {
		descriptor.Description = FirstString(record, "description")
	}
	if descriptor.Duration == nil && rules.zeroDuration {
		var zero float64
		descriptor.Duration = &zero
	}
	return descriptor
}

// CodecPresent reports whether a codec field names a real stream.
func CodecPresent(v any) bool {
	codec, ok := v.(string)
	return ok && codec != "" && codec != "none"
}

// FirstString returns the first non-empty string among keys.
func FirstString(record map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := record[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Duration returns the positive numeric duration in seconds, if any.
func Duration(record map[string]any) *float64 {
	if d, ok := record["duration"].(float64); ok && d > 0 {
		return &d
	}
	return nil
}

// PickThumbnail checks "thumbnail", then the last "thumbnails" entry, then
// each fallback key. Array values collapse to their last entry.
func PickThumbnail(record map[string]any, fallbacks ...string) *string {
	candidates := []any{record["thumbnail"], lastElement(record["thumbnails"])}
	for _, key := range fallbacks {
		candidates = append(candidates, record[key])
	}

	for _, candidate := range candidates {
		if url := thumbnailURL(candidate); url != "" {
			return &url
		}
	}
	return nil
}

func thumbnailURL(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		url, _ := t["url"].(string)
		return url
	case []any:
		return thumbnailURL(lastElement(t))
	default:
		return ""
	}
}

func lastElement(v any) any {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}
