package downloader

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// trackTags reads artist and title from an ID3v2 header, if any.
func trackTags(data []byte) (artist, title string) {
	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Artist", "Title"},
	})
	if err != nil {
		return "", ""
	}
	defer tag.Close()

	return strings.TrimSpace(tag.Artist()), strings.TrimSpace(tag.Title())
}

// trackFileName keeps the tool's "Artist - Title" name and only falls back
// to the tags when the tool produced something else.
func trackFileName(toolName string, data []byte) string {
	ext := filepath.Ext(toolName)
	if strings.Contains(strings.TrimSuffix(toolName, ext), " - ") {
		return sanitizeFileName(toolName, ext)
	}

	artist, title := trackTags(data)
	switch {
	case artist != "" && title != "":
		return sanitizeFileName(artist+" - "+title+ext, ext)
	case title != "":
		return sanitizeFileName(title+ext, ext)
	default:
		return sanitizeFileName(toolName, ext)
	}
}
