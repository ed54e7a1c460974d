package downloader

import (
	"bytes"
	"testing"

	"github.com/bogem/id3v2"
)

func taggedAudio(t *testing.T, artist, title string) []byte {
	t.Helper()
	tag := id3v2.NewEmptyTag()
	tag.SetArtist(artist)
	tag.SetTitle(title)

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{0xFF, 0xFB, 0x90, 0x00})
	return buf.Bytes()
}

func TestTrackFileName(t *testing.T) {
	tagged := taggedAudio(t, "Rick Astley", "Never Gonna Give You Up")

	testCases := []struct {
		name     string
		toolName string
		data     []byte
		want     string
	}{
		{"tool name kept", "Some Artist - Some Song.mp3", tagged, "Some Artist - Some Song.mp3"},
		{"tags fill in", "4uLU6hMCjMI75M1A2tKUQC.mp3", tagged, "Rick Astley - Never Gonna Give You Up.mp3"},
		{"no tags", "track.mp3", []byte("not an id3 file"), "track.mp3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := trackFileName(tc.toolName, tc.data); got != tc.want {
				t.Errorf("trackFileName() = %q, want %q", got, tc.want)
			}
		})
	}
}
