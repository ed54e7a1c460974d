package downloader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/denisAlshanov/mediagrab/internal/models"
)

const videoID = "dQw4w9WgXcQ"

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveOutputPrefersPlainTargetContainer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, videoID+".f140.m4a", 1)
	writeFile(t, dir, videoID+".f299.mp4", 1)
	writeFile(t, dir, videoID+".mkv", 1)
	writeFile(t, dir, videoID+".mp4.part", 1)

	// The expected path is absent, so ranking decides.
	got, err := ResolveOutput(dir, videoID, models.FormatVideo, "")
	if err != nil {
		t.Fatalf("ResolveOutput() error = %v", err)
	}
	if filepath.Base(got) != videoID+".mkv" {
		t.Errorf("ResolveOutput() = %s, want %s.mkv", filepath.Base(got), videoID)
	}
}

func TestResolveOutputSelectsMergedMP4(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, videoID+".f140.m4a", 1)
	writeFile(t, dir, videoID+".f299.mp4", 1)
	writeFile(t, dir, videoID+".mp4", 1)

	got, err := ResolveOutput(dir, videoID, models.FormatVideo, "")
	if err != nil {
		t.Fatalf("ResolveOutput() error = %v", err)
	}
	if filepath.Base(got) != videoID+".mp4" {
		t.Errorf("ResolveOutput() = %s, want %s.mp4", filepath.Base(got), videoID)
	}
}

func TestRankCandidates(t *testing.T) {
	names := []string{videoID + ".f140.m4a", videoID + ".f299.mp4", videoID + ".webm", videoID + ".mp4"}
	rankCandidates(names, rankRules(models.FormatVideo))

	want := []string{videoID + ".mp4", videoID + ".webm", videoID + ".f299.mp4", videoID + ".f140.m4a"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ranked = %v, want %v", names, want)
		}
	}
}

func TestResolveOutputAudioFallsBackToOtherContainer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, videoID+".webm", 1)
	writeFile(t, dir, "other.mp3", 1)

	got, err := ResolveOutput(dir, videoID, models.FormatAudio, "")
	if err != nil {
		t.Fatalf("ResolveOutput() error = %v", err)
	}
	if filepath.Base(got) != videoID+".webm" {
		t.Errorf("ResolveOutput() = %s", filepath.Base(got))
	}
}

func TestResolveOutputSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, videoID+".mp4"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, videoID+".f299.mp4", 1)

	got, err := ResolveOutput(dir, videoID, models.FormatVideo, "")
	if err != nil {
		t.Fatalf("ResolveOutput() error = %v", err)
	}
	if filepath.Base(got) != videoID+".f299.mp4" {
		t.Errorf("ResolveOutput() = %s", filepath.Base(got))
	}
}

func TestResolveOutputEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	diagnostic := strings.Repeat("e", 1000)

	_, err := ResolveOutput(dir, videoID, models.FormatVideo, diagnostic)

	var notFound *OutputNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("ResolveOutput() error = %v, want *OutputNotFoundError", err)
	}
	if notFound.Prefix != videoID || notFound.Dir != dir {
		t.Errorf("error = %+v", notFound)
	}
	if len(notFound.Diagnostic) != 500 {
		t.Errorf("len(Diagnostic) = %d, want 500", len(notFound.Diagnostic))
	}
	if !strings.Contains(err.Error(), "output file not found") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestResolveOutputIgnoresSimilarIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, videoID+"x.mp4", 1)

	if _, err := ResolveOutput(dir, videoID, models.FormatVideo, ""); err == nil {
		t.Error("a longer id sharing the prefix must not resolve")
	}
}

func TestResolveNewFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Old Artist - Old Song.mp3", 10)

	snap, err := TakeSnapshot(dir)
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now()

	writeFile(t, dir, "notes.txt", 10)
	writeFile(t, dir, "Huge - Mix.mp3", 2000)
	stale := writeFile(t, dir, "Stale - Track.flac", 10)
	if err := os.Chtimes(stale, start.Add(-time.Hour), start.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	first := writeFile(t, dir, "Artist - Song.mp3", 10)
	if err := os.Chtimes(first, start.Add(-time.Second), start.Add(-time.Second)); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "Artist - Later.M4A", 10)

	got, ok := ResolveNewFile(dir, snap, NewFileCriteria{
		Extensions: musicExtensions,
		MaxSize:    1000,
		NotBefore:  start.Add(-snapshotClockSkew),
	})
	if !ok {
		t.Fatal("ResolveNewFile() found nothing")
	}
	if got != first {
		t.Errorf("ResolveNewFile() = %s, want %s", got, first)
	}
}

func TestResolveNewFileNothingNew(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Artist - Song.mp3", 10)
	snap, _ := TakeSnapshot(dir)

	if _, ok := ResolveNewFile(dir, snap, NewFileCriteria{Extensions: musicExtensions}); ok {
		t.Error("pre-existing files must never resolve")
	}
}

func TestSanitizeFileName(t *testing.T) {
	testCases := []struct {
		in, ext, want string
	}{
		{`AC/DC - Back "In" Black.mp3`, ".mp3", "AC_DC - Back _In_ Black.mp3"},
		{"Artist - Song.m4a", ".m4a", "Artist - Song.m4a"},
		{"Artist - Song", ".mp3", "Artist - Song.mp3"},
	}
	for _, tc := range testCases {
		if got := sanitizeFileName(tc.in, tc.ext); got != tc.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	long := sanitizeFileName(strings.Repeat("a", 300)+".mp3", ".mp3")
	if len(long) != 200 || !strings.HasSuffix(long, ".mp3") {
		t.Errorf("long name = %d chars, suffix ok = %v", len(long), strings.HasSuffix(long, ".mp3"))
	}
}
