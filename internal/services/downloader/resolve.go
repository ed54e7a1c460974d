package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/denisAlshanov/mediagrab/internal/models"
	"github.com/denisAlshanov/mediagrab/internal/services/runner"
)

// OutputNotFoundError means the tool exited cleanly but no output file could
// be located.
type OutputNotFoundError struct {
	Tool       string
	Prefix     string
	Dir        string
	Diagnostic string
}

func (e *OutputNotFoundError) Error() string {
	if e.Prefix == "" {
		return fmt.Sprintf("%s completed but no new audio file was found in %s. Error output: %s", e.Tool, e.Dir, e.Diagnostic)
	}
	return fmt.Sprintf("%s completed but output file not found. Searched for files starting with %q in %s. Error output: %s",
		e.Tool, e.Prefix, e.Dir, e.Diagnostic)
}

var (
	formatIDSuffix    = regexp.MustCompile(`\.f\d+\.`)
	partialExtensions = []string{".part", ".ytdl"}

	probeExtensions = map[models.MediaFormat][]string{
		models.FormatAudio: {".mp3", ".m4a", ".webm", ".opus", ".ogg"},
		models.FormatVideo: {".mp4", ".webm", ".mkv", ".m4v", ".flv", ".avi"},
	}
)

// rankRule is a preference; candidates satisfying it sort first.
type rankRule func(name string) bool

func rankRules(format models.MediaFormat) []rankRule {
	rules := []rankRule{
		func(name string) bool { return !formatIDSuffix.MatchString(name) },
	}
	if format == models.FormatVideo {
		ext := "." + format.Extension()
		rules = append(rules, func(name string) bool {
			return strings.HasSuffix(strings.ToLower(name), ext)
		})
	}
	return rules
}

func rankCandidates(names []string, rules []rankRule) {
	slices.SortStableFunc(names, func(a, b string) int {
		for _, rule := range rules {
			ra, rb := rule(a), rule(b)
			if ra && !rb {
				return -1
			}
			if rb && !ra {
				return 1
			}
		}
		return 0
	})
}

func isPartial(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range partialExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ResolveOutput finds the file the extractor wrote for id. The expected
// name wins; otherwise entries prefixed by the id are ranked, and as a last
// resort a fixed list of extensions is probed.
func ResolveOutput(dir, id string, format models.MediaFormat, diagnostic string) (string, error) {
	expected := filepath.Join(dir, id+"."+format.Extension())
	if isRegularFile(expected) {
		return expected, nil
	}

	var candidates []string
	if entries, err := os.ReadDir(dir); err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, id+".") && !isPartial(name) {
				candidates = append(candidates, name)
			}
		}
	}

	rankCandidates(candidates, rankRules(format))
	for _, name := range candidates {
		if path := filepath.Join(dir, name); isRegularFile(path) {
			return path, nil
		}
	}

	for _, ext := range probeExtensions[format] {
		if path := filepath.Join(dir, id+ext); isRegularFile(path) {
			return path, nil
		}
	}

	return "", &OutputNotFoundError{
		Tool:       "yt-dlp",
		Prefix:     id,
		Dir:        dir,
		Diagnostic: runner.Truncate(diagnostic, runner.MaxDiagnosticLength),
	}
}

// Snapshot is the set of entry names present in a directory.
type Snapshot map[string]struct{}

func TakeSnapshot(dir string) (Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Snapshot{}, err
	}
	snap := make(Snapshot, len(entries))
	for _, entry := range entries {
		snap[entry.Name()] = struct{}{}
	}
	return snap, nil
}

// NewFileCriteria filters files that appeared after a snapshot.
type NewFileCriteria struct {
	Extensions []string
	MaxSize    int64
	NotBefore  time.Time
}

// ResolveNewFile picks the earliest-written qualifying file absent from
// before. Modification time stands in for creation time.
func ResolveNewFile(dir string, before Snapshot, criteria NewFileCriteria) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var (
		best     string
		bestTime time.Time
	)
	for _, entry := range entries {
		name := entry.Name()
		if _, existed := before[name]; existed {
			continue
		}
		if !slices.Contains(criteria.Extensions, strings.ToLower(filepath.Ext(name))) {
			continue
		}

		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if criteria.MaxSize > 0 && info.Size() > criteria.MaxSize {
			continue
		}
		if info.ModTime().Before(criteria.NotBefore) {
			continue
		}

		if best == "" || info.ModTime().Before(bestTime) {
			best, bestTime = name, info.ModTime()
		}
	}

	if best == "" {
		return "", false
	}
	return filepath.Join(dir, best), true
}
