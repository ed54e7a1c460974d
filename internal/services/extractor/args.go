package extractor

import (
	"fmt"

	"github.com/denisAlshanov/mediagrab/internal/models"
	"github.com/denisAlshanov/mediagrab/internal/services/runner"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
}

var playerClients = []string{"web", "mweb", "android", "web_safari"}

var qualityHeights = map[models.Quality]int{
	models.Quality1080p: 1080,
	models.Quality720p:  720,
	models.Quality480p:  480,
	models.Quality360p:  360,
}

// FormatSelector prefers H.264 video with AAC audio, then H.264 with any
// audio, then the best of either. Best and unknown qualities carry no height
// filter.
func FormatSelector(quality models.Quality) string {
	height := ""
	if h, ok := qualityHeights[quality]; ok {
		height = fmt.Sprintf("[height<=%d]", h)
	}
	return fmt.Sprintf(
		"bestvideo[vcodec^=avc1]%[1]s+bestaudio[acodec^=mp4a]/bestvideo[vcodec^=avc1]%[1]s+bestaudio/bestvideo%[1]s+bestaudio",
		height,
	)
}

// AntiBotOptions shapes the arguments sent to the video site on every attempt.
type AntiBotOptions struct {
	SharedNetwork bool
	JSRuntime     string
}

// AntiBotArgs draws a fresh user agent and player client for each attempt.
func AntiBotArgs(attempt runner.Attempt, opts AntiBotOptions) []string {
	sleepRequests, sleepInterval, maxSleep := "1", "1", "3"
	if opts.SharedNetwork {
		sleepRequests, sleepInterval, maxSleep = "2", "3", "8"
	}

	args := []string{
		"--user-agent", utils.RandomChoice(userAgents),
		"--extractor-args", "youtube:player_client=" + utils.RandomChoice(playerClients),
		"--sleep-requests", sleepRequests,
		"--sleep-interval", sleepInterval,
		"--max-sleep-interval", maxSleep,
		"--extractor-retries", "3",
	}
	if attempt.Capability && opts.JSRuntime != "" {
		args = append(args, "--js-runtimes", opts.JSRuntime)
	}
	return args
}

// MetadataArgs asks for a single JSON record on stdout.
func MetadataArgs(link string) []string {
	return []string{"--dump-json", "--no-playlist", link}
}

// DownloadArgs builds a download into outputPath. Video merges into mp4;
// audio is re-encoded to mp3 at the best encoder quality.
func DownloadArgs(link, outputPath string, format models.MediaFormat, quality models.Quality) []string {
	args := []string{link, "-o", outputPath, "--no-playlist"}
	if format == models.FormatAudio {
		return append(args, "-x", "--audio-format", "mp3", "--audio-quality", "0")
	}
	return append(args, "-f", FormatSelector(quality), "--merge-output-format", "mp4")
}
