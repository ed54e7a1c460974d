// Package extractor drives the video/audio extractor tool (yt-dlp) for
// metadata dumps and downloads.
package extractor

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/denisAlshanov/mediagrab/internal/config"
	"github.com/denisAlshanov/mediagrab/internal/models"
	"github.com/denisAlshanov/mediagrab/internal/services/classifier"
	"github.com/denisAlshanov/mediagrab/internal/services/runner"
)

const (
	ToolName    = "yt-dlp"
	InstallHint = "pip install yt-dlp"

	versionTimeout = 15 * time.Second
)

type Client struct {
	cascade       *runner.Cascade
	launchers     []runner.Launcher
	download      config.DownloadConfig
	jsRuntime     string
	sharedNetwork func() bool
}

// NewClient tries the standalone executable first, then each interpreter
// running the extractor module.
func NewClient(cascade *runner.Cascade, tools config.ToolsConfig, download config.DownloadConfig) *Client {
	interpreters := tools.Interpreters
	if len(interpreters) == 0 {
		interpreters = runner.Interpreters(runtime.GOOS)
	}

	var launchers []runner.Launcher
	if tools.ExtractorBinary != "" {
		launchers = append(launchers, runner.Standalone(runtime.GOOS, tools.ExtractorBinary))
	}
	launchers = append(launchers, runner.PythonModule(interpreters, tools.ExtractorModule)...)

	return &Client{
		cascade:       cascade,
		launchers:     launchers,
		download:      download,
		jsRuntime:     tools.JSRuntime,
		sharedNetwork: config.SharedNetworkOrigin,
	}
}

// SourceURL is the link handed to the tool. Video-site links are rewritten
// to the canonical watch page.
func SourceURL(target models.PlatformURL) string {
	if target.Platform == models.PlatformYouTube && target.ID != "" {
		return classifier.NormalizeYouTubeURL(target.ID)
	}
	return target.RawURL
}

func (c *Client) operation(target models.PlatformURL, timeout time.Duration, args []string) runner.Operation {
	op := runner.Operation{
		Tool:        ToolName,
		InstallHint: InstallHint,
		Launchers:   c.launchers,
		Timeout:     timeout,
		BuildArgs: func(runner.Attempt) []string {
			return args
		},
	}

	if target.Platform == models.PlatformYouTube {
		shared := c.sharedNetwork()
		opts := AntiBotOptions{SharedNetwork: shared, JSRuntime: c.jsRuntime}
		op.RetryThrottled = true
		op.Backoff = runner.PolicyFor(shared)
		op.Capability = c.jsRuntime != ""
		op.BuildArgs = func(a runner.Attempt) []string {
			return append(AntiBotArgs(a, opts), args...)
		}
	}

	return op
}

// FetchMetadata dumps and normalizes the record for a single item.
func (c *Client) FetchMetadata(ctx context.Context, target models.PlatformURL) (*models.MediaDescriptor, error) {
	op := c.operation(target, c.download.MetadataTimeout, MetadataArgs(SourceURL(target)))

	result, err := c.cascade.Run(ctx, op)
	if err != nil {
		return nil, err
	}

	record, err := ParseLastJSON(result.Stdout)
	if err != nil {
		return nil, err
	}

	return Normalize(target.Platform, record), nil
}

// Download writes the media to outputPath, which the tool may not honour
// exactly. The returned result carries the tool's output for diagnostics.
func (c *Client) Download(ctx context.Context, target models.PlatformURL, format models.MediaFormat, quality models.Quality, outputPath string) (*runner.Result, error) {
	op := c.operation(target, c.download.DownloadTimeout, DownloadArgs(SourceURL(target), outputPath, format, quality))
	return c.cascade.Run(ctx, op)
}

// Version reports the installed extractor version.
func (c *Client) Version(ctx context.Context) (string, error) {
	result, err := c.cascade.Run(ctx, runner.Operation{
		Tool:        ToolName,
		InstallHint: InstallHint,
		Launchers:   c.launchers,
		Timeout:     versionTimeout,
		BuildArgs: func(runner.Attempt) []string {
			return []string{"--version"}
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}
