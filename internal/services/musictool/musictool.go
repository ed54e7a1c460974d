// Package musictool drives the music downloader (spotdl), which resolves a
// music-service track through a search on the video site.
package musictool

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/denisAlshanov/mediagrab/internal/config"
	"github.com/denisAlshanov/mediagrab/internal/models"
	"github.com/denisAlshanov/mediagrab/internal/services/runner"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

const (
	ToolName    = "spotdl"
	InstallHint = "pip install spotdl"

	versionTimeout = 15 * time.Second
)

type Client struct {
	cascade   *runner.Cascade
	launchers []runner.Launcher
	download  config.DownloadConfig
}

func NewClient(cascade *runner.Cascade, tools config.ToolsConfig, download config.DownloadConfig) *Client {
	interpreters := tools.Interpreters
	if len(interpreters) == 0 {
		interpreters = runner.Interpreters(runtime.GOOS)
	}
	return &Client{
		cascade:   cascade,
		launchers: runner.PythonModule(interpreters, tools.MusicModule),
		download:  download,
	}
}

func (c *Client) operation(timeout time.Duration, args ...string) runner.Operation {
	return runner.Operation{
		Tool:        ToolName,
		InstallHint: InstallHint,
		Launchers:   c.launchers,
		Timeout:     timeout,
		BuildArgs: func(runner.Attempt) []string {
			return args
		},
	}
}

// Search resolves track metadata. Only a missing tool or a cancelled request
// is an error; every other failure degrades to a placeholder descriptor.
func (c *Client) Search(ctx context.Context, target models.PlatformURL) (*models.MediaDescriptor, error) {
	result, err := c.cascade.Run(ctx, c.operation(c.download.MetadataTimeout, "search", target.RawURL, "--print-json"))
	if err != nil {
		var failure *runner.Failure
		if !errors.As(err, &failure) || failure.Kind == runner.FailureToolUnavailable {
			return nil, err
		}
		utils.LogWarn(ctx, "Music search failed, returning placeholder", utils.Fields{
			"spotify_id": target.ID,
			"reason":     failure.Message,
		})
		return Placeholder(target, FallbackTitle, FallbackNote), nil
	}

	records := ParseRecords(result.Stdout)
	if len(records) == 0 {
		utils.LogWarn(ctx, "Music search returned no JSON records", utils.Fields{
			"spotify_id": target.ID,
		})
		return Placeholder(target, PendingTitle, PendingNote), nil
	}

	return Describe(records[0], target), nil
}

// Download writes the track into dir under a name the tool chooses.
func (c *Client) Download(ctx context.Context, target models.PlatformURL, dir string) (*runner.Result, error) {
	return c.cascade.Run(ctx, c.operation(c.download.MusicTimeout, target.RawURL, "--output", dir, "--output-format", "mp3"))
}

func (c *Client) Version(ctx context.Context) (string, error) {
	result, err := c.cascade.Run(ctx, c.operation(versionTimeout, "--version"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}
