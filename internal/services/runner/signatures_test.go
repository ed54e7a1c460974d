package runner

import (
	"context"
	"testing"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name       string
		diagnostic string
		want       Signature
	}{
		{
			name:       "missing python module",
			diagnostic: "/usr/bin/python3: No module named yt_dlp",
			want:       SignatureInterpreterMissing,
		},
		{
			name:       "posix shell",
			diagnostic: "sh: 1: python: command not found",
			want:       SignatureInterpreterMissing,
		},
		{
			name:       "windows shell",
			diagnostic: "'python3' is not recognized as an internal or external command,\r\noperable program or batch file.",
			want:       SignatureInterpreterMissing,
		},
		{
			name:       "http 429",
			diagnostic: "ERROR: [youtube] dQw4w9WgXcQ: Unable to download API page: HTTP Error 429: Too Many Requests",
			want:       SignatureRateLimited,
		},
		{
			name:       "rate limit wording",
			diagnostic: "WARNING: Rate-limit reached, retry later",
			want:       SignatureRateLimited,
		},
		{
			name:       "bot challenge straight apostrophe",
			diagnostic: "ERROR: [youtube] dQw4w9WgXcQ: Sign in to confirm you're not a bot. Use --cookies-from-browser or --cookies for the authentication.",
			want:       SignatureBotDetected,
		},
		{
			name:       "bot challenge typographic apostrophe",
			diagnostic: "ERROR: [youtube] dQw4w9WgXcQ: Sign in to confirm you’re not a bot",
			want:       SignatureBotDetected,
		},
		{
			name:       "captcha",
			diagnostic: "ERROR: Got a CAPTCHA page",
			want:       SignatureBotDetected,
		},
		{
			name:       "js runtime missing",
			diagnostic: "WARNING: [youtube] No supported JavaScript runtime could be found.",
			want:       SignatureCapabilityUnavailable,
		},
		{
			name:       "old extractor without option",
			diagnostic: "yt-dlp: error: no such option: --js-runtimes",
			want:       SignatureCapabilityUnavailable,
		},
		{
			name:       "unrelated failure",
			diagnostic: "ERROR: [youtube] dQw4w9WgXcQ: Video unavailable",
			want:       SignatureNone,
		},
		{
			name:       "empty",
			diagnostic: "",
			want:       SignatureNone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.diagnostic); got != tc.want {
				t.Errorf("Classify() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRateLimitBeatsBotPhrase(t *testing.T) {
	diagnostic := "HTTP Error 429: Too Many Requests. Sign in to confirm you're not a bot"
	if got := Classify(diagnostic); got != SignatureRateLimited {
		t.Errorf("Classify() = %v, want %v", got, SignatureRateLimited)
	}
}

func TestExecRunnerMissingExecutable(t *testing.T) {
	r := NewExecRunner(0)
	_, err := r.Run(context.Background(), Command{Name: "mediagrab-definitely-not-installed"})
	if err == nil {
		t.Fatal("expected launch error")
	}
	if !IsLaunchNotFound(err) {
		t.Errorf("IsLaunchNotFound(%v) = false", err)
	}
}
