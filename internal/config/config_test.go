package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ARCHIVE_ENABLED", "false")
	t.Setenv("DOWNLOAD_TIMEOUT", "")
	t.Setenv("PYTHON_INTERPRETERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Download.MusicTimeout != 180*time.Second {
		t.Errorf("MusicTimeout = %v, want 3m", cfg.Download.MusicTimeout)
	}
	if cfg.Download.KillGracePeriod != 5*time.Second {
		t.Errorf("KillGracePeriod = %v, want 5s", cfg.Download.KillGracePeriod)
	}
	if cfg.Download.MaxMusicFileSize != 50*1024*1024 {
		t.Errorf("MaxMusicFileSize = %d, want 50MiB", cfg.Download.MaxMusicFileSize)
	}
	if cfg.Tools.Interpreters != nil {
		t.Errorf("Interpreters = %v, want nil so the OS default applies", cfg.Tools.Interpreters)
	}
	if cfg.Tools.ExtractorModule != "yt_dlp" || cfg.Tools.MusicModule != "spotdl" {
		t.Errorf("unexpected tool modules: %+v", cfg.Tools)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("DOWNLOAD_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid DOWNLOAD_TIMEOUT")
	}
}

func TestLoadArchiveRequiresBucket(t *testing.T) {
	t.Setenv("ARCHIVE_ENABLED", "true")
	t.Setenv("S3_BUCKET_NAME", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when archive is enabled without a bucket")
	}
}

func TestInterpreterOverride(t *testing.T) {
	t.Setenv("PYTHON_INTERPRETERS", " python3.12 , python3 ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"python3.12", "python3"}
	if len(cfg.Tools.Interpreters) != len(want) {
		t.Fatalf("Interpreters = %v, want %v", cfg.Tools.Interpreters, want)
	}
	for i := range want {
		if cfg.Tools.Interpreters[i] != want[i] {
			t.Errorf("Interpreters[%d] = %q, want %q", i, cfg.Tools.Interpreters[i], want[i])
		}
	}
}

func TestSharedNetworkOrigin(t *testing.T) {
	for _, key := range sharedNetworkMarkers {
		t.Setenv(key, "")
	}

	t.Setenv("SHARED_NETWORK_ORIGIN", "")
	if SharedNetworkOrigin() {
		t.Error("expected false with no markers")
	}

	t.Setenv("RENDER", "true")
	if !SharedNetworkOrigin() {
		t.Error("expected true when a hosting marker is present")
	}

	t.Setenv("SHARED_NETWORK_ORIGIN", "false")
	if SharedNetworkOrigin() {
		t.Error("explicit SHARED_NETWORK_ORIGIN=false should win over markers")
	}
}
