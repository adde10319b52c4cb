package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.toml"))

	if cfg.ProgressBarLength != 50 {
		t.Errorf("ProgressBarLength = %d, want 50", cfg.ProgressBarLength)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", cfg.PollInterval, DefaultPollInterval)
	}
	if cfg.Color(RegionCurrentLyric) != "bright_cyan" {
		t.Errorf("current_lyric color = %q", cfg.Color(RegionCurrentLyric))
	}
	if !cfg.ShowNext {
		t.Error("ShowNext should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[colors]
current_lyric = "#FF00FF"
unknown_region = "red"

[ui]
progress_bar_length = 30
show_next = false

[loop]
poll_interval = "500ms"
render_interval = "50ms"

[player]
mpris_service = "org.mpris.MediaPlayer2.mpv"

[lyrics]
sources = ["lrclib"]
`)

	cfg := Load(path)

	if cfg.Color(RegionCurrentLyric) != "#FF00FF" {
		t.Errorf("current_lyric = %q", cfg.Color(RegionCurrentLyric))
	}
	if cfg.ProgressBarLength != 30 {
		t.Errorf("ProgressBarLength = %d", cfg.ProgressBarLength)
	}
	if cfg.ShowNext {
		t.Error("ShowNext should be false")
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.RenderInterval != 50*time.Millisecond {
		t.Errorf("RenderInterval = %v", cfg.RenderInterval)
	}
	if cfg.MprisService != "org.mpris.MediaPlayer2.mpv" {
		t.Errorf("MprisService = %q", cfg.MprisService)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "lrclib" {
		t.Errorf("Sources = %v", cfg.Sources)
	}
	// untouched regions keep their defaults
	if cfg.Color(RegionDim) != "bright_black" {
		t.Errorf("dim = %q", cfg.Color(RegionDim))
	}
}

func TestLoadClampsSmallValues(t *testing.T) {
	path := writeConfig(t, `
[ui]
width = 10
progress_bar_length = 2

[loop]
poll_interval = "1ms"
`)

	cfg := Load(path)

	if cfg.Width != minWidth {
		t.Errorf("Width = %d, want clamp to %d", cfg.Width, minWidth)
	}
	if cfg.ProgressBarLength != minBarLength {
		t.Errorf("ProgressBarLength = %d, want clamp to %d", cfg.ProgressBarLength, minBarLength)
	}
	if cfg.PollInterval != minInterval {
		t.Errorf("PollInterval = %v, want clamp to %v", cfg.PollInterval, minInterval)
	}
}

func TestLoadInvalidIntervalKeepsDefault(t *testing.T) {
	path := writeConfig(t, `
[loop]
render_interval = "soon"
`)

	cfg := Load(path)
	if cfg.RenderInterval != DefaultRenderInterval {
		t.Errorf("RenderInterval = %v, want default", cfg.RenderInterval)
	}
}

func TestLoadMalformedFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "not [valid toml ==")

	cfg := Load(path)
	if cfg.MprisService != DefaultMprisService {
		t.Errorf("MprisService = %q, want default", cfg.MprisService)
	}
}

func TestPathPrecedence(t *testing.T) {
	if got := Path("/explicit/path.toml"); got != "/explicit/path.toml" {
		t.Errorf("explicit path = %q", got)
	}

	t.Setenv("LYRTRACK_CONFIG", "/env/config.toml")
	if got := Path(""); got != "/env/config.toml" {
		t.Errorf("env path = %q", got)
	}

	t.Setenv("LYRTRACK_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := Path(""); got != filepath.Join("/xdg", "lyrtrack", "config.toml") {
		t.Errorf("xdg path = %q", got)
	}
}
