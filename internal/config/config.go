package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMprisService = "org.mpris.MediaPlayer2.spotify"
	DefaultLrclibURL    = "https://lrclib.net/api/get"

	DefaultPollInterval   = 1 * time.Second
	DefaultRenderInterval = 100 * time.Millisecond

	minInterval  = 20 * time.Millisecond
	minWidth     = 40
	minBarLength = 10
)

// regions that accept a color in the [colors] table
const (
	RegionHeader       = "header_border"
	RegionSongInfo     = "song_info"
	RegionTime         = "time"
	RegionSectionTitle = "section_title"
	RegionCurrentLyric = "current_lyric"
	RegionCurrentTrans = "current_trans"
	RegionNextLyric    = "next_lyric"
	RegionNextTrans    = "next_trans"
	RegionDim          = "dim"
)

// tomlConfig mirrors the on-disk file. Interval values are duration strings
// ("250ms", "1s"). Unknown keys are ignored by the decoder.
type tomlConfig struct {
	Colors map[string]string `toml:"colors"`

	UI struct {
		Width             int    `toml:"width"`
		ProgressBarLength int    `toml:"progress_bar_length"`
		ProgressFilled    string `toml:"progress_filled"`
		ProgressEmpty     string `toml:"progress_empty"`
		ShowNext          *bool  `toml:"show_next"`
		HideHeader        *bool  `toml:"hide_header"`
	} `toml:"ui"`

	Loop struct {
		PollInterval   string `toml:"poll_interval"`
		RenderInterval string `toml:"render_interval"`
	} `toml:"loop"`

	Player struct {
		MprisService string `toml:"mpris_service"`
	} `toml:"player"`

	Lyrics struct {
		Sources   []string `toml:"sources"`
		LrclibURL string   `toml:"lrclib_url"`
	} `toml:"lyrics"`

	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"log"`
}

// Config is the resolved runtime configuration. Every field has a default;
// the file only overrides.
type Config struct {
	Colors map[string]string

	Width             int
	ProgressBarLength int
	ProgressFilled    string
	ProgressEmpty     string
	ShowNext          bool
	HideHeader        bool

	PollInterval   time.Duration
	RenderInterval time.Duration

	MprisService string
	Sources      []string
	LrclibURL    string

	LogLevel string
	LogFile  string
}

func defaults() *Config {
	return &Config{
		Colors: map[string]string{
			RegionHeader:       "bright_magenta",
			RegionSongInfo:     "bright_green",
			RegionTime:         "cyan",
			RegionSectionTitle: "bright_yellow",
			RegionCurrentLyric: "bright_cyan",
			RegionCurrentTrans: "bright_black",
			RegionNextLyric:    "white",
			RegionNextTrans:    "bright_black",
			RegionDim:          "bright_black",
		},
		Width:             80,
		ProgressBarLength: 50,
		ProgressFilled:    "█",
		ProgressEmpty:     "░",
		ShowNext:          true,
		PollInterval:      DefaultPollInterval,
		RenderInterval:    DefaultRenderInterval,
		MprisService:      DefaultMprisService,
		Sources:           []string{"netease", "lrclib"},
		LrclibURL:         DefaultLrclibURL,
		LogLevel:          "info",
		LogFile:           defaultLogFile(),
	}
}

// Path returns the config file location: explicit path, then the
// LYRTRACK_CONFIG environment variable, then the XDG config directory.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("LYRTRACK_CONFIG"); env != "" {
		return env
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "lyrtrack", "config.toml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(homeDir, ".config", "lyrtrack", "config.toml")
}

func defaultLogFile() string {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, "lyrtrack", "lyrtrack.log")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "state", "lyrtrack", "lyrtrack.log")
}

// Load reads the config file at path (resolved via Path when empty) and
// applies it over the defaults. A missing file is not an error; a malformed
// one is logged and ignored so startup still succeeds with defaults.
func Load(path string) *Config {
	cfg := defaults()

	resolved := Path(path)
	if _, err := os.Stat(resolved); os.IsNotExist(err) {
		log.Debug().Str("path", resolved).Msg("no config file, using defaults")
		return cfg
	}

	var raw tomlConfig
	if _, err := toml.DecodeFile(resolved, &raw); err != nil {
		log.Warn().Err(err).Str("path", resolved).Msg("failed to parse config, using defaults")
		return cfg
	}

	cfg.apply(&raw)
	log.Debug().Str("path", resolved).Msg("loaded config")
	return cfg
}

func (c *Config) apply(raw *tomlConfig) {
	for region, value := range raw.Colors {
		if value != "" {
			c.Colors[region] = value
		}
	}

	if raw.UI.Width > 0 {
		c.Width = max(raw.UI.Width, minWidth)
	}
	if raw.UI.ProgressBarLength > 0 {
		c.ProgressBarLength = max(raw.UI.ProgressBarLength, minBarLength)
	}
	if raw.UI.ProgressFilled != "" {
		c.ProgressFilled = raw.UI.ProgressFilled
	}
	if raw.UI.ProgressEmpty != "" {
		c.ProgressEmpty = raw.UI.ProgressEmpty
	}
	if raw.UI.ShowNext != nil {
		c.ShowNext = *raw.UI.ShowNext
	}
	if raw.UI.HideHeader != nil {
		c.HideHeader = *raw.UI.HideHeader
	}

	c.PollInterval = parseInterval(raw.Loop.PollInterval, c.PollInterval)
	c.RenderInterval = parseInterval(raw.Loop.RenderInterval, c.RenderInterval)

	if raw.Player.MprisService != "" {
		c.MprisService = raw.Player.MprisService
	}
	if len(raw.Lyrics.Sources) > 0 {
		c.Sources = raw.Lyrics.Sources
	}
	if raw.Lyrics.LrclibURL != "" {
		c.LrclibURL = raw.Lyrics.LrclibURL
	}
	if raw.Log.Level != "" {
		c.LogLevel = raw.Log.Level
	}
	if raw.Log.File != "" {
		c.LogFile = raw.Log.File
	}
}

// parseInterval parses a duration string, clamping to the minimum tick the
// loop supports. Bad values keep the default rather than failing startup.
func parseInterval(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("interval", value).Msg("invalid interval in config, keeping default")
		return fallback
	}
	if d < minInterval {
		return minInterval
	}
	return d
}

// Color returns the configured color value for a UI region, or the empty
// string when the region has no entry.
func (c *Config) Color(region string) string {
	return c.Colors[region]
}
