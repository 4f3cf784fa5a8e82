package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tools names the external binaries subvox shells out to.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Recognition configures the remote speech-recognition service.
type Recognition struct {
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url"`
	SampleRate  int    `toml:"sample_rate"`
	Retries     int    `toml:"retries"`
	Concurrency int    `toml:"concurrency"`
}

// Translation configures the optional transcript translation service.
type Translation struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Detection tunes the energy-based speech region detector.
type Detection struct {
	FrameWidth        int     `toml:"frame_width"`
	MinRegionSeconds  float64 `toml:"min_region_seconds"`
	MaxRegionSeconds  float64 `toml:"max_region_seconds"`
	SilencePercentile float64 `toml:"silence_percentile"`
}

// Clips controls the padding applied when cutting per-region audio clips.
type Clips struct {
	PadBeforeSeconds float64 `toml:"pad_before_seconds"`
	PadAfterSeconds  float64 `toml:"pad_after_seconds"`
}

// Cache configures the on-disk recognition result cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subvox.
type Config struct {
	Tools       Tools       `toml:"tools"`
	Recognition Recognition `toml:"recognition"`
	Translation Translation `toml:"translation"`
	Detection   Detection   `toml:"detection"`
	Clips       Clips       `toml:"clips"`
	Cache       Cache       `toml:"cache"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subvox/config.toml")
}

// Load locates, parses, and validates a configuration file. An explicit path
// that does not exist is not an error; defaults apply. The returned config has
// all path fields expanded and normalized.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

func (c *Config) normalize() error {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	c.Recognition.APIKey = strings.TrimSpace(c.Recognition.APIKey)
	c.Recognition.BaseURL = strings.TrimRight(strings.TrimSpace(c.Recognition.BaseURL), "/")
	c.Translation.APIKey = strings.TrimSpace(c.Translation.APIKey)
	c.Translation.BaseURL = strings.TrimRight(strings.TrimSpace(c.Translation.BaseURL), "/")

	if c.Recognition.APIKey == "" {
		c.Recognition.APIKey = strings.TrimSpace(os.Getenv("SUBVOX_SPEECH_API_KEY"))
	}
	if c.Translation.APIKey == "" {
		c.Translation.APIKey = strings.TrimSpace(os.Getenv("SUBVOX_TRANSLATE_API_KEY"))
	}

	if c.Cache.Dir != "" {
		expanded, err := expandPath(c.Cache.Dir)
		if err != nil {
			return err
		}
		c.Cache.Dir = expanded
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// FFmpegBinary returns the configured ffmpeg command, falling back to PATH lookup.
func (c *Config) FFmpegBinary() string {
	if c.Tools.FFmpeg != "" {
		return c.Tools.FFmpeg
	}
	return "ffmpeg"
}

// FFprobeBinary returns the configured ffprobe command, falling back to PATH lookup.
func (c *Config) FFprobeBinary() string {
	if c.Tools.FFprobe != "" {
		return c.Tools.FFprobe
	}
	return "ffprobe"
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			trimmed = home
		} else {
			trimmed = filepath.Join(home, trimmed[2:])
		}
	}
	return filepath.Abs(trimmed)
}
