// Package config loads tool configuration from YAML with environment
// overrides. Every setting has a default; a config file is optional.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ffmpegPathEnv  = "AUDIOQUALITY_FFMPEG"
	ffprobePathEnv = "AUDIOQUALITY_FFPROBE"
	profileEnv     = "AUDIOQUALITY_PROFILE"
	logLevelEnv    = "AUDIOQUALITY_LOG_LEVEL"
	jobsEnv        = "AUDIOQUALITY_JOBS"
)

// ConfigPathEnv names the environment variable read for the config file
// location when no --config flag is given.
const ConfigPathEnv = "AUDIOQUALITY_CONFIG"

// Config holds all settings for one analysis run.
type Config struct {
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Profile string        `yaml:"profile"`
	Jobs    int           `yaml:"jobs"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// FFmpegConfig locates the external toolchain. Empty paths mean PATH lookup.
type FFmpegConfig struct {
	FFmpegPath     string `yaml:"ffmpegPath"`
	FFprobePath    string `yaml:"ffprobePath"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout returns the per-invocation toolchain timeout.
func (f FFmpegConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// CacheConfig controls the persistent extraction cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// OutputConfig names the report artifacts. Empty paths disable an artifact.
type OutputConfig struct {
	CSVPath  string `yaml:"csvPath"`
	JSONPath string `yaml:"jsonPath"`
	SafeMode bool   `yaml:"safeMode"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FFmpeg: FFmpegConfig{
			TimeoutSeconds: 120,
		},
		Profile: "pop",
		Jobs:    runtime.NumCPU(),
		Cache: CacheConfig{
			Enabled: true,
			Path:    ".audioquality-cache.json",
		},
		Output: OutputConfig{
			CSVPath:  "audio_quality_report.csv",
			SafeMode: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// $AUDIOQUALITY_CONFIG when path is empty), then environment overrides.
// A missing file is only an error when it was named explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err != nil && explicit:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		case err != nil:
			// Env-suggested file that is absent; defaults apply.
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	if cfg.FFmpeg.TimeoutSeconds <= 0 {
		cfg.FFmpeg.TimeoutSeconds = Default().FFmpeg.TimeoutSeconds
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(ffmpegPathEnv); v != "" {
		c.FFmpeg.FFmpegPath = v
	}
	if v := os.Getenv(ffprobePathEnv); v != "" {
		c.FFmpeg.FFprobePath = v
	}
	if v := os.Getenv(profileEnv); v != "" {
		c.Profile = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(jobsEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Jobs = n
		}
	}
}
