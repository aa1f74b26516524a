// Package config loads generation defaults from a TOML file and the
// environment. Command-line flags override whatever is loaded here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Built-in defaults, used when neither the config file nor the
// environment provides a value.
const (
	DefaultSourceLang     = "ja"
	DefaultTargetLang     = "zh-TW"
	DefaultWhisperModel   = "whisper-1"
	DefaultTranslateModel = "gpt-4o-mini"
	DefaultMaxAudioMB     = 24
)

// Environment variable fallbacks, read when the config file leaves a
// field unset.
const (
	envSourceLang     = "SUBTITLE_SOURCE_LANG"
	envTargetLang     = "SUBTITLE_TARGET_LANG"
	envWhisperModel   = "SUBTITLE_WHISPER_MODEL"
	envTranslateModel = "SUBTITLE_TRANSLATE_MODEL"
	envChunkSeconds   = "SUBTITLE_CHUNK_SECONDS"
	envMaxAudioMB     = "SUBTITLE_MAX_AUDIO_MB"
	envKeepAudio      = "SUBTITLE_KEEP_AUDIO"
)

// ErrInvalidConfig indicates a config value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default returns a Config with built-in defaults only.
func Default() Config {
	var cfg Config
	fillDefaults(&cfg)
	return cfg
}

// Config holds generation defaults. Field precedence is config file,
// then environment, then built-in default.
type Config struct {
	SourceLang     string `toml:"source_lang"`
	TargetLang     string `toml:"target_lang"`
	WhisperModel   string `toml:"whisper_model"`
	TranslateModel string `toml:"translate_model"`
	ChunkSeconds   int    `toml:"chunk_seconds"`
	MaxAudioMB     int    `toml:"max_audio_mb"`
	KeepAudio      bool   `toml:"keep_audio"`
}

// Loader reads configuration from disk and the environment.
type Loader struct {
	getenv   func(string) string
	readFile func(string) ([]byte, error)
	userDir  func() (string, error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithGetenv overrides environment lookup, for testing.
func WithGetenv(fn func(string) string) LoaderOption {
	return func(l *Loader) {
		if fn != nil {
			l.getenv = fn
		}
	}
}

// WithReadFile overrides file reading, for testing.
func WithReadFile(fn func(string) ([]byte, error)) LoaderOption {
	return func(l *Loader) {
		if fn != nil {
			l.readFile = fn
		}
	}
}

// WithUserConfigDir overrides the base config directory lookup, for testing.
func WithUserConfigDir(fn func() (string, error)) LoaderOption {
	return func(l *Loader) {
		if fn != nil {
			l.userDir = fn
		}
	}
}

// NewLoader creates a Loader backed by the OS.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		getenv:   os.Getenv,
		readFile: os.ReadFile,
		userDir:  os.UserConfigDir,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the config file location,
// ($XDG_CONFIG_HOME|~/.config)/go-subtitle/config.toml.
func (l *Loader) Path() (string, error) {
	dir, err := l.userDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "go-subtitle", "config.toml"), nil
}

// Load reads the config file, fills unset fields from the environment,
// then from built-in defaults. A missing file is not an error.
func (l *Loader) Load() (Config, error) {
	var cfg Config

	path, err := l.Path()
	if err != nil {
		return Config{}, err
	}

	data, err := l.readFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No config file, environment and defaults apply.
	case err != nil:
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	l.fillFromEnv(&cfg)
	fillDefaults(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l *Loader) fillFromEnv(cfg *Config) {
	if cfg.SourceLang == "" {
		cfg.SourceLang = l.getenv(envSourceLang)
	}
	if cfg.TargetLang == "" {
		cfg.TargetLang = l.getenv(envTargetLang)
	}
	if cfg.WhisperModel == "" {
		cfg.WhisperModel = l.getenv(envWhisperModel)
	}
	if cfg.TranslateModel == "" {
		cfg.TranslateModel = l.getenv(envTranslateModel)
	}
	if cfg.ChunkSeconds == 0 {
		if n, err := strconv.Atoi(l.getenv(envChunkSeconds)); err == nil {
			cfg.ChunkSeconds = n
		}
	}
	if cfg.MaxAudioMB == 0 {
		if n, err := strconv.Atoi(l.getenv(envMaxAudioMB)); err == nil {
			cfg.MaxAudioMB = n
		}
	}
	if !cfg.KeepAudio {
		if b, err := strconv.ParseBool(l.getenv(envKeepAudio)); err == nil {
			cfg.KeepAudio = b
		}
	}
}

func fillDefaults(cfg *Config) {
	if cfg.SourceLang == "" {
		cfg.SourceLang = DefaultSourceLang
	}
	if cfg.TargetLang == "" {
		cfg.TargetLang = DefaultTargetLang
	}
	if cfg.WhisperModel == "" {
		cfg.WhisperModel = DefaultWhisperModel
	}
	if cfg.TranslateModel == "" {
		cfg.TranslateModel = DefaultTranslateModel
	}
	if cfg.MaxAudioMB == 0 {
		cfg.MaxAudioMB = DefaultMaxAudioMB
	}
}

func validate(cfg Config) error {
	if cfg.MaxAudioMB <= 0 {
		return fmt.Errorf("max_audio_mb must be positive, got %d: %w", cfg.MaxAudioMB, ErrInvalidConfig)
	}
	if cfg.ChunkSeconds < 0 {
		return fmt.Errorf("chunk_seconds must not be negative, got %d: %w", cfg.ChunkSeconds, ErrInvalidConfig)
	}
	return nil
}
