package config_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/alnah/go-subtitle/internal/config"
)

func newTestLoader(fileData string, fileErr error, env map[string]string) *config.Loader {
	return config.NewLoader(
		config.WithUserConfigDir(func() (string, error) { return "/home/u/.config", nil }),
		config.WithReadFile(func(path string) ([]byte, error) {
			if fileErr != nil {
				return nil, fileErr
			}
			return []byte(fileData), nil
		}),
		config.WithGetenv(func(key string) string { return env[key] }),
	)
}

func TestLoaderPath(t *testing.T) {
	t.Parallel()

	l := newTestLoader("", fs.ErrNotExist, nil)
	path, err := l.Path()
	if err != nil {
		t.Fatalf("Path() unexpected error: %v", err)
	}
	if path != "/home/u/.config/go-subtitle/config.toml" {
		t.Errorf("Path() = %q, want config.toml under go-subtitle", path)
	}
}

func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := newTestLoader("", fs.ErrNotExist, nil).Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}

		want := config.Config{
			SourceLang:     "ja",
			TargetLang:     "zh-TW",
			WhisperModel:   "whisper-1",
			TranslateModel: "gpt-4o-mini",
			MaxAudioMB:     24,
		}
		if cfg != want {
			t.Errorf("Load() = %+v, want %+v", cfg, want)
		}
	})

	t.Run("file values win over environment", func(t *testing.T) {
		t.Parallel()

		data := `
source_lang = "en"
target_lang = "fr"
chunk_seconds = 300
keep_audio = true
`
		env := map[string]string{
			"SUBTITLE_SOURCE_LANG":  "de",
			"SUBTITLE_MAX_AUDIO_MB": "20",
		}

		cfg, err := newTestLoader(data, nil, env).Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}

		if cfg.SourceLang != "en" {
			t.Errorf("SourceLang = %q, want file value en", cfg.SourceLang)
		}
		if cfg.TargetLang != "fr" {
			t.Errorf("TargetLang = %q, want fr", cfg.TargetLang)
		}
		if cfg.ChunkSeconds != 300 {
			t.Errorf("ChunkSeconds = %d, want 300", cfg.ChunkSeconds)
		}
		if !cfg.KeepAudio {
			t.Error("KeepAudio = false, want true")
		}
		if cfg.MaxAudioMB != 20 {
			t.Errorf("MaxAudioMB = %d, want env value 20", cfg.MaxAudioMB)
		}
		if cfg.WhisperModel != "whisper-1" {
			t.Errorf("WhisperModel = %q, want default", cfg.WhisperModel)
		}
	})

	t.Run("environment fills unset fields", func(t *testing.T) {
		t.Parallel()

		env := map[string]string{
			"SUBTITLE_TARGET_LANG":   "ko",
			"SUBTITLE_CHUNK_SECONDS": "120",
			"SUBTITLE_KEEP_AUDIO":    "true",
		}

		cfg, err := newTestLoader("", fs.ErrNotExist, env).Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}

		if cfg.TargetLang != "ko" {
			t.Errorf("TargetLang = %q, want ko", cfg.TargetLang)
		}
		if cfg.ChunkSeconds != 120 {
			t.Errorf("ChunkSeconds = %d, want 120", cfg.ChunkSeconds)
		}
		if !cfg.KeepAudio {
			t.Error("KeepAudio = false, want true")
		}
	})

	t.Run("malformed TOML is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := newTestLoader("source_lang = [broken", nil, nil).Load(); err == nil {
			t.Error("Load() error = nil, want parse error")
		}
	})

	t.Run("negative chunk_seconds is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := newTestLoader("chunk_seconds = -10", nil, nil).Load()
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("negative max_audio_mb is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := newTestLoader("max_audio_mb = -1", nil, nil).Load()
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
		}
	})
}
