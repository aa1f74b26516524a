package cli

import (
	"context"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-subtitle/internal/audio"
	"github.com/alnah/go-subtitle/internal/config"
	"github.com/alnah/go-subtitle/internal/ffmpeg"
	"github.com/alnah/go-subtitle/internal/transcribe"
	"github.com/alnah/go-subtitle/internal/translate"
)

// EnvOpenAIAPIKey is the environment variable holding the OpenAI API key.
const EnvOpenAIAPIKey = "OPENAI_API_KEY"

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	FFmpegResolver     FFmpegResolver
	ConfigLoader       ConfigLoader
	ExtractorFactory   ExtractorFactory
	ProberFactory      ProberFactory
	TranscriberFactory TranscriberFactory
	TranslatorFactory  TranslatorFactory
}

// FFmpegResolver locates the ffmpeg and ffprobe binaries.
type FFmpegResolver interface {
	Resolve() (string, error)
	ResolveProbe() (string, error)
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// AudioExtractor extracts audio tracks and audio windows from media files.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, src, dst string) error
	ExtractWindow(ctx context.Context, src, dst string, w audio.Window) error
}

// ExtractorFactory creates audio extractors bound to an ffmpeg binary.
type ExtractorFactory interface {
	NewExtractor(ffmpegPath string) (AudioExtractor, error)
}

// ProberFactory creates duration probers bound to an ffprobe binary.
type ProberFactory interface {
	NewProber(ffprobePath string) (transcribe.DurationProber, error)
}

// TranscriberFactory creates transcribers for audio-to-text conversion.
type TranscriberFactory interface {
	NewTranscriber(apiKey string, opts ...transcribe.TranscriberOption) transcribe.Transcriber
}

// TranslatorFactory creates translators for segment text.
type TranslatorFactory interface {
	NewTranslator(apiKey, sourceLang, targetLang string, opts ...translate.TranslatorOption) translate.Translator
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithFFmpegResolver sets the ffmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) {
		e.FFmpegResolver = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithExtractorFactory sets the audio extractor factory.
func WithExtractorFactory(f ExtractorFactory) EnvOption {
	return func(e *Env) {
		e.ExtractorFactory = f
	}
}

// WithProberFactory sets the duration prober factory.
func WithProberFactory(f ProberFactory) EnvOption {
	return func(e *Env) {
		e.ProberFactory = f
	}
}

// WithTranscriberFactory sets the transcriber factory.
func WithTranscriberFactory(f TranscriberFactory) EnvOption {
	return func(e *Env) {
		e.TranscriberFactory = f
	}
}

// WithTranslatorFactory sets the translator factory.
func WithTranslatorFactory(f TranslatorFactory) EnvOption {
	return func(e *Env) {
		e.TranslatorFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		FFmpegResolver:     &defaultFFmpegResolver{},
		ConfigLoader:       &defaultConfigLoader{},
		ExtractorFactory:   &defaultExtractorFactory{},
		ProberFactory:      &defaultProberFactory{},
		TranscriberFactory: &defaultTranscriberFactory{},
		TranslatorFactory:  &defaultTranslatorFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultFFmpegResolver implements FFmpegResolver using the ffmpeg package.
type defaultFFmpegResolver struct{}

func (defaultFFmpegResolver) Resolve() (string, error) {
	return ffmpeg.NewResolver().Resolve()
}

func (defaultFFmpegResolver) ResolveProbe() (string, error) {
	return ffmpeg.NewResolver().ResolveProbe()
}

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.NewLoader().Load()
}

// defaultExtractorFactory implements ExtractorFactory using the audio package.
type defaultExtractorFactory struct{}

func (defaultExtractorFactory) NewExtractor(ffmpegPath string) (AudioExtractor, error) {
	return audio.NewExtractor(ffmpegPath)
}

// defaultProberFactory implements ProberFactory using the audio package.
type defaultProberFactory struct{}

func (defaultProberFactory) NewProber(ffprobePath string) (transcribe.DurationProber, error) {
	return audio.NewProber(ffprobePath)
}

// defaultTranscriberFactory implements TranscriberFactory using OpenAI.
type defaultTranscriberFactory struct{}

func (defaultTranscriberFactory) NewTranscriber(apiKey string, opts ...transcribe.TranscriberOption) transcribe.Transcriber {
	client := openai.NewClient(apiKey)
	return transcribe.NewOpenAITranscriber(client, opts...)
}

// defaultTranslatorFactory implements TranslatorFactory using OpenAI.
type defaultTranslatorFactory struct{}

func (defaultTranslatorFactory) NewTranslator(apiKey, sourceLang, targetLang string, opts ...translate.TranslatorOption) translate.Translator {
	client := openai.NewClient(apiKey)
	return translate.NewOpenAITranslator(client, sourceLang, targetLang, opts...)
}

// Compile-time interface verification.
var (
	_ FFmpegResolver     = (*defaultFFmpegResolver)(nil)
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ ExtractorFactory   = (*defaultExtractorFactory)(nil)
	_ ProberFactory      = (*defaultProberFactory)(nil)
	_ TranscriberFactory = (*defaultTranscriberFactory)(nil)
	_ TranslatorFactory  = (*defaultTranslatorFactory)(nil)
)
