package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-subtitle/internal/audio"
	"github.com/alnah/go-subtitle/internal/config"
	"github.com/alnah/go-subtitle/internal/lang"
	"github.com/alnah/go-subtitle/internal/srt"
	"github.com/alnah/go-subtitle/internal/transcribe"
	"github.com/alnah/go-subtitle/internal/translate"
)

// supportedFormats lists media containers ffmpeg can extract audio from.
var supportedFormats = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".ts":   true,
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".aac":  true,
}

// minAudioBytes guards against extractions that produced no audible
// content. A WAV header alone is 44 bytes; anything under 1KB cannot
// hold meaningful speech.
const minAudioBytes = 1024

// supportedFormatsList returns a sorted, comma-separated list for error messages.
func supportedFormatsList() string {
	formats := make([]string, 0, len(supportedFormats))
	for ext := range supportedFormats {
		formats = append(formats, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(formats)
	return strings.Join(formats, ", ")
}

// deriveOutputPath converts a media file path to a subtitle output path.
// Example: "episode.mp4" -> "episode.srt"
func deriveOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".srt"
}

// generateFlags holds the flag values for the generate command.
type generateFlags struct {
	output         string
	sourceLang     string
	targetLang     string
	whisperModel   string
	translateModel string
	chunkSeconds   int
	maxAudioMB     int
	noTranslate    bool
	keepAudio      bool
	quiet          bool
}

// GenerateCmd creates the generate command.
// The env parameter provides injectable dependencies for testing.
func GenerateCmd(env *Env) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate <media-file>",
		Short: "Generate an SRT subtitle file from a video or audio file",
		Long: `Generate an SRT subtitle file from a video or audio file.

The audio track is extracted with ffmpeg, transcribed with OpenAI's
transcription API, and translated segment by segment into the target
language. Large audio is split into time windows and transcribed
sequentially.

Supported formats: ` + supportedFormatsList(),
		Example: `  subtitle generate episode.mp4
  subtitle generate episode.mp4 -o episode.zh.srt
  subtitle generate talk.mkv --source-lang en --target-lang fr
  subtitle generate interview.mp4 --no-translate
  subtitle generate lecture.mp4 --chunk-seconds 300 --keep-audio`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), env, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: <input>.srt)")
	cmd.Flags().StringVar(&flags.sourceLang, "source-lang", "", "Spoken language of the media (ISO 639-1 code)")
	cmd.Flags().StringVar(&flags.targetLang, "target-lang", "", "Language to translate subtitles into")
	cmd.Flags().StringVar(&flags.whisperModel, "whisper-model", "", "Transcription model")
	cmd.Flags().StringVar(&flags.translateModel, "translate-model", "", "Translation model")
	cmd.Flags().IntVar(&flags.chunkSeconds, "chunk-seconds", 0, "Force chunked transcription with this window length")
	cmd.Flags().IntVar(&flags.maxAudioMB, "max-audio-mb", 0, "Audio size above which chunking kicks in")
	cmd.Flags().BoolVar(&flags.noTranslate, "no-translate", false, "Keep subtitles in the source language")
	cmd.Flags().BoolVar(&flags.keepAudio, "keep-audio", false, "Keep the extracted audio file next to the input")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

// runGenerate executes the subtitle generation pipeline.
// Validation order: file exists -> format -> config -> languages -> output -> API key -> ffmpeg
func runGenerate(ctx context.Context, env *Env, inputPath string, flags generateFlags) error {
	// === VALIDATION (fail-fast) ===

	// 1. File exists
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	// 2. Format supported
	ext := strings.ToLower(filepath.Ext(inputPath))
	if !supportedFormats[ext] {
		return fmt.Errorf("unsupported format %q (supported: %s): %w",
			ext, supportedFormatsList(), ErrUnsupportedFormat)
	}

	// 3. Load config; flags override whatever it provides
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}
	mergeFlags(&cfg, flags)

	// 4. Language validation
	if err := lang.Validate(cfg.SourceLang); err != nil {
		return err
	}
	if err := lang.Validate(cfg.TargetLang); err != nil {
		return err
	}

	// 5. Output path
	output := flags.output
	if output == "" {
		output = deriveOutputPath(inputPath)
	}

	// 6. API key present
	apiKey := env.Getenv(EnvOpenAIAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	// === SETUP ===

	ffmpegPath, err := env.FFmpegResolver.Resolve()
	if err != nil {
		return err
	}

	extractor, err := env.ExtractorFactory.NewExtractor(ffmpegPath)
	if err != nil {
		return err
	}

	// ffprobe is only needed for chunked transcription. A missing binary
	// becomes an error if and when chunking is attempted.
	prober := resolveProber(env)

	progress := func(msg string) {
		if !flags.quiet {
			fmt.Fprintln(env.Stderr, msg)
		}
	}

	workDir, err := os.MkdirTemp("", "go-subtitle-*")
	if err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	// === AUDIO EXTRACTION ===

	progress("Extracting audio...")
	audioPath := filepath.Join(workDir, "audio.wav")
	if err := extractor.ExtractAudio(ctx, inputPath, audioPath); err != nil {
		return err
	}

	info, err := os.Stat(audioPath)
	if err != nil {
		return fmt.Errorf("stat extracted audio: %w", err)
	}
	if info.Size() < minAudioBytes {
		return fmt.Errorf("no audio track found in %s: %w", inputPath, audio.ErrEmptyAudio)
	}

	// === TRANSCRIPTION ===

	transcriber := env.TranscriberFactory.NewTranscriber(apiKey,
		transcribe.WithModel(cfg.WhisperModel),
		transcribe.WithLanguage(cfg.SourceLang),
		transcribe.WithOnRetry(retryNotice(progress, "Transcription")),
	)

	orchestrator := transcribe.NewOrchestrator(transcriber, extractor, prober, workDir,
		transcribe.WithChunkDuration(time.Duration(cfg.ChunkSeconds)*time.Second),
		transcribe.WithMaxPayloadBytes(int64(cfg.MaxAudioMB)*1024*1024),
		transcribe.WithProgress(progress),
	)

	progress("Transcribing...")
	segments, err := orchestrator.Run(ctx, audioPath)
	if err != nil {
		return err
	}
	progress(fmt.Sprintf("Transcription complete: %d segments", len(segments)))

	// === TRANSLATION (optional) ===

	if !flags.noTranslate && lang.Normalize(cfg.SourceLang) != lang.Normalize(cfg.TargetLang) {
		translator := env.TranslatorFactory.NewTranslator(apiKey, cfg.SourceLang, cfg.TargetLang,
			translate.WithModel(cfg.TranslateModel),
			translate.WithOnRetry(retryNotice(progress, "Translation")),
		)
		segments, err = translate.All(ctx, segments, translator, progress)
		if err != nil {
			return err
		}
	}

	// === WRITE OUTPUT ===

	// Use O_EXCL to atomically check existence and create file (avoids race condition)
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(output, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", output, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		return srt.Write(f, segments)
	}()
	if writeErr != nil {
		_ = os.Remove(output)
		return fmt.Errorf("failed to write output: %w", writeErr)
	}

	// === KEEP AUDIO (optional) ===

	if cfg.KeepAudio {
		kept := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".wav"
		if kept != inputPath {
			if err := copyFile(audioPath, kept); err != nil {
				fmt.Fprintf(env.Stderr, "Warning: failed to keep audio: %v\n", err)
			} else {
				progress(fmt.Sprintf("Kept audio: %s", kept))
			}
		}
	}

	fmt.Fprintf(env.Stderr, "Done: %s\n", output)
	return nil
}

// mergeFlags overlays non-zero flag values on the loaded config.
func mergeFlags(cfg *config.Config, flags generateFlags) {
	if flags.sourceLang != "" {
		cfg.SourceLang = flags.sourceLang
	}
	if flags.targetLang != "" {
		cfg.TargetLang = flags.targetLang
	}
	if flags.whisperModel != "" {
		cfg.WhisperModel = flags.whisperModel
	}
	if flags.translateModel != "" {
		cfg.TranslateModel = flags.translateModel
	}
	if flags.chunkSeconds > 0 {
		cfg.ChunkSeconds = flags.chunkSeconds
	}
	if flags.maxAudioMB > 0 {
		cfg.MaxAudioMB = flags.maxAudioMB
	}
	if flags.keepAudio {
		cfg.KeepAudio = true
	}
}

// retryNotice reports retry attempts through the progress sink.
func retryNotice(progress func(string), operation string) func(int, time.Duration, error) {
	return func(attempt int, delay time.Duration, err error) {
		progress(fmt.Sprintf("%s failed; retrying in %.1fs (attempt %d): %v",
			operation, delay.Seconds(), attempt, err))
	}
}

// resolveProber locates ffprobe, deferring a missing binary to the first
// actual probe so whole-file runs work without it.
func resolveProber(env *Env) transcribe.DurationProber {
	ffprobePath, err := env.FFmpegResolver.ResolveProbe()
	if err != nil {
		return unavailableProber{err: err}
	}
	prober, err := env.ProberFactory.NewProber(ffprobePath)
	if err != nil {
		return unavailableProber{err: err}
	}
	return prober
}

// unavailableProber fails every probe with the resolution error.
type unavailableProber struct{ err error }

func (p unavailableProber) Duration(context.Context, string) (time.Duration, error) {
	return 0, p.err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	// #nosec G304 -- destination derives from the user's input path
	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
