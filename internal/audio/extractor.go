package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-subtitle/internal/ffmpeg"
)

// Extractor materializes audio artifacts with ffmpeg: the full extracted
// track from a media file, and one sub-range per window for chunked
// transcription. Artifacts are mono 16 kHz WAV, the format the transcription
// service handles best for speech.
type Extractor struct {
	ffmpegPath string
	cmd        commandRunner
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithCommandRunner sets the command runner (for testing).
func WithCommandRunner(r commandRunner) ExtractorOption {
	return func(e *Extractor) { e.cmd = r }
}

// NewExtractor creates an Extractor using the ffmpeg binary at ffmpegPath.
func NewExtractor(ffmpegPath string, opts ...ExtractorOption) (*Extractor, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	e := &Extractor{
		ffmpegPath: ffmpegPath,
		cmd:        osCommandRunner{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// encodingArgs returns the ffmpeg arguments producing mono 16 kHz WAV.
func encodingArgs() []string {
	return []string{"-vn", "-ac", "1", "-ar", "16000", "-f", "wav"}
}

// ExtractAudio extracts the full audio track from srcPath into dstPath.
func (e *Extractor) ExtractAudio(ctx context.Context, srcPath, dstPath string) error {
	args := []string{"-y", "-i", srcPath}
	args = append(args, encodingArgs()...)
	args = append(args, dstPath)
	return e.run(ctx, args, srcPath)
}

// ExtractWindow extracts the sub-range described by w from srcPath into
// dstPath. srcPath must already be an extracted audio artifact.
func (e *Extractor) ExtractWindow(ctx context.Context, srcPath, dstPath string, w Window) error {
	args := []string{
		"-y",
		"-ss", formatSeconds(w.Offset),
		"-t", formatSeconds(w.Duration),
		"-i", srcPath,
	}
	args = append(args, encodingArgs()...)
	args = append(args, dstPath)
	return e.run(ctx, args, srcPath)
}

func (e *Extractor) run(ctx context.Context, args []string, srcPath string) error {
	output, err := e.cmd.CombinedOutput(ctx, e.ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: %s: %v\nOutput: %s", ErrExtractFailed, srcPath, err, output)
	}
	return nil
}

// formatSeconds renders a duration for ffmpeg -ss/-t arguments.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
