package transcribe

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alnah/go-subtitle/internal/apierr"
	"github.com/alnah/go-subtitle/internal/audio"
	"github.com/alnah/go-subtitle/internal/format"
)

// Defaults for chunked transcription.
const (
	// DefaultChunkDuration is the chunk length used when the payload
	// size gives no better estimate.
	DefaultChunkDuration = 10 * time.Minute

	// DefaultMaxPayloadBytes is the largest audio file sent to the API
	// in one request. The API rejects payloads over 25MB; 24MB leaves
	// headroom for multipart encoding overhead.
	DefaultMaxPayloadBytes = 24 * 1024 * 1024
)

// WindowExtractor extracts a time window of an audio file.
type WindowExtractor interface {
	ExtractWindow(ctx context.Context, src, dst string, w audio.Window) error
}

// DurationProber reports the duration of an audio file.
type DurationProber interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// ProgressFunc receives human-readable progress messages.
type ProgressFunc func(msg string)

// Orchestrator transcribes an audio file, falling back to chunked
// transcription when the file is too large for a single API request
// or when the API rejects the whole-file attempt.
type Orchestrator struct {
	transcriber     Transcriber
	extractor       WindowExtractor
	prober          DurationProber
	workDir         string
	defaultChunk    time.Duration
	explicitChunk   time.Duration
	maxPayloadBytes int64
	keepArtifacts   bool
	progress        ProgressFunc
	statter         fileStatter
	files           fileRemover
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithChunkDuration forces chunked transcription with the given window
// length, bypassing the payload size check.
func WithChunkDuration(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.explicitChunk = d
	}
}

// WithDefaultChunkDuration sets the ceiling for estimated chunk lengths.
func WithDefaultChunkDuration(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.defaultChunk = d
		}
	}
}

// WithMaxPayloadBytes sets the payload size above which chunking kicks in.
func WithMaxPayloadBytes(n int64) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxPayloadBytes = n
		}
	}
}

// WithKeepArtifacts keeps chunk files in the work directory instead of
// removing them after transcription.
func WithKeepArtifacts(keep bool) OrchestratorOption {
	return func(o *Orchestrator) {
		o.keepArtifacts = keep
	}
}

// WithProgress registers a sink for progress messages.
func WithProgress(fn ProgressFunc) OrchestratorOption {
	return func(o *Orchestrator) {
		if fn != nil {
			o.progress = fn
		}
	}
}

// WithFileStatter overrides file metadata lookup, for testing.
func WithFileStatter(s fileStatter) OrchestratorOption {
	return func(o *Orchestrator) {
		if s != nil {
			o.statter = s
		}
	}
}

// WithFileRemover overrides chunk file removal, for testing.
func WithFileRemover(r fileRemover) OrchestratorOption {
	return func(o *Orchestrator) {
		if r != nil {
			o.files = r
		}
	}
}

// NewOrchestrator creates an orchestrator that writes chunk files to workDir.
func NewOrchestrator(t Transcriber, e WindowExtractor, p DurationProber, workDir string, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		transcriber:     t,
		extractor:       e,
		prober:          p,
		workDir:         workDir,
		defaultChunk:    DefaultChunkDuration,
		maxPayloadBytes: DefaultMaxPayloadBytes,
		progress:        func(string) {},
		statter:         osFileStatter{},
		files:           osFileRemover{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run transcribes the audio file at audioPath and returns segments with
// timestamps relative to the start of the recording.
//
// Small files are sent whole. If the API rejects a whole-file request for
// a size-related reason, the run falls back to chunked transcription
// instead of failing. Large files are chunked up front with a window
// length estimated from the file's byte rate.
func (o *Orchestrator) Run(ctx context.Context, audioPath string) ([]Segment, error) {
	info, err := o.statter.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("stat audio file: %w", err)
	}
	size := info.Size()

	if o.explicitChunk > 0 {
		return o.runChunked(ctx, audioPath, o.explicitChunk, 0)
	}

	if size <= o.maxPayloadBytes {
		segments, err := o.transcriber.Transcribe(ctx, audioPath)
		if err == nil {
			return segments, nil
		}
		if !apierr.RequiresChunkFallback(err) {
			return nil, err
		}
		o.progress(fmt.Sprintf("Whole-file transcription rejected (%v); retrying in %s chunks.",
			err, format.Duration(o.defaultChunk)))
		return o.runChunked(ctx, audioPath, o.defaultChunk, 0)
	}

	total, err := o.prober.Duration(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	plan := audio.PlanChunks(total, size, o.maxPayloadBytes, o.defaultChunk, 0)
	o.progress(fmt.Sprintf("Audio is large (%s); auto-chunking with %s windows.",
		format.Size(size), format.Duration(plan.ChunkDuration)))

	return o.runChunked(ctx, audioPath, plan.ChunkDuration, total)
}

// runChunked splits the audio into windows of the given length and
// transcribes them one at a time, shifting timestamps into place.
func (o *Orchestrator) runChunked(ctx context.Context, audioPath string, chunk, total time.Duration) ([]Segment, error) {
	if total <= 0 {
		var err error
		total, err = o.prober.Duration(ctx, audioPath)
		if err != nil {
			return nil, err
		}
	}
	if total <= 0 {
		return nil, fmt.Errorf("audio has no duration: %w", audio.ErrEmptyAudio)
	}

	windows := audio.Windows(total, chunk)

	var all []Segment
	for i, w := range windows {
		chunkPath := filepath.Join(o.workDir, fmt.Sprintf("chunk_%04d.wav", i))
		o.progress(fmt.Sprintf("Transcribing chunk %d/%d at %s...",
			i+1, len(windows), format.Duration(w.Offset)))

		if err := o.extractor.ExtractWindow(ctx, audioPath, chunkPath, w); err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(windows), err)
		}

		segments, err := o.transcriber.Transcribe(ctx, chunkPath)
		if !o.keepArtifacts {
			_ = o.files.Remove(chunkPath)
		}
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(windows), err)
		}

		Shift(segments, w.Offset)
		all = append(all, segments...)
	}

	return all, nil
}
