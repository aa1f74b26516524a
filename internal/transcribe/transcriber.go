// Package transcribe turns audio files into timed text segments using
// OpenAI's transcription API, chunking large recordings when needed.
package transcribe

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-subtitle/internal/apierr"
	"github.com/alnah/go-subtitle/internal/lang"
)

// DefaultModel is the transcription model used when none is configured.
const DefaultModel = "whisper-1"

// Default retry policy for transcription API calls.
const (
	defaultMaxAttempts = 4
	defaultBaseDelay   = 1 * time.Second
	defaultMaxDelay    = 20 * time.Second
)

// Transcriber converts an audio file into timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
}

// audioTranscriber is the slice of the OpenAI client we depend on.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

var _ audioTranscriber = (*openai.Client)(nil)

// OpenAITranscriber transcribes audio via the OpenAI API with retries.
type OpenAITranscriber struct {
	client   audioTranscriber
	model    string
	language string
	retry    apierr.RetryConfig
}

// TranscriberOption configures an OpenAITranscriber.
type TranscriberOption func(*OpenAITranscriber)

// WithModel sets the transcription model.
func WithModel(model string) TranscriberOption {
	return func(t *OpenAITranscriber) {
		if model != "" {
			t.model = model
		}
	}
}

// WithLanguage sets the spoken language hint. Regional variants are
// reduced to their base code since the API rejects locales.
func WithLanguage(code string) TranscriberOption {
	return func(t *OpenAITranscriber) {
		t.language = lang.BaseCode(code)
	}
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg apierr.RetryConfig) TranscriberOption {
	return func(t *OpenAITranscriber) {
		t.retry = cfg
	}
}

// WithOnRetry registers an observer invoked before each retry sleep.
func WithOnRetry(fn apierr.RetryObserver) TranscriberOption {
	return func(t *OpenAITranscriber) {
		t.retry.OnRetry = fn
	}
}

// NewOpenAITranscriber creates a transcriber backed by the given client.
func NewOpenAITranscriber(client audioTranscriber, opts ...TranscriberOption) *OpenAITranscriber {
	t := &OpenAITranscriber{
		client: client,
		model:  DefaultModel,
		retry: apierr.RetryConfig{
			MaxAttempts: defaultMaxAttempts,
			BaseDelay:   defaultBaseDelay,
			MaxDelay:    defaultMaxDelay,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe sends the audio file to the API and returns its segments.
// Transient API failures are retried with exponential backoff.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	req := openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: t.language,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
		},
	}

	resp, err := apierr.RetryWithBackoff(ctx, t.retry, func() (openai.AudioResponse, error) {
		resp, err := t.client.CreateTranscription(ctx, req)
		if err != nil {
			return openai.AudioResponse{}, apierr.Classify(err)
		}
		return resp, nil
	}, apierr.IsRetryable)
	if err != nil {
		return nil, err
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, Segment{Start: s.Start, End: s.End, Text: s.Text})
	}

	// Some responses carry text without segment timings. Keep the text
	// rather than dropping it.
	if len(segments) == 0 && resp.Text != "" {
		segments = append(segments, Segment{Text: resp.Text})
	}

	return segments, nil
}
