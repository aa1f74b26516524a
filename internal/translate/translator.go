// Package translate renders transcribed segments into a target language
// using OpenAI chat completions.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-subtitle/internal/apierr"
	"github.com/alnah/go-subtitle/internal/lang"
	"github.com/alnah/go-subtitle/internal/transcribe"
)

// DefaultModel is the chat model used for translation when none is configured.
const DefaultModel = "gpt-4o-mini"

const (
	defaultMaxAttempts = 4
	defaultBaseDelay   = 1 * time.Second
	defaultMaxDelay    = 20 * time.Second
)

const systemPrompt = "You are a precise translator. Return only the translation."

// ErrTranslation marks failures raised while translating segments.
var ErrTranslation = errors.New("translation failed")

// Translator translates a piece of text.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// chatCompleter is the slice of the OpenAI client we depend on.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ chatCompleter = (*openai.Client)(nil)

// OpenAITranslator translates text via chat completions with retries.
type OpenAITranslator struct {
	client     chatCompleter
	model      string
	sourceLang string
	targetLang string
	retry      apierr.RetryConfig
}

// TranslatorOption configures an OpenAITranslator.
type TranslatorOption func(*OpenAITranslator)

// WithModel sets the chat model used for translation.
func WithModel(model string) TranslatorOption {
	return func(t *OpenAITranslator) {
		if model != "" {
			t.model = model
		}
	}
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg apierr.RetryConfig) TranslatorOption {
	return func(t *OpenAITranslator) {
		t.retry = cfg
	}
}

// WithOnRetry registers an observer invoked before each retry sleep.
func WithOnRetry(fn apierr.RetryObserver) TranslatorOption {
	return func(t *OpenAITranslator) {
		t.retry.OnRetry = fn
	}
}

// NewOpenAITranslator creates a translator from sourceLang to targetLang.
func NewOpenAITranslator(client chatCompleter, sourceLang, targetLang string, opts ...TranslatorOption) *OpenAITranslator {
	t := &OpenAITranslator{
		client:     client,
		model:      DefaultModel,
		sourceLang: sourceLang,
		targetLang: targetLang,
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

// Translate translates text into the target language. Whitespace-only
// input is returned unchanged without an API call.
func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return text, nil
	}

	prompt := fmt.Sprintf("Translate the following text from %s to %s. Preserve punctuation and line breaks.\n\n%s",
		lang.DisplayName(t.sourceLang), lang.DisplayName(t.targetLang), cleaned)

	req := openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := apierr.RetryWithBackoff(ctx, t.retry, func() (openai.ChatCompletionResponse, error) {
		resp, err := t.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return openai.ChatCompletionResponse{}, apierr.Classify(err)
		}
		return resp, nil
	}, apierr.IsRetryable)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response: %w", ErrTranslation)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// All translates segments in order, replacing each segment's text while
// keeping its timestamps. The first failure stops the pass.
func All(ctx context.Context, segments []transcribe.Segment, tr Translator, progress func(msg string)) ([]transcribe.Segment, error) {
	if progress == nil {
		progress = func(string) {}
	}

	out := make([]transcribe.Segment, len(segments))
	copy(out, segments)

	for i := range out {
		progress(fmt.Sprintf("Translating segment %d/%d...", i+1, len(out)))
		translated, err := tr.Translate(ctx, out[i].Text)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d/%d: %w", ErrTranslation, i+1, len(out), err)
		}
		out[i].Text = translated
	}

	return out, nil
}
