package audio

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-subtitle/internal/ffmpeg"
)

// Prober measures audio artifact durations with ffprobe.
type Prober struct {
	ffprobePath string
	cmd         commandRunner
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProberCommandRunner sets the command runner (for testing).
func WithProberCommandRunner(r commandRunner) ProberOption {
	return func(p *Prober) { p.cmd = r }
}

// NewProber creates a Prober using the ffprobe binary at ffprobePath.
func NewProber(ffprobePath string, opts ...ProberOption) (*Prober, error) {
	if ffprobePath == "" {
		return nil, fmt.Errorf("ffprobePath cannot be empty: %w", ffmpeg.ErrProbeNotFound)
	}

	p := &Prober{
		ffprobePath: ffprobePath,
		cmd:         osCommandRunner{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Duration returns the duration of the audio artifact at audioPath.
func (p *Prober) Duration(ctx context.Context, audioPath string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}

	output, err := p.cmd.CombinedOutput(ctx, p.ffprobePath, args)
	if err != nil {
		return 0, fmt.Errorf("%w: %v\nOutput: %s", ErrProbeFailed, err, output)
	}

	raw := strings.TrimSpace(string(output))
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot parse duration %q", ErrProbeFailed, raw)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
