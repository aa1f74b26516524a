// Package audio plans and materializes the audio artifacts submitted to the
// transcription service: the full extracted track, and per-window sub-ranges
// when the track must be chunked.
package audio

import "time"

// windowEpsilon guards against an empty trailing window caused by
// floating-point drift in probed durations.
const windowEpsilon = 10 * time.Millisecond

// Window is one bounded time-range of the source audio, processed as a
// single transcription request.
type Window struct {
	Offset   time.Duration // Start position in the source audio.
	Duration time.Duration // Length of the window.
}

// Windows splits total into consecutive, non-overlapping windows of length
// chunk starting at zero. The last window is truncated to the remaining
// duration. Together the windows cover [0, total).
func Windows(total, chunk time.Duration) []Window {
	if total <= 0 || chunk <= 0 {
		return nil
	}

	var windows []Window
	for offset := time.Duration(0); offset < total-windowEpsilon; offset += chunk {
		windows = append(windows, Window{
			Offset:   offset,
			Duration: min(chunk, total-offset),
		})
	}
	return windows
}
