package audio

import "time"

// minChunkDuration is the floor for estimated chunk durations. Chunking
// shorter than this multiplies requests without a meaningful payload benefit.
const minChunkDuration = 30 * time.Second

// Plan describes whether and how the audio must be split before submission.
// The zero value means the whole file is submitted in one request.
type Plan struct {
	Chunked       bool
	ChunkDuration time.Duration
}

// PlanChunks decides whether chunking is required and computes the chunk
// duration. explicitChunk > 0 is a user override used verbatim, skipping
// estimation entirely. Otherwise audio at or under maxPayloadBytes is
// submitted whole; larger audio gets a chunk duration estimated from its
// average byte rate and clamped to [30s, defaultChunk]. Degenerate inputs
// (non-positive duration, size, or estimate) fall back to defaultChunk.
//
// Pure function: the duration and size are measurements taken by the caller.
func PlanChunks(total time.Duration, sizeBytes, maxPayloadBytes int64, defaultChunk, explicitChunk time.Duration) Plan {
	if explicitChunk > 0 {
		return Plan{Chunked: true, ChunkDuration: explicitChunk}
	}
	if sizeBytes <= maxPayloadBytes {
		return Plan{}
	}

	seconds := total.Seconds()
	if seconds <= 0 || sizeBytes <= 0 {
		return Plan{Chunked: true, ChunkDuration: defaultChunk}
	}

	bytesPerSecond := float64(sizeBytes) / seconds
	estimated := time.Duration(float64(maxPayloadBytes)/bytesPerSecond) * time.Second
	if estimated <= 0 {
		return Plan{Chunked: true, ChunkDuration: defaultChunk}
	}

	return Plan{Chunked: true, ChunkDuration: max(minChunkDuration, min(defaultChunk, estimated))}
}
