package audio

import "errors"

// ErrExtractFailed indicates ffmpeg failed to produce an audio artifact.
// Extraction is a local tool invocation and is never retried.
var ErrExtractFailed = errors.New("audio extraction failed")

// ErrProbeFailed indicates ffprobe could not measure an artifact's duration.
var ErrProbeFailed = errors.New("audio duration probe failed")

// ErrEmptyAudio indicates the extracted audio is empty or too small to hold speech.
var ErrEmptyAudio = errors.New("extracted audio is empty")
