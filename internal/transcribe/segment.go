package transcribe

import "time"

// Segment is a timed span of transcribed text. Start and End are in
// seconds from the beginning of the source media.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Shift moves segment timestamps forward by offset. Chunked transcription
// produces timestamps relative to the chunk, so each chunk's segments are
// shifted by the chunk's position in the full recording.
func Shift(segments []Segment, offset time.Duration) {
	secs := offset.Seconds()
	for i := range segments {
		segments[i].Start += secs
		segments[i].End += secs
	}
}
