// Package srt writes segments in the SubRip subtitle format.
package srt

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/alnah/go-subtitle/internal/transcribe"
)

// Timestamp renders seconds as an SRT timestamp, HH:MM:SS,mmm.
// Negative inputs clamp to zero.
func Timestamp(seconds float64) string {
	millis := int64(math.Round(seconds * 1000))
	if millis < 0 {
		millis = 0
	}

	h := millis / 3_600_000
	millis %= 3_600_000
	m := millis / 60_000
	millis %= 60_000
	s := millis / 1000
	ms := millis % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// Write renders segments as numbered SRT blocks separated by blank lines.
func Write(w io.Writer, segments []transcribe.Segment) error {
	bw := bufio.NewWriter(w)
	for i, seg := range segments {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n",
			i+1, Timestamp(seg.Start), Timestamp(seg.End), strings.TrimSpace(seg.Text))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
