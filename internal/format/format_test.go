package format_test

import (
	"testing"
	"time"

	"github.com/alnah/go-subtitle/internal/format"
)

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "00:00"},
		{"seconds only", 42 * time.Second, "00:42"},
		{"minutes and seconds", 5*time.Minute + 3*time.Second, "05:03"},
		{"exactly one hour", time.Hour, "01:00:00"},
		{"hours minutes seconds", 2*time.Hour + 30*time.Minute + 25*time.Second, "02:30:25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := format.Duration(tt.d); got != tt.want {
				t.Errorf("Duration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"bytes", 512, "512 bytes"},
		{"kilobytes", 10 * 1024, "10 KB"},
		{"megabytes", 25 * 1024 * 1024, "25 MB"},
		{"just under a megabyte", 1024*1024 - 1, "1023 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := format.Size(tt.bytes); got != tt.want {
				t.Errorf("Size(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
