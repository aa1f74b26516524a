package lang_test

import (
	"errors"
	"testing"

	"github.com/alnah/go-subtitle/internal/lang"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"zh-TW", "zh-tw"},
		{"zh_TW", "zh-tw"},
		{"ZH-TW", "zh-tw"},
		{"ja", "ja"},
		{"EN", "en"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := lang.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid codes", func(t *testing.T) {
		t.Parallel()

		for _, code := range []string{"en", "ja", "zh", "zh-TW", "pt-BR", "fr_CA", ""} {
			if err := lang.Validate(code); err != nil {
				t.Errorf("Validate(%q) = %v, want nil", code, err)
			}
		}
	})

	t.Run("invalid codes", func(t *testing.T) {
		t.Parallel()

		for _, code := range []string{"xx", "klingon", "12"} {
			if err := lang.Validate(code); !errors.Is(err, lang.ErrInvalid) {
				t.Errorf("Validate(%q) = %v, want ErrInvalid", code, err)
			}
		}
	})
}

func TestBaseCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"zh-TW", "zh"},
		{"zh_TW", "zh"},
		{"pt-BR", "pt"},
		{"ja", "ja"},
		{"EN", "en"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := lang.BaseCode(tt.in); got != tt.want {
				t.Errorf("BaseCode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"ja", "Japanese"},
		{"zh-TW", "Traditional Chinese"},
		{"zh_tw", "Traditional Chinese"},
		{"pt-BR", "Brazilian Portuguese"},
		{"fr-BE", "French"}, // unknown locale falls back to base language
		{"xx", "xx"},        // unknown code returned as-is
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := lang.DisplayName(tt.in); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
