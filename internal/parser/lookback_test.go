package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLookback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{"days", "7d", 7 * 24 * time.Hour},
		{"hours", "12h", 12 * time.Hour},
		{"minutes", "30m", 30 * time.Minute},
		{"single day", "1d", 24 * time.Hour},
		{"surrounding whitespace trimmed", " 90d ", 90 * 24 * time.Hour},
		{"unrecognized unit falls back", "7w", DefaultLookback},
		{"garbage falls back", "not-a-window", DefaultLookback},
		{"empty falls back", "", DefaultLookback},
		{"negative falls back", "-7d", DefaultLookback},
		{"missing count falls back", "d", DefaultLookback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ParseLookback(tt.input))
		})
	}
}
