package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToDateString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"iso string", "2024-03-15", "2024-03-15"},
		{"european slash", "15/03/2024", "2024-03-15"},
		{"european dash", "15-03-2024", "2024-03-15"},
		{"short day month", "5/3/2024", "2024-03-05"},
		{"short day month dash", "5-3-2024", "2024-03-05"},
		{"native date", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), "2024-03-15"},
		{"serial first day", 1, "1900-01-01"},
		{"serial before leap bug", 59, "1900-02-28"},
		{"serial after leap bug", 61, "1900-03-01"},
		{"serial modern", 45000, "2023-03-15"},
		{"serial float", float64(45000), "2023-03-15"},
		{"generic layout", "2024/03/15", "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDateString(tt.value))
		})
	}
}

func TestToDateStringFallback(t *testing.T) {
	clock := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)

	// Unparsable input falls back to the pinned clock.
	assert.Equal(t, "2025-01-02", toDateString("sin fecha", clock))
	assert.Equal(t, "2025-01-02", toDateString(nil, clock))
	assert.Equal(t, "2025-01-02", toDateString(-3, clock))

	// A pattern match whose parse fails falls through to the same default.
	assert.Equal(t, "2025-01-02", toDateString("99/99/2024", clock))
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   float64
		wantOK bool
	}{
		{"numeric passthrough", 1234.56, 1234.56, true},
		{"int passthrough", 42, 42, true},
		{"empty string", "", 0, true},
		{"nil", nil, 0, true},
		{"plain decimal", "1234.56", 1234.56, true},
		{"comma decimal", "1234,56", 1234.56, true},
		{"currency noise", "$ 1,5", 1.5, true},
		{"negative", "-12.5", -12.5, true},
		// Mixed separators are not handled: "1.234,56" strips to "1.234.56"
		// and only its numeric prefix survives.
		{"mixed separators", "1.234,56", 1.234, true},
		{"not a number", "abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "  ACME  ", ToString("  ACME  "), "strings are preserved verbatim")
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "1234.5", ToString(1234.5))
	assert.Equal(t, "2024-03-15", ToString(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
}
