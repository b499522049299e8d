package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveByPosition(t *testing.T) {
	headers := []string{"a", "b", "c"}
	row := []any{"x", "y", ""}

	assert.Equal(t, "y", Resolve(row, headers, FieldSpec{Name: "f", Position: col(1)}))
	assert.Nil(t, Resolve(row, headers, FieldSpec{Name: "f", Position: col(2)}), "blank cell reads as nil")
	assert.Nil(t, Resolve(row, headers, FieldSpec{Name: "f", Position: col(9)}), "out of bounds reads as empty")
	assert.Nil(t, Resolve([]any{"  "}, headers, FieldSpec{Name: "f", Position: col(0)}), "whitespace is empty")
}

func TestResolvePositionWinsOverHeaders(t *testing.T) {
	headers := []string{"fecha", "cliente"}
	row := []any{"2024-01-10", "ACME"}
	field := FieldSpec{Name: "fecha", Position: col(0), Headers: []string{"cliente"}}

	// The candidate list points at another column but must not matter.
	assert.Equal(t, "2024-01-10", Resolve(row, headers, field))

	field.Headers = []string{"algo", "totalmente", "distinto"}
	assert.Equal(t, "2024-01-10", Resolve(row, headers, field))
}

func TestResolveByHeader(t *testing.T) {
	headers := []string{"Número", "FECHA", "Cliente "}
	row := []any{"F1", "2024-01-10", "ACME"}

	got := Resolve(row, headers, FieldSpec{Name: "fecha", Headers: []string{"fecha"}})
	assert.Equal(t, "2024-01-10", got)

	// Substring plus similarity above the threshold.
	got = Resolve(row, headers, FieldSpec{Name: "cliente", Headers: []string{"cliente"}})
	assert.Equal(t, "ACME", got)

	assert.Nil(t, Resolve(row, headers, FieldSpec{Name: "otro", Headers: []string{"proveedor"}}))
}

func TestResolveSkipsEmptyHeaders(t *testing.T) {
	headers := []string{"", "fecha"}
	row := []any{"ignorado", "2024-01-10"}

	got := Resolve(row, headers, FieldSpec{Name: "fecha", Headers: []string{"fecha"}})
	assert.Equal(t, "2024-01-10", got)
}

func TestResolveFirstCandidateWins(t *testing.T) {
	headers := []string{"date", "fecha"}
	row := []any{"primero", "segundo"}

	field := FieldSpec{Name: "fecha", Headers: []string{"date", "fecha"}}
	assert.Equal(t, "primero", Resolve(row, headers, field))
}

func TestResolveExactHeaderBeatsFuzzy(t *testing.T) {
	// An exact header later in the row must win over an earlier fuzzy one.
	headers := []string{"fech", "fecha"}
	row := []any{"aproximado", "exacto"}

	field := FieldSpec{Name: "fecha", Headers: []string{"fecha"}}
	assert.Equal(t, "exacto", Resolve(row, headers, field))

	// With no exact header present the fuzzy pass still applies.
	headers = []string{"fech", "cliente"}
	assert.Equal(t, "aproximado", Resolve(row, headers, field))
}

func TestSimilarityThresholdIsExclusive(t *testing.T) {
	// "fecha" vs "fec": distance 2 over max length 5 = exactly 0.6.
	assert.InDelta(t, 0.6, similarity("fecha", "fec"), 1e-9)
	assert.False(t, fuzzyMatches("fec", "fecha"), "similarity of exactly 0.6 must not match")

	// "fechas" vs "fech": distance 2 over 6 = 0.667, just above the threshold.
	assert.InDelta(t, 2.0/3.0, similarity("fechas", "fech"), 1e-9)
	assert.True(t, fuzzyMatches("fech", "fechas"))

	// "fecha" vs "fech": distance 1 over 5 = 0.8.
	assert.True(t, fuzzyMatches("fech", "fecha"))
}

func TestSimilarityEmptyStrings(t *testing.T) {
	assert.Equal(t, 1.0, similarity("", ""))
}
