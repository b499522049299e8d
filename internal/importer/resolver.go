package importer

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Header candidates must clear this similarity score to count as a match.
// The threshold is exclusive: exactly 0.6 does not match.
const headerSimilarityThreshold = 0.6

// Resolve locates the cell for a schema field in a raw row. A fixed position
// wins over header matching, with an out-of-bounds position reading as an
// empty cell. Returns nil when the field cannot be resolved or the cell is
// blank.
func Resolve(row []any, headers []string, field FieldSpec) any {
	if field.Position != nil {
		pos := *field.Position
		if pos < 0 || pos >= len(row) {
			return nil
		}
		return nonEmpty(row[pos])
	}

	for _, candidate := range field.Headers {
		i := findHeader(headers, candidate)
		if i < 0 {
			continue
		}
		// First satisfying candidate wins, even if the cell is blank.
		if i < len(row) {
			return nonEmpty(row[i])
		}
		return nil
	}
	return nil
}

// findHeader locates the column of a candidate header. A case-insensitive
// exact match anywhere in the row beats a fuzzy match, so the fuzzy pass only
// runs when no header matches exactly.
func findHeader(headers []string, candidate string) int {
	c := strings.ToLower(candidate)
	for i, header := range headers {
		if header != "" && strings.ToLower(header) == c {
			return i
		}
	}
	for i, header := range headers {
		if header == "" {
			continue
		}
		if fuzzyMatches(strings.ToLower(header), c) {
			return i
		}
	}
	return -1
}

// fuzzyMatches accepts a substring match in either direction backed by an
// edit-distance similarity above the threshold.
func fuzzyMatches(h, c string) bool {
	if !strings.Contains(h, c) && !strings.Contains(c, h) {
		return false
	}
	return similarity(h, c) > headerSimilarityThreshold
}

// similarity is the normalized levenshtein score 1 - dist/maxLen. Two empty
// strings score 1.0 to avoid a zero division.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	return 1 - float64(dist)/float64(maxLen)
}

// nonEmpty maps blank cells to nil: nil values and all-whitespace strings
// count as empty.
func nonEmpty(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
	}
	return v
}
