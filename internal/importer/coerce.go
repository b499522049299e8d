package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Fixed string patterns tried before a generic parse, in order.
var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02"},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), "02/01/2006"},
	{regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`), "02-01-2006"},
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), "2/1/2006"},
	{regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`), "2-1-2006"},
}

// Layouts tried when no fixed pattern matched or its parse failed.
var genericDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"02 Jan 2006",
	"Jan 02, 2006",
	time.RFC3339,
}

// ToDateString coerces a raw cell into a YYYY-MM-DD string. It never fails:
// when every strategy comes up short, the current date is returned so an
// import is never blocked on an unparsable date.
func ToDateString(value any) string {
	return toDateString(value, time.Now())
}

func toDateString(value any, now time.Time) string {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(dateLayout)
	case string:
		for _, p := range datePatterns {
			if !p.re.MatchString(v) {
				continue
			}
			if t, err := time.Parse(p.layout, v); err == nil {
				return t.Format(dateLayout)
			}
			break
		}
		for _, layout := range genericDateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.Format(dateLayout)
			}
		}
	case float64:
		if v > 0 {
			return serialToDate(int(v)).Format(dateLayout)
		}
	case int:
		if v > 0 {
			return serialToDate(v).Format(dateLayout)
		}
	case int64:
		if v > 0 {
			return serialToDate(int(v)).Format(dateLayout)
		}
	}
	return now.UTC().Format(dateLayout)
}

// serialToDate converts a legacy spreadsheet serial (days counted from the
// 1900 epoch) to a calendar date. Serials above 59 carry the historical
// phantom leap day and are shifted back by one.
func serialToDate(serial int) time.Time {
	days := serial
	if days > 59 {
		days--
	}
	return time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}

var numberStrip = regexp.MustCompile(`[^0-9.,-]`)

// ToNumber coerces a raw cell into a float64. Blank input coerces to zero;
// strings are stripped down to digits, dots, commas and minus signs, with
// every comma becoming a decimal point. Mixed thousands and decimal
// separators are therefore not handled. The ok result is false only for a
// non-empty string that still fails to parse after stripping.
func ToNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if v == "" {
			return 0, true
		}
		s := numberStrip.ReplaceAllString(v, "")
		s = strings.ReplaceAll(s, ",", ".")
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true
		}
		// Values like "1.234.56" still carry a usable numeric prefix.
		var n float64
		if _, err := fmt.Sscanf(s, "%f", &n); err == nil {
			return n, true
		}
		return 0, false
	}
	return 0, true
}

// ToString renders a raw cell verbatim. No trimming: spreadsheet content is
// preserved exactly.
func ToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.UTC().Format(dateLayout)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
