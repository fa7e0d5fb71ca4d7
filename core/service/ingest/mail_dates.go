package ingest

import (
	"strings"
	"time"

	"github.com/chadBookW/email-final/pkg/apperr"
)

// Accepted Date header shapes: RFC-2822 with a numeric UTC offset, with both
// padded and unpadded day-of-month.
var offsetLayouts = []string{
	time.RFC1123Z, // Mon, 02 Jan 2006 15:04:05 -0700
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// The same shapes with the offset stripped, for headers carrying a literal
// GMT suffix instead of a numeric offset.
var bareLayouts = []string{
	"Mon, 02 Jan 2006 15:04:05",
	"Mon, 2 Jan 2006 15:04:05",
}

// NormalizeDate parses a provider Date header into a timezone-aware instant.
// A " GMT" suffix is stripped and the instant taken as UTC. Any other shape
// is a DATE_PARSE_FAILED error; the caller decides whether to skip the
// message. Never defaults to the current time.
func NormalizeDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, apperr.DateParseFailed(value)
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	if bare, ok := strings.CutSuffix(v, " GMT"); ok {
		for _, layout := range bareLayouts {
			if t, err := time.Parse(layout, bare); err == nil {
				return t.UTC(), nil
			}
		}
	}

	return time.Time{}, apperr.DateParseFailed(value)
}
