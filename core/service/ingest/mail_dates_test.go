package ingest

import (
	"testing"
	"time"

	"github.com/chadBookW/email-final/pkg/apperr"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "numeric offset",
			input: "Tue, 01 Jan 2024 10:00:00 +0000",
			want:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "GMT suffix",
			input: "Tue, 01 Jan 2024 10:00:00 GMT",
			want:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "unpadded day",
			input: "Mon, 5 Feb 2024 08:30:00 +0900",
			want:  time.Date(2024, 2, 5, 8, 30, 0, 0, time.FixedZone("", 9*3600)),
		},
		{
			name:  "unpadded day with GMT",
			input: "Mon, 5 Feb 2024 08:30:00 GMT",
			want:  time.Date(2024, 2, 5, 8, 30, 0, 0, time.UTC),
		},
		{
			name:    "empty header",
			input:   "",
			wantErr: true,
		},
		{
			name:    "unrecognized shape",
			input:   "January 1st 2024 at 10am",
			wantErr: true,
		},
		{
			name:    "named zone other than GMT",
			input:   "Tue, 01 Jan 2024 10:00:00 KST",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeDate(%q) = %v, want error", tt.input, got)
				}
				if !apperr.IsCode(err, apperr.CodeDateParseFailed) {
					t.Errorf("NormalizeDate(%q) error code = %v, want DATE_PARSE_FAILED", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NormalizeDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// The same instant written with a GMT suffix and a numeric zero offset must
// normalize identically.
func TestNormalizeDateGMTEqualsNumericOffset(t *testing.T) {
	gmt, err := NormalizeDate("Tue, 01 Jan 2024 10:00:00 GMT")
	if err != nil {
		t.Fatalf("GMT variant: %v", err)
	}
	offset, err := NormalizeDate("Tue, 01 Jan 2024 10:00:00 +0000")
	if err != nil {
		t.Fatalf("offset variant: %v", err)
	}
	if !gmt.Equal(offset) {
		t.Errorf("GMT variant %v != offset variant %v", gmt, offset)
	}
}
