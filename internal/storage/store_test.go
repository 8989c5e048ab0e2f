package storage

import (
	"testing"
	"time"
)

func TestParseWatermark(t *testing.T) {
	want := time.Date(2025, 6, 10, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-10T10:30:00", want},
		{"2025-06-10T10:30:00Z", want},
		{"2025-06-10T10:30:00.123456", want.Add(123456 * time.Microsecond)},
		{"1970-01-01T00:00:00", Epoch},
		{"", Epoch},
		{"garbage", Epoch},
	}
	for _, tt := range tests {
		if got := ParseWatermark(tt.in); !got.Equal(tt.want) {
			t.Errorf("ParseWatermark(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatWatermarkRoundtrip(t *testing.T) {
	orig := time.Date(2025, 6, 10, 10, 30, 0, 0, time.UTC)
	if got := ParseWatermark(FormatWatermark(orig)); !got.Equal(orig) {
		t.Errorf("roundtrip: got %v, want %v", got, orig)
	}
}
