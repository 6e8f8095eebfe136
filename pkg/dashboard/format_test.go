package dashboard

import (
	"testing"
	"time"
)

func intp(n int) *int { return &n }

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		in   *int
		want string
	}{
		{"nil", nil, "--"},
		{"zero", intp(0), "0"},
		{"below threshold", intp(999), "999"},
		{"threshold", intp(1000), "1.0k"},
		{"steps", intp(8234), "8.2k"},
		{"rounds up", intp(8250), "8.3k"},
		{"stored below half", intp(1150), "1.1k"},
		{"stored above half", intp(1350), "1.4k"},
		{"large", intp(12345), "12.3k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNumber(tt.in); got != tt.want {
				t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatNumberFloat(t *testing.T) {
	cal := 2460.0
	if got := FormatNumber(&cal); got != "2.5k" {
		t.Errorf("FormatNumber(2460.0) = %q, want %q", got, "2.5k")
	}
	small := 12.5
	if got := FormatNumber(&small); got != "12.5" {
		t.Errorf("FormatNumber(12.5) = %q, want %q", got, "12.5")
	}
}

func TestRoundTenth(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.15, 1.1},
		{8.25, 8.3},
		{2.46, 2.5},
		{-1.25, -1.3},
		{7.0, 7},
	}
	for _, tt := range tests {
		if got := roundTenth(tt.in); got != tt.want {
			t.Errorf("roundTenth(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	hours := 1.15
	if got := FormatValue(&hours); got != "1.1" {
		t.Errorf("FormatValue(1.15) = %q, want %q", got, "1.1")
	}
	whole := 7.0
	if got := FormatValue(&whole); got != "7" {
		t.Errorf("FormatValue(7) = %q, want %q", got, "7")
	}
	if got := FormatValue(nil); got != NoData {
		t.Errorf("FormatValue(nil) = %q, want %q", got, NoData)
	}
}

func TestFormatScore(t *testing.T) {
	if got := FormatScore(nil); got != NoData {
		t.Errorf("FormatScore(nil) = %q, want %q", got, NoData)
	}
	if got := FormatScore(intp(85)); got != "85" {
		t.Errorf("FormatScore(85) = %q, want %q", got, "85")
	}
	if got := FormatScore(intp(0)); got != "0" {
		t.Errorf("FormatScore(0) = %q, want %q", got, "0")
	}
}

func TestToHours(t *testing.T) {
	tests := []struct {
		in   *int
		name string
		want float64
	}{
		{name: "nil", in: nil, want: 0},
		{name: "zero", in: intp(0), want: 0},
		{name: "ninety minutes", in: intp(5400), want: 1.5},
		{name: "rounded", in: intp(7000), want: 1.9},
		{name: "stored below half", in: intp(4140), want: 1.1},
		{name: "eight hours", in: intp(28800), want: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHours(tt.in); got != tt.want {
				t.Errorf("ToHours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatUpdated(t *testing.T) {
	ts := time.Date(2024, 1, 31, 14, 5, 0, 0, time.UTC)
	if got, want := FormatUpdated(ts, time.UTC), "Updated Jan 31, 02:05 PM"; got != want {
		t.Errorf("FormatUpdated() = %q, want %q", got, want)
	}

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	if got, want := FormatUpdated(ts, ny), "Updated Jan 31, 09:05 AM"; got != want {
		t.Errorf("FormatUpdated(NY) = %q, want %q", got, want)
	}

	if got := FormatUpdated(time.Time{}, time.UTC); got != "" {
		t.Errorf("FormatUpdated(zero) = %q, want empty", got)
	}
}
