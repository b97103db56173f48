package models

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		want  string
	}{
		{"2024-06-01", true, "2024-06-01"},
		{"2024-06-01T13:45:00Z", true, "2024-06-01"},
		{"2024-06-01T13:45:00", true, "2024-06-01"},
		{"  2023-12-31 ", true, "2023-12-31"},
		{"", false, ""},
		{"yesterday", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got.Format(DateLayout) != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got.Format(DateLayout), tt.want)
			}
		})
	}
}

func TestDateOrEpoch(t *testing.T) {
	if got := DateOrEpoch(""); !got.Equal(time.Unix(0, 0)) {
		t.Errorf("DateOrEpoch(\"\") = %v, want epoch", got)
	}
	if got := DateOrEpoch("not a date"); !got.Equal(time.Unix(0, 0)) {
		t.Errorf("DateOrEpoch(garbage) = %v, want epoch", got)
	}
}

func TestMonthKey(t *testing.T) {
	if got, ok := MonthKey("2024-03-15"); !ok || got != "2024-03" {
		t.Errorf("MonthKey(2024-03-15) = %q, %v", got, ok)
	}
	if _, ok := MonthKey(""); ok {
		t.Error("MonthKey(\"\") should not be ok")
	}
}
