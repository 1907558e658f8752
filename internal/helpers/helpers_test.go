package helpers

import "testing"

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{123.45, "123.45"},
		{21.5, "21.5"},
		{100, "100"},
		{0.0004, "0"},
		{1.23456, "1.235"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
