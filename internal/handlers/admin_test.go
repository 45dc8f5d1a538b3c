package handlers

import "testing"

func TestClampLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 50},
		{"abc", 50},
		{"0", 50},
		{"-3", 50},
		{"25", 25},
		{"200", 200},
		{"9999", 200},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.raw, 50, 200); got != tt.want {
			t.Errorf("clampLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
