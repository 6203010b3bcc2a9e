package utils

import (
	"testing"
)

func TestPercentOfCents(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		pct    int64
		want   int64
	}{
		{"exact", 100000, 46, 46000},
		{"four percent", 100000, 4, 4000},
		{"fifty percent", 80000, 50, 40000},
		{"twenty percent", 80000, 20, 16000},
		{"fifteen percent", 80000, 15, 12000},
		{"zero amount", 0, 50, 0},
		{"negative amount", -100, 50, 0},
		{"zero percent", 100000, 0, 0},
		{"rounds down below half", 101, 4, 4},     // 4.04 cents
		{"rounds up above half", 99, 46, 46},      // 45.54 cents
		{"half rounds to even up", 50, 15, 8},     // 7.50 -> 8 (even)
		{"half rounds to even down", 150, 15, 22}, // 22.50 -> 22 (even)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentOfCents(tt.amount, tt.pct)
			if got != tt.want {
				t.Errorf("PercentOfCents(%d, %d) = %d, want %d", tt.amount, tt.pct, got, tt.want)
			}
		})
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{100000, "1000.00"},
		{46000, "460.00"},
		{4000, "40.00"},
		{123456, "1234.56"},
		{5, "0.05"},
		{0, "0.00"},
		{-250, "-2.50"},
	}

	for _, tt := range tests {
		if got := FormatCents(tt.amount); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
