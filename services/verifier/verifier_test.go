package verifier

import (
	"testing"
)

func TestMatchExactness(t *testing.T) {
	id := "3f2b9c7e-4a1d-4f6b-9c2e-8d7a6b5c4e3f"

	tests := []struct {
		name      string
		presented string
		want      bool
	}{
		{"exact match", id, true},
		{"empty", "", false},
		{"single char difference", "3f2b9c7e-4a1d-4f6b-9c2e-8d7a6b5c4e3e", false},
		{"case difference", "3F2B9C7E-4A1D-4F6B-9C2E-8D7A6B5C4E3F", false},
		{"prefix only", "3f2b9c7e-4a1d", false},
		{"trailing space", id + " ", false},
		{"leading space", " " + id, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(id, tt.presented); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", id, tt.presented, got, tt.want)
			}
		})
	}
}
