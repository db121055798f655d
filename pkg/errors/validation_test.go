package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateVertexCount(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		limit   int
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"default limit", MaxVertices, 0, false},
		{"above default limit", MaxVertices + 1, 0, true},
		{"custom limit", 11, 10, true},
		{"negative", -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVertexCount(tt.n, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVertexCount(%d, %d) error = %v, wantErr %v", tt.n, tt.limit, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateProbability(t *testing.T) {
	for _, p := range []float64{0, 0.5, 1} {
		if err := ValidateProbability(p); err != nil {
			t.Errorf("ValidateProbability(%v) = %v, want nil", p, err)
		}
	}
	for _, p := range []float64{-0.1, 1.01, math.NaN()} {
		if err := ValidateProbability(p); err == nil {
			t.Errorf("ValidateProbability(%v) = nil, want error", p)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "graphs/g.txt", false},
		{"absolute", "/tmp/g.txt.gz", false},
		{"empty", "", true},
		{"null byte", "g\x00.txt", true},
		{"newline", "g\n.txt", true},
		{"too long", strings.Repeat("a", 4097), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
