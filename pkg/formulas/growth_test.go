package formulas

import (
	"math"
	"testing"
)

func TestAnnualGrowthCAGR(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		expected  float64
		wantNil   bool
		tolerance float64
	}{
		{
			name:      "doubling over four years",
			values:    []float64{100, 120, 150, 180, 200},
			expected:  0.1892, // 2^(1/4) - 1
			tolerance: 0.001,
		},
		{
			name:      "flat series",
			values:    []float64{50, 50, 50},
			expected:  0.0,
			tolerance: 0.0001,
		},
		{
			name:      "declining series",
			values:    []float64{200, 150, 100},
			expected:  -0.2929, // (0.5)^(1/2) - 1
			tolerance: 0.001,
		},
		{
			name:    "single value",
			values:  []float64{100},
			wantNil: true,
		},
		{
			name:    "empty series",
			values:  []float64{},
			wantNil: true,
		},
		{
			name:    "negative start",
			values:  []float64{-10, 100},
			wantNil: true,
		},
		{
			name:    "zero endpoint",
			values:  []float64{100, 0},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnnualGrowthCAGR(tt.values)
			if tt.wantNil {
				if result != nil {
					t.Errorf("AnnualGrowthCAGR() = %v, want nil", *result)
				}
				return
			}
			if result == nil {
				t.Fatal("AnnualGrowthCAGR() = nil, want value")
			}
			if math.Abs(*result-tt.expected) > tt.tolerance {
				t.Errorf("AnnualGrowthCAGR() = %v, want %v (±%v)", *result, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{"within range", 0.05, -0.10, 0.20, 0.05},
		{"below min", -0.50, -0.10, 0.20, -0.10},
		{"above max", 0.35, -0.10, 0.20, 0.20},
		{"at min", -0.10, -0.10, 0.20, -0.10},
		{"at max", 0.20, -0.10, 0.20, 0.20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.value, tt.min, tt.max); got != tt.expected {
				t.Errorf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}
